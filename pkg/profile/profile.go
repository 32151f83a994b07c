// Package profile composes the full player status card: a mosaic-recolored
// backdrop, avatar, biography, and a variable-height stack of per-title
// activity blocks with achievement strips.
//
// All inputs are immutable to the composer; every render builds fresh
// canvases and the package holds no cross-call state.
package profile

import "image"

// Achievement is one earned achievement shown in the strip.
type Achievement struct {
	Name string
	Icon image.Image
}

// AchievementCounts carries the completed/total counters for a title. The
// pointer-absence of the whole pair on TitleActivity marks a data gap: the
// strip is omitted and the block height shrinks.
type AchievementCounts struct {
	Completed int
	Total     int
}

// TitleActivity describes one recently played title.
type TitleActivity struct {
	Title         string
	Header        image.Image // capsule/header artwork
	TotalPlaytime string      // e.g. "10.2 小时"
	LastPlayed    string      // e.g. "最后运行日期：8 月 20 日"
	Achievements  []Achievement
	Counts        *AchievementCounts
}

// Profile is the full input for one status card render.
type Profile struct {
	Name        string
	ID          string // friend code / SteamID, shown under the name
	Bio         string
	Avatar      image.Image
	Background  image.Image // profile background photo, drives the palette
	RecentLabel string      // optional recent-playtime label, right-aligned
	Titles      []TitleActivity
}
