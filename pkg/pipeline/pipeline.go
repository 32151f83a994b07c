// Package pipeline orchestrates the fetch → compose → encode flow behind
// every card. CLI and HTTP service both call through a [Runner] so caching
// and logging behave identically at both entry points.
//
// The pipeline consists of three stages:
//
//  1. Fetch: pull player data and images from Steam (Web API + community
//     page scrape)
//  2. Compose: build the card image (profile, roster, or notice)
//  3. Encode: serialize to PNG
//
// Rendered PNGs are cached under a hash of the fetched inputs, so a
// repeated request for unchanged data is a byte copy.
//
// Usage:
//
//	runner := pipeline.NewRunner(cache, client, store, fonts, logger)
//	res, err := runner.RenderProfile(ctx, pipeline.ProfileOptions{ID: "76561198000000000"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("card.png", res.PNG, 0644)
package pipeline

import (
	"bytes"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/statuscard/pkg/canvas"
)

// DefaultRenderTTL is how long rendered PNGs stay cached. Persona data
// changes quickly, so rendered cards go stale in minutes, not hours.
const DefaultRenderTTL = 10 * time.Minute

// DefaultConcurrency bounds parallel renders in the batch entry points.
const DefaultConcurrency = 4

// ProfileOptions selects a profile-card render.
type ProfileOptions struct {
	// ID is a SteamID64 or friend code.
	ID string

	// Refresh bypasses the render cache.
	Refresh bool
}

// RosterOptions selects a roster-card render for one group.
type RosterOptions struct {
	ParentID string
	Refresh  bool
}

// NoticeOptions selects a gaming-start notice render.
type NoticeOptions struct {
	// ID is the SteamID64 or friend code of the player who started a game.
	ID string

	// ParentID optionally scopes the nickname lookup to a group binding.
	ParentID string
}

// Result is a finished render.
type Result struct {
	PNG      []byte
	CacheHit bool
	Stats    Stats
}

// Stats carries per-stage timings for logging and the API response headers.
type Stats struct {
	FetchTime   time.Duration
	ComposeTime time.Duration
	EncodeTime  time.Duration
}

// encodePNG serializes an image.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeImage turns fetched bytes into an image, or nil when the bytes are
// missing or not decodable. Callers treat nil as a data gap.
func decodeImage(data []byte) image.Image {
	if len(data) == 0 {
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// Binary template assets are not shipped; the stand-in backdrop and avatar
// are generated at the Steam store palette.
func defaultBackground() image.Image {
	return canvas.VerticalGradient(1920, 1080, canvas.Hex("1b2838"), canvas.Hex("2a475e"))
}

func defaultAvatar() image.Image {
	return canvas.VerticalGradient(184, 184, canvas.Hex("434953"), canvas.Hex("2a2e35"))
}
