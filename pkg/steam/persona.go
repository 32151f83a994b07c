package steam

import (
	"fmt"
	"time"
)

// Persona states as returned by GetPlayerSummaries.
const (
	StateOffline = iota
	StateOnline
	StateBusy
	StateAway
	StateSnooze
	StateLookingToTrade
	StateLookingToPlay
)

// StatusText converts a persona state into the display status shown on
// roster rows. Players in a game show the game title; offline players with
// a known last-logoff show a relative "上次在线" label.
func StatusText(state int, gameExtraInfo string, lastLogoff int64, now time.Time) string {
	switch state {
	case StateOffline:
		if lastLogoff == 0 {
			return "离线"
		}
		return "上次在线 " + relativeAge(now.Unix()-lastLogoff)
	case StateOnline, StateBusy, StateSnooze:
		if gameExtraInfo != "" {
			return gameExtraInfo
		}
		return "在线"
	case StateAway:
		if gameExtraInfo != "" {
			return gameExtraInfo
		}
		return "离开"
	case StateLookingToTrade, StateLookingToPlay:
		return "在线"
	default:
		return "未知"
	}
}

// relativeAge renders an age in seconds using the coarsest sensible unit,
// with calendar months approximated at 30 days.
func relativeAge(seconds int64) string {
	switch {
	case seconds < 60:
		return "刚刚"
	case seconds < 3600:
		return fmt.Sprintf("%d 分钟前", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d 小时前", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d 天前", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%d 个月前", seconds/2592000)
	default:
		return fmt.Sprintf("%d 年前", seconds/31536000)
	}
}
