package steam

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/statuscard/pkg/errors"
	"github.com/matzehuels/statuscard/pkg/httputil"
)

// AchievementData is one earned achievement scraped from a recent-game
// block.
type AchievementData struct {
	Name    string
	IconURL string
	Icon    []byte
}

// GameActivity is one recently played title from the community page.
type GameActivity struct {
	Name          string
	HeaderURL     string
	Header        []byte
	PlaytimeHours string // e.g. "10.2", without the unit
	LastPlayed    string // "最后运行日期：…" or "当前正在游戏"
	Achievements  []AchievementData
	Completed     int
	Total         int
	HasCounts     bool
}

// ProfileData is everything scraped from a community profile page.
type ProfileData struct {
	SteamID        string
	Name           string
	Summary        string
	BackgroundURL  string
	Background     []byte
	AvatarURL      string
	Avatar         []byte
	RecentPlaytime string // e.g. "过去 2 周 10.2 小时", empty when absent
	Games          []GameActivity
}

// Defaults supplies fallback bytes used when an image fetch fails. Nil
// fields simply propagate as nil image bytes.
type Defaults struct {
	Background  []byte
	Avatar      []byte
	Header      []byte
	Achievement []byte
}

// The community page is served as stable template HTML, so targeted
// patterns are enough; no DOM parse needed.
var (
	reTitle       = regexp.MustCompile(`<title>Steam 社区 :: (.*?)</title>`)
	reSummary     = regexp.MustCompile(`(?s)<div class="profile_summary">(.*?)</div>`)
	reBackground  = regexp.MustCompile(`background-image: url\( '(.*?)' \)`)
	reAvatar      = regexp.MustCompile(`<link rel="image_src" href="(.*?)"`)
	reRecentTime  = regexp.MustCompile(`(?s)<div class="recentgame_quicklinks recentgame_recentplaytime">\s*<div>(.*?)</div>`)
	reGameBlock   = regexp.MustCompile(`<div class="recent_game">`)
	reGameName    = regexp.MustCompile(`(?s)<div class="game_name">(.*?)</div>`)
	reCapsuleA    = regexp.MustCompile(`<img[^>]*class="game_capsule"[^>]*src="(.*?)"`)
	reCapsuleB    = regexp.MustCompile(`<img[^>]*src="(.*?)"[^>]*class="game_capsule"`)
	reGameDetails = regexp.MustCompile(`(?s)<div class="game_info_details">(.*?)</div>`)
	rePlaytime    = regexp.MustCompile(`总时数\s*(.*?)\s*小时`)
	reLastPlayed  = regexp.MustCompile(`最后运行日期：(.*) 日`)
	reAchievement = regexp.MustCompile(`(?s)<div class="game_info_achievement([^"]*)"[^>]*data-tooltip-text="(.*?)"[^>]*>\s*<img[^>]*src="(.*?)"`)
	reAchSummary  = regexp.MustCompile(`(?s)<span class="game_info_achievement_summary">.*?<span class="ellipsis">(.*?)</span>`)
	reEmoticon    = regexp.MustCompile(`ː.*?ː`)
	reTag         = regexp.MustCompile(`<.*?>`)
)

// FetchProfile scrapes the community profile page for id: display name,
// bio, background, avatar, and the recent-games list with achievements.
// Image downloads are cached and fall back to defaults on failure; a
// failed page load is an error since nothing useful can be rendered.
func (c *Client) FetchProfile(ctx context.Context, id uint64, defaults Defaults) (*ProfileData, error) {
	result := &ProfileData{
		SteamID:    strconv.FormatUint(id, 10),
		Name:       "Unknown",
		Summary:    "No information given.",
		Background: defaults.Background,
		Avatar:     defaults.Avatar,
	}

	html, err := c.profilePage(ctx, id)
	if err != nil {
		return nil, err
	}

	if m := reTitle.FindStringSubmatch(html); m != nil {
		result.Name = m[1]
	}
	if m := reSummary.FindStringSubmatch(html); m != nil {
		result.Summary = cleanSummary(m[1])
	}
	if m := reBackground.FindStringSubmatch(html); m != nil {
		result.BackgroundURL = m[1]
		result.Background = c.FetchImage(ctx, m[1], defaults.Background)
	}
	if m := reAvatar.FindStringSubmatch(html); m != nil {
		result.AvatarURL = m[1]
		result.Avatar = c.FetchImage(ctx, m[1], defaults.Avatar)
	}
	if m := reRecentTime.FindStringSubmatch(html); m != nil {
		result.RecentPlaytime = strings.TrimSpace(m[1])
	}

	for _, block := range gameBlocks(html) {
		result.Games = append(result.Games, c.parseGame(ctx, block, defaults))
	}
	return result, nil
}

// profilePage loads the community page with zh-CN content negotiation so
// the scraped labels match the rendered card language. The timezoneOffset
// cookie makes Steam format "last played" dates in the local zone.
func (c *Client) profilePage(ctx context.Context, id uint64) (string, error) {
	endpoint := fmt.Sprintf("%s/profiles/%d", c.communityBase, id)

	_, offset := time.Now().Zone()

	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6")
		req.AddCookie(&http.Cookie{Name: "timezoneOffset", Value: fmt.Sprintf("%d,0", offset)})
		body, err = httputil.GetBytes(c.http, req)
		return err
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "fetch community profile")
	}
	return string(body), nil
}

func (c *Client) parseGame(ctx context.Context, block string, defaults Defaults) GameActivity {
	game := GameActivity{LastPlayed: "当前正在游戏"}

	if m := reGameName.FindStringSubmatch(block); m != nil {
		game.Name = strings.TrimSpace(reTag.ReplaceAllString(m[1], ""))
	}
	if m := reCapsuleA.FindStringSubmatch(block); m != nil {
		game.HeaderURL = m[1]
	} else if m := reCapsuleB.FindStringSubmatch(block); m != nil {
		game.HeaderURL = m[1]
	}
	if game.HeaderURL != "" {
		game.Header = c.FetchImage(ctx, game.HeaderURL, defaults.Header)
	} else {
		game.Header = defaults.Header
	}

	if m := reGameDetails.FindStringSubmatch(block); m != nil {
		details := strings.TrimSpace(reTag.ReplaceAllString(m[1], ""))
		if pm := rePlaytime.FindStringSubmatch(details); pm != nil {
			game.PlaytimeHours = pm[1]
		}
		if lm := reLastPlayed.FindStringSubmatch(details); lm != nil {
			game.LastPlayed = "最后运行日期：" + lm[1] + " 日"
		}
	}

	for _, am := range reAchievement.FindAllStringSubmatch(block, -1) {
		if strings.Contains(am[1], "plus_more") {
			continue
		}
		game.Achievements = append(game.Achievements, AchievementData{
			Name:    am[2],
			IconURL: am[3],
			Icon:    c.FetchImage(ctx, am[3], defaults.Achievement),
		})
	}

	if m := reAchSummary.FindStringSubmatch(block); m != nil {
		parts := strings.SplitN(m[1], "/", 2)
		if len(parts) == 2 {
			completed, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			total, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 == nil && err2 == nil {
				game.Completed, game.Total, game.HasCounts = completed, total, true
			}
		}
	}
	return game
}

// gameBlocks splits the page into one substring per recent_game container.
// Blocks run to the start of the next container; trailing page content in
// the last block is harmless since every pattern matches near the top.
func gameBlocks(html string) []string {
	locs := reGameBlock.FindAllStringIndex(html, -1)
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(html)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, html[loc[0]:end])
	}
	return blocks
}

// cleanSummary normalizes the profile bio: <br> to newlines, emoticon
// codes and markup stripped.
func cleanSummary(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, "\t", "")
	s = reEmoticon.ReplaceAllString(s, "")
	s = reTag.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
