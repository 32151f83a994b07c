package steam

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// profileFixture builds a community profile page with the markup fragments
// the scraper targets, pointing image URLs at base.
func profileFixture(base string) string {
	return fmt.Sprintf(`<html>
<head>
<title>Steam 社区 :: alice</title>
<link rel="image_src" href="%[1]s/img/avatar.jpg">
</head>
<body>
<div class="profile_background" style="background-image: url( '%[1]s/img/bg.jpg' );"></div>
<div class="profile_summary">
	hello<br>world ːsteamhappyː <i>markup</i>
</div>
<div class="recentgame_quicklinks recentgame_recentplaytime">
	<div>过去 2 周 12.5 小时</div>
</div>
<div class="recent_game">
	<img class="game_capsule" src="%[1]s/img/dota.jpg">
	<div class="game_name"><a class="whiteLink" href="#">Dota 2</a></div>
	<div class="game_info_details">总时数 102 小时<br>最后运行日期：8 月 20 日</div>
	<div class="game_info_achievement" data-tooltip-text="First Blood"><img src="%[1]s/img/ach1.jpg"></div>
	<div class="game_info_achievement" data-tooltip-text="Victory"><img src="%[1]s/img/ach2.jpg"></div>
	<div class="game_info_achievement game_info_achievement_plus_more" data-tooltip-text=""><img src="%[1]s/img/more.jpg"></div>
	<span class="game_info_achievement_summary">已达成 <span class="ellipsis">3 / 50</span></span>
</div>
<div class="recent_game">
	<img src="%[1]s/img/stardew.jpg" class="game_capsule">
	<div class="game_name"><a class="whiteLink" href="#">Stardew Valley</a></div>
</div>
</body>
</html>`, base)
}

func communityServer(t *testing.T, page func(base string) string) *Client {
	t.Helper()
	var base string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/profiles/"):
			fmt.Fprint(w, page(base))
		case strings.HasPrefix(r.URL.Path, "/img/"):
			fmt.Fprint(w, "img:"+strings.TrimPrefix(r.URL.Path, "/img/"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	base = srv.URL

	return NewClient(nil,
		WithAPIBase(srv.URL),
		WithCommunityBase(srv.URL),
		WithLogger(quietLogger()),
	)
}

func TestFetchProfile(t *testing.T) {
	c := communityServer(t, profileFixture)

	p, err := c.FetchProfile(context.Background(), IDOffset+1, Defaults{})
	if err != nil {
		t.Fatalf("FetchProfile error: %v", err)
	}

	if p.Name != "alice" {
		t.Errorf("Name = %q, want alice", p.Name)
	}
	// Bio: <br> becomes a newline, emoticon codes and markup are stripped.
	if p.Summary != "hello\nworld  markup" {
		t.Errorf("Summary = %q", p.Summary)
	}
	if p.RecentPlaytime != "过去 2 周 12.5 小时" {
		t.Errorf("RecentPlaytime = %q", p.RecentPlaytime)
	}
	if !bytes.Equal(p.Background, []byte("img:bg.jpg")) {
		t.Errorf("Background = %q", p.Background)
	}
	if !bytes.Equal(p.Avatar, []byte("img:avatar.jpg")) {
		t.Errorf("Avatar = %q", p.Avatar)
	}

	if len(p.Games) != 2 {
		t.Fatalf("got %d games, want 2", len(p.Games))
	}

	dota := p.Games[0]
	if dota.Name != "Dota 2" {
		t.Errorf("game name = %q", dota.Name)
	}
	if dota.PlaytimeHours != "102" {
		t.Errorf("playtime = %q, want 102", dota.PlaytimeHours)
	}
	if dota.LastPlayed != "最后运行日期：8 月 20 日" {
		t.Errorf("last played = %q", dota.LastPlayed)
	}
	if !bytes.Equal(dota.Header, []byte("img:dota.jpg")) {
		t.Errorf("header = %q", dota.Header)
	}
	// The plus_more tile is a counter, not an achievement.
	if len(dota.Achievements) != 2 {
		t.Fatalf("got %d achievements, want 2", len(dota.Achievements))
	}
	if dota.Achievements[0].Name != "First Blood" || dota.Achievements[1].Name != "Victory" {
		t.Errorf("achievement names = %q, %q", dota.Achievements[0].Name, dota.Achievements[1].Name)
	}
	if !dota.HasCounts || dota.Completed != 3 || dota.Total != 50 {
		t.Errorf("counts = %d/%d (has=%v), want 3/50", dota.Completed, dota.Total, dota.HasCounts)
	}

	stardew := p.Games[1]
	if stardew.Name != "Stardew Valley" {
		t.Errorf("game name = %q", stardew.Name)
	}
	// No details block means the title is being played right now.
	if stardew.LastPlayed != "当前正在游戏" {
		t.Errorf("last played = %q", stardew.LastPlayed)
	}
	if stardew.HasCounts {
		t.Error("second game should have no achievement counts")
	}
}

func TestFetchProfile_EmptyPageUsesDefaults(t *testing.T) {
	c := communityServer(t, func(string) string { return "<html></html>" })

	defaults := Defaults{Background: []byte("bg"), Avatar: []byte("av")}
	p, err := c.FetchProfile(context.Background(), IDOffset+2, defaults)
	if err != nil {
		t.Fatalf("FetchProfile error: %v", err)
	}
	if p.Name != "Unknown" {
		t.Errorf("Name = %q, want Unknown", p.Name)
	}
	if p.Summary != "No information given." {
		t.Errorf("Summary = %q", p.Summary)
	}
	if !bytes.Equal(p.Background, defaults.Background) || !bytes.Equal(p.Avatar, defaults.Avatar) {
		t.Error("missing images should fall back to defaults")
	}
	if len(p.Games) != 0 {
		t.Errorf("got %d games, want 0", len(p.Games))
	}
}
