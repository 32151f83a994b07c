package steam

import (
	"testing"
	"time"
)

func TestResolveID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{"steamid64 passes through", "76561198000000001", 76561198000000001, false},
		{"friend code gets offset", "39735273", 39735273 + IDOffset, false},
		{"zero is a friend code", "0", IDOffset, false},
		{"not a number", "alice", 0, true},
		{"negative", "-5", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFriendCode(t *testing.T) {
	if got := FriendCode(IDOffset + 39735273); got != "39735273" {
		t.Errorf("FriendCode = %s, want 39735273", got)
	}
	// Already-short values pass through.
	if got := FriendCode(12345); got != "12345" {
		t.Errorf("FriendCode = %s, want 12345", got)
	}
}

func TestStatusText(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name       string
		state      int
		game       string
		lastLogoff int64
		want       string
	}{
		{"offline no logoff", StateOffline, "", 0, "离线"},
		{"offline just now", StateOffline, "", now.Unix() - 30, "上次在线 刚刚"},
		{"offline minutes", StateOffline, "", now.Unix() - 150, "上次在线 2 分钟前"},
		{"offline hours", StateOffline, "", now.Unix() - 7200, "上次在线 2 小时前"},
		{"offline days", StateOffline, "", now.Unix() - 3*86400, "上次在线 3 天前"},
		{"offline months", StateOffline, "", now.Unix() - 70*86400, "上次在线 2 个月前"},
		{"offline years", StateOffline, "", now.Unix() - 800*86400, "上次在线 2 年前"},
		{"online idle", StateOnline, "", 0, "在线"},
		{"online in game", StateOnline, "Dota 2", 0, "Dota 2"},
		{"busy in game", StateBusy, "Dota 2", 0, "Dota 2"},
		{"snooze idle", StateSnooze, "", 0, "在线"},
		{"away idle", StateAway, "", 0, "离开"},
		{"away in game", StateAway, "Hades II", 0, "Hades II"},
		{"looking to trade", StateLookingToTrade, "", 0, "在线"},
		{"looking to play", StateLookingToPlay, "", 0, "在线"},
		{"unknown state", 42, "", 0, "未知"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusText(tt.state, tt.game, tt.lastLogoff, now); got != tt.want {
				t.Errorf("StatusText = %q, want %q", got, tt.want)
			}
		})
	}
}
