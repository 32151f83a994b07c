// Package steam fetches player data from the Steam Web API and the
// community profile pages.
//
// Two data paths feed the renderers: [Client.PlayerSummaries] returns the
// persona state used for roster cards, and [Client.FetchProfile] scrapes
// the community page for the richer profile-card data (bio, background,
// recent titles with achievements). Image fetches go through the shared
// byte cache with retry and fall back to caller-supplied defaults.
package steam

import (
	"strconv"

	"github.com/matzehuels/statuscard/pkg/errors"
)

// IDOffset is the difference between a SteamID64 and the short friend code
// shown in the Steam client.
const IDOffset = 76561197960265728

// ResolveID accepts either a SteamID64 or a friend code and returns the
// SteamID64. Values below IDOffset are treated as friend codes.
func ResolveID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidSteamID, "id must be a SteamID64 or friend code: %s", s)
	}
	if id < IDOffset {
		return id + IDOffset, nil
	}
	return id, nil
}

// FriendCode returns the short friend code for a SteamID64.
func FriendCode(id uint64) string {
	if id >= IDOffset {
		id -= IDOffset
	}
	return strconv.FormatUint(id, 10)
}
