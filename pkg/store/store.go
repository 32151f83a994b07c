// Package store persists the long-lived state behind the status cards:
// which chat user is bound to which Steam account, per-group metadata, and
// the set of groups with broadcasts muted.
//
// Data is keyed by parent (a chat group) then by user. Two backends
// implement [Store]: a JSON file for single-instance CLI use and MongoDB
// for the service deployment.
package store

import "context"

// Binding links one chat user to a Steam account within a parent group.
type Binding struct {
	UserID   string `json:"user_id" bson:"user_id"`
	SteamID  string `json:"steam_id" bson:"steam_id"`
	Nickname string `json:"nickname" bson:"nickname"`
}

// Parent holds display metadata for a group: the header of its roster card.
type Parent struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar" bson:"avatar"` // file path or URL
}

// Store is the persistence interface. Lookups for missing records return
// (nil, nil) rather than an error; only I/O failures surface as errors.
type Store interface {
	// Binding returns the binding for userID in parentID, or nil.
	Binding(ctx context.Context, parentID, userID string) (*Binding, error)

	// Bindings returns all bindings in parentID.
	Bindings(ctx context.Context, parentID string) ([]Binding, error)

	// SetBinding creates or replaces a binding.
	SetBinding(ctx context.Context, parentID string, b Binding) error

	// RemoveBinding deletes a binding; removing a missing one is a no-op.
	RemoveBinding(ctx context.Context, parentID, userID string) error

	// Parent returns group metadata, or nil when unknown.
	Parent(ctx context.Context, parentID string) (*Parent, error)

	// SetParent creates or replaces group metadata.
	SetParent(ctx context.Context, p Parent) error

	// Muted reports whether broadcasts are muted for parentID.
	Muted(ctx context.Context, parentID string) (bool, error)

	// SetMuted toggles broadcast muting for parentID.
	SetMuted(ctx context.Context, parentID string, muted bool) error

	// Close releases backend resources.
	Close() error
}
