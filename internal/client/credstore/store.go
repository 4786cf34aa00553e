// Package credstore is the single owner of the persisted session tokens.
//
// Two implementations exist: Sealed keeps AES-GCM sealed tokens in a SQLite
// file and survives restarts; Memory lives only as long as the process.
// Callers only see the Store interface.
package credstore

import "context"

// Store reads and writes named secrets.
//
// Get folds every failure into "absent" and logs it; Lookup reports the
// cause, with common.ErrNotFound meaning a clean miss. SetPair and DeletePair
// touch access_token and refresh_token as a unit: either both writes land or
// an error is returned and neither did.
type Store interface {
	Get(ctx context.Context, name string) (string, bool)
	Lookup(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
	SetPair(ctx context.Context, access, refresh string) error
	DeletePair(ctx context.Context) error
}
