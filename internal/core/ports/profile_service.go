package ports

import (
	"context"

	"github.com/uniblog/client/internal/core/domain"
)

// ProfileService holds at most one snapshot of the current user's profile
// and applies confirmed mutations to it. Patches land only after the
// resource server acknowledges the mutation, never before.
type ProfileService interface {
	// Load fetches the full profile and replaces any prior snapshot
	// wholesale. Concurrent loads are last-write-wins.
	Load(ctx context.Context) (*domain.User, error)

	// Snapshot returns a deep copy of the held snapshot, if any.
	Snapshot() (*domain.User, bool)

	// RenameUsername patches only the snapshot's username after the
	// server confirms. An empty name (after trimming) fails locally
	// without a network call.
	RenameUsername(ctx context.Context, newName string) error

	// DeletePost removes the matching post id from the snapshot after
	// the server confirms. Calling it with no snapshot held fails with
	// domain.ErrNoSnapshot.
	DeletePost(ctx context.Context, postID int) error

	// AddBookmark creates a bookmark for postID and appends the
	// server-returned record to the snapshot.
	AddBookmark(ctx context.Context, postID int) error

	// RemoveBookmark deletes the bookmark and removes it from the
	// snapshot.
	RemoveBookmark(ctx context.Context, bookmarkID int) error

	// Invalidate drops the snapshot and discards the results of any
	// in-flight operation started before the call.
	Invalidate()
}
