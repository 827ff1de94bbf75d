package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/uniblog/client/internal/core/domain"
	"github.com/uniblog/client/internal/core/ports"
)

// ProfileService is the resource cache and mutator: it holds at most one
// snapshot of the current user and patches it only after the resource
// server confirms a mutation. It never re-fetches to apply a patch, because
// every mutation's effect is a structurally simple insert, remove, or field
// update.
//
// The snapshot and a generation counter share one mutex. Invalidate bumps
// the generation; any operation that was in flight when that happened
// discards its result instead of resurrecting state the owner tore down.
type ProfileService struct {
	store    ports.CredentialStore
	gate     ports.Gateway
	validate *validator.Validate
	log      zerolog.Logger

	mu         sync.Mutex
	snapshot   *domain.User
	generation uint64
}

func NewProfileService(store ports.CredentialStore, gate ports.Gateway, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		store:    store,
		gate:     gate,
		validate: validator.New(),
		log:      log,
	}
}

// session re-reads the credential store before each operation; an absent
// session short-circuits to Unauthorized without touching the network, so
// the caller's guard check and the service agree by construction.
func (s *ProfileService) session() (domain.Session, error) {
	sess, err := s.store.Read()
	if err != nil {
		return domain.Session{}, fmt.Errorf("profile: read credential: %w", err)
	}
	if !sess.Present {
		return domain.Session{}, domain.Unauthorized()
	}
	return sess, nil
}

// Load fetches the full profile via GET /users/me and replaces any prior
// snapshot wholesale. Concurrent loads are last-write-wins; a load that
// finishes after Invalidate returns its result without installing it.
func (s *ProfileService) Load(ctx context.Context) (*domain.User, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	raw, err := s.gate.Do(ctx, http.MethodGet, "/users/me", nil, sess)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("profile: decode user: %w", err)
	}
	user.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		s.log.Debug().Msg("profile load finished after invalidation, result discarded")
		return user.Clone(), nil
	}
	s.snapshot = &user
	s.log.Debug().Int("user_id", user.ID).Int("posts", len(user.Posts)).Int("bookmarks", len(user.Bookmarks)).Msg("profile snapshot replaced")
	return user.Clone(), nil
}

// Snapshot returns a deep copy of the held snapshot, if any.
func (s *ProfileService) Snapshot() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot.Clone(), true
}

type renameRequest struct {
	Username string `json:"username"`
}

// RenameUsername changes the username via PUT /users/me/username and, after
// the server acknowledges, patches only the snapshot's username field.
// Posts and bookmarks are untouched. A name that is empty after trimming is
// rejected before any network call.
func (s *ProfileService) RenameUsername(ctx context.Context, newName string) error {
	name := strings.TrimSpace(newName)
	if err := s.validate.Var(name, "required"); err != nil {
		return domain.LocalValidation("username must not be empty")
	}

	gen, err := s.requireSnapshot()
	if err != nil {
		return fmt.Errorf("rename username: %w", err)
	}

	sess, err := s.session()
	if err != nil {
		return err
	}

	if _, err := s.gate.Do(ctx, http.MethodPut, "/users/me/username", renameRequest{Username: name}, sess); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.snapshot == nil {
		s.log.Debug().Msg("rename confirmed after invalidation, patch discarded")
		return nil
	}
	s.snapshot.Username = &name
	s.log.Info().Str("username", name).Msg("username updated")
	return nil
}

// DeletePost deletes the post via DELETE /posts/{id} and, after the server
// acknowledges, removes exactly the matching id from the snapshot's posts,
// preserving order.
func (s *ProfileService) DeletePost(ctx context.Context, postID int) error {
	gen, err := s.requireSnapshot()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	sess, err := s.session()
	if err != nil {
		return err
	}

	if _, err := s.gate.Do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, sess); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.snapshot == nil {
		return nil
	}
	posts := s.snapshot.Posts[:0]
	for _, p := range s.snapshot.Posts {
		if p.ID != postID {
			posts = append(posts, p)
		}
	}
	s.snapshot.Posts = posts
	s.log.Info().Int("post_id", postID).Msg("post removed from snapshot")
	return nil
}

type addBookmarkRequest struct {
	PostID int `json:"post_id"`
}

// AddBookmark creates a bookmark via POST /bookmarks/ and appends the
// server-returned record to the snapshot. The server owns the bookmark id;
// a record whose id is already held is not appended twice.
func (s *ProfileService) AddBookmark(ctx context.Context, postID int) error {
	gen, err := s.requireSnapshot()
	if err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}

	sess, err := s.session()
	if err != nil {
		return err
	}

	raw, err := s.gate.Do(ctx, http.MethodPost, "/bookmarks/", addBookmarkRequest{PostID: postID}, sess)
	if err != nil {
		return err
	}

	var bookmark domain.Bookmark
	if err := json.Unmarshal(raw, &bookmark); err != nil {
		return fmt.Errorf("add bookmark: decode response: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.snapshot == nil {
		return nil
	}
	for _, b := range s.snapshot.Bookmarks {
		if b.ID == bookmark.ID {
			return nil
		}
	}
	s.snapshot.Bookmarks = append(s.snapshot.Bookmarks, bookmark)
	s.log.Info().Int("bookmark_id", bookmark.ID).Int("post_id", postID).Msg("bookmark added to snapshot")
	return nil
}

// RemoveBookmark deletes the bookmark via DELETE /bookmarks/{id} (the
// server answers 204 with no body) and removes the matching record from the
// snapshot.
func (s *ProfileService) RemoveBookmark(ctx context.Context, bookmarkID int) error {
	gen, err := s.requireSnapshot()
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}

	sess, err := s.session()
	if err != nil {
		return err
	}

	if _, err := s.gate.Do(ctx, http.MethodDelete, fmt.Sprintf("/bookmarks/%d", bookmarkID), nil, sess); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.snapshot == nil {
		return nil
	}
	bookmarks := s.snapshot.Bookmarks[:0]
	for _, b := range s.snapshot.Bookmarks {
		if b.ID != bookmarkID {
			bookmarks = append(bookmarks, b)
		}
	}
	s.snapshot.Bookmarks = bookmarks
	s.log.Info().Int("bookmark_id", bookmarkID).Msg("bookmark removed from snapshot")
	return nil
}

// Invalidate drops the snapshot and advances the generation so in-flight
// operations started earlier cannot install or patch state. Wired to the
// logout signal by the composition root.
func (s *ProfileService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snapshot = nil
	s.log.Debug().Msg("profile snapshot invalidated")
}

// requireSnapshot checks the mutation precondition: mutating before a load
// completed is a programming-contract violation, reported as ErrNoSnapshot
// rather than silently ignored. Returns the current generation for the
// post-confirmation staleness check.
func (s *ProfileService) requireSnapshot() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return 0, domain.ErrNoSnapshot
	}
	return s.generation, nil
}
