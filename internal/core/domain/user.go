package domain

import "time"

// Category is immutable reference data attached to posts.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Post is an authored entry owned by a user. Posts are created, edited and
// deleted exclusively through the resource server; the client never
// fabricates an id.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   int       `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Category  *Category `json:"category,omitempty"`
}

// Bookmark is a join record between a user and a post. The embedded Post is
// a read-only server-side snapshot, never mutated independently here.
type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	Post      Post      `json:"post"`
}

// User is the current visitor's profile together with the resources they
// own. The whole value is replaced on each successful fetch; individual
// fields are patched in place after confirmed mutations.
type User struct {
	ID         int        `json:"id"`
	Email      string     `json:"email"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	Username   *string    `json:"username,omitempty"`
	Posts      []Post     `json:"posts"`
	Bookmarks  []Bookmark `json:"bookmarks"`
}

// Clone returns a deep copy so callers cannot alias the cache's snapshot.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Username != nil {
		name := *u.Username
		clone.Username = &name
	}
	clone.Posts = append([]Post(nil), u.Posts...)
	for i := range clone.Posts {
		clone.Posts[i] = clonePost(clone.Posts[i])
	}
	clone.Bookmarks = append([]Bookmark(nil), u.Bookmarks...)
	for i := range clone.Bookmarks {
		clone.Bookmarks[i].Post = clonePost(clone.Bookmarks[i].Post)
	}
	return &clone
}

func clonePost(p Post) Post {
	if p.ImageURL != nil {
		u := *p.ImageURL
		p.ImageURL = &u
	}
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return p
}

// Normalize enforces the id-uniqueness invariant on the owned sequences:
// the first occurrence of each post id and bookmark id wins, relative order
// is preserved. Applied once when a snapshot is ingested so that later patch
// operations only ever need a structurally simple insert or remove.
func (u *User) Normalize() {
	if len(u.Posts) > 0 {
		seen := make(map[int]struct{}, len(u.Posts))
		posts := u.Posts[:0]
		for _, p := range u.Posts {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			posts = append(posts, p)
		}
		u.Posts = posts
	}
	if len(u.Bookmarks) > 0 {
		seen := make(map[int]struct{}, len(u.Bookmarks))
		bookmarks := u.Bookmarks[:0]
		for _, b := range u.Bookmarks {
			if _, dup := seen[b.ID]; dup {
				continue
			}
			seen[b.ID] = struct{}{}
			bookmarks = append(bookmarks, b)
		}
		u.Bookmarks = bookmarks
	}
}
