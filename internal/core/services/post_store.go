package services

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
)

// PostStore is the ordered collection of posts persisted as one blob under ports.KeyPosts.
// Every mutation rewrites the whole blob.
type PostStore struct {
	kv    ports.KVStore
	mu    sync.RWMutex
	posts []domain.Post
}

// NewPostStore creates a store backed by kv. Call Load before use.
func NewPostStore(kv ports.KVStore) *PostStore {
	return &PostStore{kv: kv}
}

// Query selects posts by search term and category.
// The zero Query matches every post.
type Query struct {
	Search   string
	Category string
}

// Matches reports whether p satisfies the query.
// Search is a case-insensitive substring match on title, content or any tag.
// The term is used as typed, so surrounding spaces are part of it.
func (q Query) Matches(p domain.Post) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	term := strings.ToLower(q.Search)
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Content), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Load reads the persisted blob into memory.
// Absent, unreadable or malformed data yields an empty store; invalid records are skipped.
func (s *PostStore) Load(ctx context.Context) []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = decodePosts(ctx, s.kv)
	return clonePosts(s.posts)
}

func decodePosts(ctx context.Context, kv ports.KVStore) []domain.Post {
	data, ok, err := kv.Get(ctx, ports.KeyPosts)
	if err != nil {
		slog.Warn("reading posts failed, starting empty", "error", err)
		return []domain.Post{}
	}
	if !ok || len(data) == 0 {
		return []domain.Post{}
	}

	var raw []domain.Post
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("stored posts are malformed, starting empty", "error", err)
		return []domain.Post{}
	}

	posts := make([]domain.Post, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, p := range raw {
		p.Tags = domain.NormalizeTags(p.Tags)
		if err := p.Validate(); err != nil {
			slog.Warn("skipping invalid stored post", "id", p.ID, "error", err)
			continue
		}
		if seen[p.ID] {
			slog.Warn("skipping duplicate stored post", "id", p.ID)
			continue
		}
		seen[p.ID] = true
		posts = append(posts, p)
	}
	return posts
}

// SaveAll validates and persists posts, replacing the previous contents
func (s *PostStore) SaveAll(ctx context.Context, posts []domain.Post) error {
	if err := validatePosts(posts); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, clonePosts(posts))
}

// Upsert replaces the post with the same id in place, or appends it
func (s *PostStore) Upsert(ctx context.Context, post domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := clonePosts(s.posts)
	if i := s.indexLocked(post.ID); i >= 0 {
		next[i] = post.Clone()
	} else {
		next = append(next, post.Clone())
	}
	return s.persistLocked(ctx, next)
}

// Remove deletes the post with id. Missing ids are a no-op and report false.
func (s *PostStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(clonePosts(s.posts), i, i+1)
	if err := s.persistLocked(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every post
func (s *PostStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, []domain.Post{})
}

// FindByID returns the post with id
func (s *PostStore) FindByID(id string) (domain.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.posts[i].Clone(), true
	}
	return domain.Post{}, false
}

// Filter returns a lazy sequence of posts matching q, in store order.
// The sequence iterates over a snapshot taken when Filter is called.
func (s *PostStore) Filter(q Query) iter.Seq[domain.Post] {
	s.mu.RLock()
	snapshot := s.posts
	s.mu.RUnlock()

	return func(yield func(domain.Post) bool) {
		for _, p := range snapshot {
			if !q.Matches(p) {
				continue
			}
			if !yield(p.Clone()) {
				return
			}
		}
	}
}

// All returns every post in store order
func (s *PostStore) All() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.posts)
}

// Len returns the number of posts
func (s *PostStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Published returns published posts in store order
func (s *PostStore) Published() []domain.Post {
	var out []domain.Post
	for p := range s.Filter(Query{}) {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories, sorted
func (s *PostStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, p := range s.posts {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// ---------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------

// persistLocked writes posts and swaps them in only after the write succeeds.
// Caller must hold s.mu.
func (s *PostStore) persistLocked(ctx context.Context, posts []domain.Post) error {
	if posts == nil {
		posts = []domain.Post{}
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	if err := s.kv.Set(ctx, ports.KeyPosts, data); err != nil {
		return fmt.Errorf("failed to persist posts: %w", err)
	}
	s.posts = posts
	return nil
}

func (s *PostStore) indexLocked(id string) int {
	return slices.IndexFunc(s.posts, func(p domain.Post) bool { return p.ID == id })
}

func validatePosts(posts []domain.Post) error {
	seen := make(map[string]bool, len(posts))
	for i, p := range posts {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("post %d (%q): %w", i, p.ID, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("post %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func clonePosts(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
