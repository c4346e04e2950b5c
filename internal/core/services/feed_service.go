package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
)

// MsgPostLoadFailed is the notification shown when a single post cannot be fetched
const MsgPostLoadFailed = "Error loading blog post"

// FeedService keeps the content grid for the remote feed.
// A failed or empty refresh leaves the current grid in place.
type FeedService struct {
	client ports.FeedClient

	mu          sync.RWMutex
	posts       []domain.FeedPost
	remote      bool
	refreshedAt time.Time
	lastErr     error
}

// NewFeedService creates a feed service whose grid starts with the static fallback cards
func NewFeedService(client ports.FeedClient, fallback []domain.FeedPost) *FeedService {
	return &FeedService{
		client: client,
		posts:  append([]domain.FeedPost(nil), fallback...),
	}
}

// FeedState is a snapshot of the grid
type FeedState struct {
	Posts       []domain.FeedPost
	Remote      bool // false while the grid still shows the static fallback
	RefreshedAt time.Time
	LastErr     error
}

// Refresh fetches published posts and replaces the grid.
// On failure or an empty result the grid is untouched; the error is logged and returned.
func (s *FeedService) Refresh(ctx context.Context) error {
	posts, err := s.client.ListPublished(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		slog.Warn("feed refresh failed, keeping current grid", "error", err, "cards", len(s.posts))
		return fmt.Errorf("refreshing feed: %w", err)
	}

	s.lastErr = nil
	if len(posts) == 0 {
		slog.Info("feed returned no posts, keeping current grid", "cards", len(s.posts))
		return nil
	}

	s.posts = posts
	s.remote = true
	s.refreshedAt = time.Now()
	slog.Info("feed grid refreshed", "posts", len(posts))
	return nil
}

// State returns the current grid
func (s *FeedService) State() FeedState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return FeedState{
		Posts:       append([]domain.FeedPost(nil), s.posts...),
		Remote:      s.remote,
		RefreshedAt: s.refreshedAt,
		LastErr:     s.lastErr,
	}
}

// Posts returns the cards currently in the grid
func (s *FeedService) Posts() []domain.FeedPost {
	return s.State().Posts
}

// Open fetches a single post. The grid is never modified.
// On failure the returned error message starts with MsgPostLoadFailed.
func (s *FeedService) Open(ctx context.Context, id string) (*domain.FeedPost, error) {
	post, err := s.client.GetPost(ctx, id)
	if err != nil {
		slog.Warn("fetching feed post failed", "id", id, "error", err)
		return nil, fmt.Errorf("%s: %w", MsgPostLoadFailed, err)
	}
	return post, nil
}
