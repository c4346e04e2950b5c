package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/folio/internal/core/domain"
)

// MockFeedClient is a mock implementation of the FeedClient interface for testing
type MockFeedClient struct {
	mu    sync.Mutex
	posts []domain.FeedPost

	// Err, when non-nil, is returned by every call
	Err   error
	Calls int
}

// NewMockFeedClient creates a mock serving the given posts
func NewMockFeedClient(posts ...domain.FeedPost) *MockFeedClient {
	return &MockFeedClient{posts: posts}
}

// SetPosts replaces the served posts
func (m *MockFeedClient) SetPosts(posts ...domain.FeedPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = posts
}

// ListPublished returns the configured posts
func (m *MockFeedClient) ListPublished(ctx context.Context) ([]domain.FeedPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.FeedPost(nil), m.posts...), nil
}

// GetPost returns the post with a matching id
func (m *MockFeedClient) GetPost(ctx context.Context, id string) (*domain.FeedPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.posts {
		if string(p.ID) == id {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("post %s: %w", id, domain.ErrPostNotFound)
}
