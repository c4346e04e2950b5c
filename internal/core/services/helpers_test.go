package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports/mocks"
)

// fakeClock is a controllable time source
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func createTestPost(id, title string, tags ...string) domain.Post {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Post{
		ID:        id,
		Title:     title,
		Content:   "<p>Content of " + title + "</p>",
		Tags:      tags,
		Status:    domain.StatusDraft,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func setupStore(t *testing.T, posts ...domain.Post) (*PostStore, *mocks.MockKV) {
	t.Helper()
	kv := mocks.NewMockKV()
	store := NewPostStore(kv)
	store.Load(context.Background())
	if len(posts) > 0 {
		if err := store.SaveAll(context.Background(), posts); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}
	}
	kv.Writes = 0
	return store, kv
}

type dashboardFixture struct {
	dash  *Dashboard
	store *PostStore
	kv    *mocks.MockKV
	clock *fakeClock
}

func setupDashboard(t *testing.T, posts ...domain.Post) *dashboardFixture {
	t.Helper()
	store, kv := setupStore(t, posts...)
	clock := newFakeClock()
	seq := 0
	dash := NewDashboard(
		store,
		NewAutosaveService(kv, 0, clock.Now),
		NewTransferService(store, clock.Now),
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("post-%d", seq)
		}),
	)
	return &dashboardFixture{dash: dash, store: store, kv: kv, clock: clock}
}

func ids(posts []domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
