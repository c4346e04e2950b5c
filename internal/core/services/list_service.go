package services

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/kamal-hamza/folio/internal/core/domain"
)

// ListService handles listing, filtering and sorting posts for display
type ListService struct {
	store *PostStore
}

// NewListService creates a new list service
func NewListService(store *PostStore) *ListService {
	return &ListService{
		store: store,
	}
}

// ListRequest represents a request to list posts
type ListRequest struct {
	Search   string        // Substring over title, content and tags (optional)
	Category string        // Exact category (optional)
	Status   domain.Status // draft or published (optional)
	SortBy   string        // "created", "updated", "title" (default: store order)
	Reverse  bool          // Reverse sort order
}

// ListResponse represents the response from listing posts
type ListResponse struct {
	Posts []domain.Post
	Total int
}

// Execute lists posts with optional filtering and sorting
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var posts []domain.Post
	for p := range s.store.Filter(Query{Search: req.Search, Category: req.Category}) {
		if req.Status != "" && p.Status != req.Status {
			continue
		}
		posts = append(posts, p)
	}

	posts = sortPosts(posts, req.SortBy, req.Reverse)

	return &ListResponse{
		Posts: posts,
		Total: len(posts),
	}, nil
}

func sortPosts(posts []domain.Post, sortBy string, reverse bool) []domain.Post {
	if sortBy == "" {
		if reverse {
			slices.Reverse(posts)
		}
		return posts
	}

	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if reverse {
			a, b = b, a
		}
		switch sortBy {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "updated":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default: // "created"
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return posts
}
