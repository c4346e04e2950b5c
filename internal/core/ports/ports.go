package ports

import (
	"context"

	"github.com/kamal-hamza/folio/internal/core/domain"
)

// Storage keys used by the dashboard
const (
	KeyPosts    = "blogs"
	KeyAutosave = "autosave"
)

// KVStore defines the port for the local key-value storage that backs the post store.
// Values are opaque serialized blobs; each Set overwrites the previous value.
type KVStore interface {
	// Get returns the value stored under key; ok is false when the key is absent
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any prior value
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend
	Close() error
}

// Confirmer defines the port for blocking yes/no prompts
type Confirmer interface {
	// Confirm asks the user to approve a destructive action
	Confirm(title, message string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface
type ConfirmFunc func(title, message string) bool

// Confirm calls f(title, message)
func (f ConfirmFunc) Confirm(title, message string) bool {
	return f(title, message)
}

// Approve is a Confirmer that accepts every prompt.
// Used once the user has already answered an interactive confirmation.
var Approve Confirmer = ConfirmFunc(func(string, string) bool { return true })

// FeedClient defines the port for the remote published-posts API
type FeedClient interface {
	// ListPublished returns every published post
	ListPublished(ctx context.Context) ([]domain.FeedPost, error)

	// GetPost returns a single post by identifier
	GetPost(ctx context.Context, id string) (*domain.FeedPost, error)
}

// ImageEncoder defines the port for turning image files into featured-image data URIs
type ImageEncoder interface {
	// EncodeFile reads, resizes and encodes the image at path
	EncodeFile(path string) (string, error)
}
