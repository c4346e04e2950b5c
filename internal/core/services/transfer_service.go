package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kamal-hamza/folio/internal/core/domain"
)

// ExportVersion is written into every export document
const ExportVersion = "1.0"

// ErrInvalidImport is returned when an import file does not have the expected shape
var ErrInvalidImport = errors.New("invalid import file")

// ExportDocument is the on-disk format for export and import
type ExportDocument struct {
	Blogs      []domain.Post `json:"blogs"`
	ExportDate time.Time     `json:"exportDate"`
	Version    string        `json:"version"`
}

// TransferService handles whole-store export and import
type TransferService struct {
	store *PostStore
	now   func() time.Time
}

// NewTransferService creates a transfer service over store
func NewTransferService(store *PostStore, now func() time.Time) *TransferService {
	if now == nil {
		now = time.Now
	}
	return &TransferService{store: store, now: now}
}

// ExportFilename returns the default export file name for t
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("blog-dashboard-export-%s.json", t.Format("2006-01-02"))
}

// Export writes every post plus export metadata to w as indented JSON
func (s *TransferService) Export(w io.Writer) (*ExportDocument, error) {
	doc := &ExportDocument{
		Blogs:      s.store.All(),
		ExportDate: s.now().UTC(),
		Version:    ExportVersion,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	return doc, nil
}

// Import replaces the store with the posts in r.
// The file must be a JSON object with a "blogs" array, and every record must be valid;
// otherwise nothing is written and the store keeps its contents.
func (s *TransferService) Import(ctx context.Context, r io.Reader) (int, error) {
	posts, err := DecodeImport(r)
	if err != nil {
		return 0, err
	}
	if err := s.store.SaveAll(ctx, posts); err != nil {
		return 0, fmt.Errorf("failed to import posts: %w", err)
	}
	return len(posts), nil
}

// DecodeImport parses and validates an import document without touching any store
func DecodeImport(r io.Reader) ([]domain.Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidImport, err)
	}
	rawBlogs, ok := fields["blogs"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"blogs\"", ErrInvalidImport)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(rawBlogs, &records); err != nil || records == nil {
		return nil, fmt.Errorf("%w: \"blogs\" is not an array", ErrInvalidImport)
	}

	posts := make([]domain.Post, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		var p domain.Post
		if err := json.Unmarshal(rec, &p); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidImport, i, err)
		}
		p.Tags = domain.NormalizeTags(p.Tags)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidImport, i, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: record %d: duplicate id %q", ErrInvalidImport, i, p.ID)
		}
		seen[p.ID] = true
		posts = append(posts, p)
	}
	return posts, nil
}
