package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Status is the publication state of a post
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

const (
	// ExcerptLength is the number of runes kept when deriving an excerpt from content
	ExcerptLength = 150

	// WordsPerMinute is used to estimate reading time
	WordsPerMinute = 200
)

// ErrPostNotFound is returned when a post id is not present in the store
var ErrPostNotFound = errors.New("post not found")

// Post is a single blog post as persisted in the store and in export files
type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Status        Status     `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ValidationError reports a problem with a single field of a post
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ParseStatus converts user input into a Status
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", fmt.Errorf("unknown status %q (want draft or published)", s)
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ValidateFields checks the user-editable required fields.
// The dashboard runs this before assigning ids and timestamps.
func ValidateFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	return nil
}

// Validate checks every invariant a stored post must satisfy
func (p Post) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if err := ValidateFields(p.Title, p.Content); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("has unknown value %q", p.Status)}
	}
	for _, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			return &ValidationError{Field: "tags", Message: "cannot contain empty entries"}
		}
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		return &ValidationError{Field: "updatedAt", Message: "is before createdAt"}
	}
	return nil
}

// IsPublished reports whether the post is live
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// HasTag checks if a post carries the given tag (case-insensitive)
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// TagsString returns tags as a comma-separated string
func (p Post) TagsString() string {
	return strings.Join(p.Tags, ", ")
}

// Slug returns a URL-friendly form of the title
func (p Post) Slug() string {
	return GenerateSlug(p.Title)
}

// Summary returns the excerpt, deriving one from content when it is empty
func (p Post) Summary() string {
	if strings.TrimSpace(p.Excerpt) != "" {
		return p.Excerpt
	}
	return ExtractExcerpt(p.Content, ExcerptLength)
}

// WordCount counts words in the text content of the post
func (p Post) WordCount() int {
	return len(strings.Fields(StripTags(p.Content)))
}

// ReadingTime estimates minutes needed to read the post, never less than one
func (p Post) ReadingTime() int {
	return max(1, p.WordCount()/WordsPerMinute)
}

// CategoryOr returns the category or fallback when none is set
func (p Post) CategoryOr(fallback string) string {
	if strings.TrimSpace(p.Category) == "" {
		return fallback
	}
	return p.Category
}

// Clone returns a deep copy so callers cannot alias store state
func (p Post) Clone() Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		p.PublishedAt = &t
	}
	return p
}

// ParseTags splits a comma-separated tag field, trimming entries and dropping empty ones
func ParseTags(field string) []string {
	parts := strings.Split(field, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NormalizeTags applies ParseTags rules to an already-split list
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ExtractExcerpt strips markup from content and truncates it to n runes.
// "..." is appended when the text was longer than n.
func ExtractExcerpt(content string, n int) string {
	text := strings.TrimSpace(StripTags(content))
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// GenerateSlug creates a URL-friendly slug from a title
// Converts "Building a Portfolio" -> "building-a-portfolio"
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
