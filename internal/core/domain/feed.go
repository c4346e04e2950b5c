package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FeedID accepts either a JSON number or a JSON string.
// Remote APIs backed by SQL use integer keys; folio itself serves uuid strings.
type FeedID string

// UnmarshalJSON implements json.Unmarshaler
func (id *FeedID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FeedID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("feed id must be a string or number: %w", err)
	}
	*id = FeedID(n.String())
	return nil
}

// FeedPost is a published post as returned by the remote posts API
type FeedPost struct {
	ID           FeedID     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug,omitempty"`
	Content      string     `json:"content"`
	Excerpt      string     `json:"excerpt"`
	CategoryName string     `json:"category_name"`
	TagNames     []string   `json:"tag_names"`
	Status       string     `json:"status,omitempty"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	AuthorName   string     `json:"author_name"`
	Views        int        `json:"views"`
	ReadingTime  int        `json:"reading_time"`
}

// Date returns the publication date, falling back to creation date
func (p FeedPost) Date() time.Time {
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// CardExcerpt returns the excerpt, or the first 200 characters of content
func (p FeedPost) CardExcerpt() string {
	if strings.TrimSpace(p.Excerpt) != "" {
		return p.Excerpt
	}
	runes := []rune(p.Content)
	if len(runes) > 200 {
		runes = runes[:200]
	}
	return string(runes) + "..."
}

// CategoryLabel returns the category name or "General"
func (p FeedPost) CategoryLabel() string {
	if strings.TrimSpace(p.CategoryName) == "" {
		return "General"
	}
	return p.CategoryName
}

// FeedPostFromPost converts a locally stored post into the remote API shape
func FeedPostFromPost(p Post, author string) FeedPost {
	updated := p.UpdatedAt
	return FeedPost{
		ID:           FeedID(p.ID),
		Title:        p.Title,
		Slug:         p.Slug(),
		Content:      p.Content,
		Excerpt:      p.Summary(),
		CategoryName: p.Category,
		TagNames:     append([]string{}, p.Tags...),
		Status:       string(p.Status),
		PublishedAt:  p.PublishedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    &updated,
		AuthorName:   author,
		ReadingTime:  p.ReadingTime(),
	}
}
