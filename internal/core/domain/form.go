package domain

import "strings"

// Form is the flat record behind the editor fields.
// It carries exactly what a user can type, with tags as a single comma-separated string.
type Form struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	Tags          string `json:"tags"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	FeaturedImage string `json:"featuredImage,omitempty"`
}

// FormFromPost populates editor fields from a post
func FormFromPost(p Post) Form {
	return Form{
		Title:         p.Title,
		Category:      p.Category,
		Tags:          p.TagsString(),
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
	}
}

// Draft extracts a post-shaped draft from the form.
// Identity, status and timestamps are left for the caller to assign.
func (f Form) Draft() Post {
	return Post{
		Title:         strings.TrimSpace(f.Title),
		Category:      strings.TrimSpace(f.Category),
		Tags:          ParseTags(f.Tags),
		Excerpt:       strings.TrimSpace(f.Excerpt),
		Content:       strings.TrimSpace(f.Content),
		FeaturedImage: f.FeaturedImage,
	}
}

// HasUnsavedContent reports whether autosave has anything worth keeping
func (f Form) HasUnsavedContent() bool {
	return strings.TrimSpace(f.Title) != "" ||
		strings.TrimSpace(f.Content) != "" ||
		strings.TrimSpace(f.Excerpt) != ""
}

// IsZero reports whether every field is blank
func (f Form) IsZero() bool {
	return f == Form{}
}
