// Package views renders the public blog grid as templ components.
package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/kamal-hamza/folio/internal/core/domain"
)

// Page wraps body in a minimal HTML document
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>%s</style>
</head>
<body>
`, templ.EscapeString(title), pageCSS); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}

// Heading renders the page title with an optional muted subtitle
func Heading(title, subtitle string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<header class="site-header"><h1>%s</h1>`, templ.EscapeString(title))
		if subtitle != "" {
			fmt.Fprintf(&b, `<p class="site-subtitle">%s</p>`, templ.EscapeString(subtitle))
		}
		b.WriteString(`</header>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// BlogGrid renders one card per post
func BlogGrid(posts []domain.FeedPost) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="blog-grid">`); err != nil {
			return err
		}
		for _, p := range posts {
			if err := BlogCard(p).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// BlogCard renders a single grid card
func BlogCard(p domain.FeedPost) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="blog-card"><div class="blog-header">`)
		fmt.Fprintf(&b, `<div class="blog-category">%s</div>`, templ.EscapeString(p.CategoryLabel()))
		fmt.Fprintf(&b, `<div class="blog-date">%s</div></div>`, MonthYear(p))
		fmt.Fprintf(&b, `<h3 class="blog-title">%s</h3>`, templ.EscapeString(p.Title))
		fmt.Fprintf(&b, `<p class="blog-excerpt">%s</p>`, templ.EscapeString(p.CardExcerpt()))
		writeTags(&b, "blog-tags", "blog-tag", p.TagNames)
		if p.ID != "" {
			fmt.Fprintf(&b, `<a class="blog-link" href="%s">Read More &rarr;</a>`, postHref(p.ID))
		}
		b.WriteString(`</article>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// PostDetail renders a full post. Content is written verbatim without sanitizing.
func PostDetail(p domain.FeedPost) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="blog-post"><div class="blog-post-header">`)
		fmt.Fprintf(&b, `<div class="blog-post-category">%s</div>`, templ.EscapeString(p.CategoryLabel()))
		fmt.Fprintf(&b, `<h1 class="blog-post-title">%s</h1>`, templ.EscapeString(p.Title))
		b.WriteString(`<div class="blog-post-meta">`)
		if d := p.Date(); !d.IsZero() {
			fmt.Fprintf(&b, `<span>%s</span>`, d.Format("January 2, 2006"))
		}
		fmt.Fprintf(&b, `<span>%d min read</span>`, p.ReadingTime)
		if p.AuthorName != "" {
			fmt.Fprintf(&b, `<span>%s</span>`, templ.EscapeString(p.AuthorName))
		}
		fmt.Fprintf(&b, `<span>%d views</span></div>`, p.Views)
		writeTags(&b, "blog-post-tags", "blog-post-tag", p.TagNames)
		b.WriteString(`</div><div class="blog-post-content">`)
		b.WriteString(FormatContent(p.Content))
		b.WriteString(`</div><a class="blog-link" href="/">&larr; All posts</a></article>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Notification renders a transient message box
func Notification(message, kind string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="notification notification-%s" role="alert">%s</div>`,
			templ.EscapeString(kind), templ.EscapeString(message))
		return err
	})
}

// FormatContent turns blank lines into paragraphs and single newlines into <br>
func FormatContent(content string) string {
	content = strings.ReplaceAll(content, "\n\n", "</p><p>")
	content = strings.ReplaceAll(content, "\n", "<br>")
	return "<p>" + content + "</p>"
}

// MonthYear formats the card date as "December 2024"
func MonthYear(p domain.FeedPost) string {
	d := p.Date()
	if d.IsZero() {
		return ""
	}
	return d.Format("January 2006")
}

// postHref builds the detail link for a post id
func postHref(id domain.FeedID) string {
	return templ.EscapeString(string(templ.URL("/posts/" + url.PathEscape(string(id)))))
}

func writeTags(b *strings.Builder, wrapClass, tagClass string, tags []string) {
	fmt.Fprintf(b, `<div class="%s">`, wrapClass)
	for _, tag := range tags {
		fmt.Fprintf(b, `<span class="%s">%s</span>`, tagClass, templ.EscapeString(tag))
	}
	b.WriteString(`</div>`)
}

const pageCSS = `body{font-family:system-ui,sans-serif;margin:0;padding:2rem;background:#f3f4f6;color:#111827}
.blog-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(280px,1fr));gap:1.5rem}
.blog-card,.blog-post{background:#fff;border-radius:.75rem;padding:1.5rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.blog-header{display:flex;justify-content:space-between;font-size:.85rem;color:#6b7280}
.blog-category,.blog-post-category{font-weight:600;color:#7c3aed}
.blog-tag,.blog-post-tag{display:inline-block;background:#ede9fe;border-radius:999px;padding:.1rem .6rem;margin:.2rem;font-size:.75rem}
.blog-post{max-width:48rem;margin:0 auto}
.blog-post-meta span{margin-right:1rem;color:#6b7280}
.notification{padding:1rem;border-radius:.5rem;margin-bottom:1rem}
.notification-error{background:#fee2e2;color:#991b1b}
.notification-info{background:#e0f2fe;color:#075985}
.notification-warning{background:#fef3c7;color:#92400e}
.site-header h1{margin:0 0 .25rem}
.site-subtitle{margin:0 0 1.5rem;color:#6b7280}`
