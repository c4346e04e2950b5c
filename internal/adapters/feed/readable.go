package feed

import (
	"html"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/kamal-hamza/folio/internal/core/domain"
)

// ReadableText extracts terminal-friendly text from a post body.
// Falls back to a plain tag strip when readability finds no article.
func ReadableText(post domain.FeedPost, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		u = &url.URL{Scheme: "http", Host: "localhost"}
	}

	doc := "<html><head><title>" + html.EscapeString(post.Title) + "</title></head><body><article>" + post.Content + "</article></body></html>"
	article, err := readability.FromReader(strings.NewReader(doc), u)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text
		}
	}
	return domain.HTMLToText(post.Content)
}
