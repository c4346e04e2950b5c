package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/services"
	"github.com/kamal-hamza/folio/pkg/ui"
)

// User-facing messages shared by the dashboard and the commands
const (
	msgTitleRequired   = "Please enter a blog title"
	msgContentRequired = "Please enter blog content"
	msgPublished       = "Blog published successfully!"
	msgDraftSaved      = "Blog saved as draft successfully!"
	msgDeleted         = "Blog deleted successfully"
	msgExported        = "Data exported successfully"
	msgImported        = "Data imported successfully"
	msgImportFailed    = "Error importing data. Please check the file format."
	msgCleared         = "All data cleared successfully"
	msgRestored        = "Auto-saved content restored"
)

var errCancelled = errors.New("operation cancelled")

// validationMessage turns a save error into the message shown to the user
func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		switch ve.Field {
		case "title":
			return msgTitleRequired
		case "content":
			return msgContentRequired
		}
	}
	return err.Error()
}

func savedMessage(status domain.Status) string {
	if status == domain.StatusPublished {
		return msgPublished
	}
	return msgDraftSaved
}

// promptConfirmer asks a y/N question on a terminal
type promptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newPromptConfirmer(in io.Reader, out io.Writer, assumeYes bool) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm prints the prompt and reads the answer; anything but y/yes declines
func (p *promptConfirmer) Confirm(title, message string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintln(p.out, ui.FormatWarning(title))
	fmt.Fprintln(p.out, "  "+message)
	fmt.Fprint(p.out, ui.StyleError.Render("Continue? (y/N): "))

	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true
	}
	return false
}

// findFunc lets tests replace the interactive picker
var findFunc = func(posts []domain.Post, itemFunc func(i int) string, opts ...fuzzyfinder.Option) (int, error) {
	return fuzzyfinder.Find(posts, itemFunc, opts...)
}

// selectPost resolves a query to a single post.
// An exact id wins; otherwise titles, content and tags are searched and an
// interactive picker is shown when more than one post matches.
func selectPost(posts []domain.Post, query string) (domain.Post, error) {
	if len(posts) == 0 {
		return domain.Post{}, fmt.Errorf("no posts yet: %w", domain.ErrPostNotFound)
	}

	candidates := posts
	if query = strings.TrimSpace(query); query != "" {
		for _, p := range posts {
			if p.ID == query || strings.HasPrefix(p.ID, query) && len(query) >= 8 {
				return p, nil
			}
		}
		candidates = nil
		q := services.Query{Search: query}
		for _, p := range posts {
			if q.Matches(p) {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			return domain.Post{}, fmt.Errorf("no post matches %q: %w", query, domain.ErrPostNotFound)
		}
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	idx, err := findFunc(
		candidates,
		func(i int) string {
			return candidates[i].Title
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			p := candidates[i]
			preview := fmt.Sprintf("Title: %s\nStatus: %s\nCategory: %s\nUpdated: %s",
				p.Title,
				p.Status,
				p.CategoryOr("-"),
				p.UpdatedAt.Local().Format("2006-01-02 15:04"))
			if len(p.Tags) > 0 {
				preview += "\nTags: " + p.TagsString()
			}
			return preview + "\n\n" + p.Summary()
		}),
	)
	if err != nil {
		return domain.Post{}, errCancelled
	}
	return candidates[idx], nil
}

// GetPreferredEditor returns the editor command from env or default
func GetPreferredEditor() string {
	if env := os.Getenv("VISUAL"); env != "" {
		return env
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// editContent opens initial in the user's editor and returns the edited text
func editContent(initial string) (string, error) {
	f, err := os.CreateTemp("", "folio-*.html")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	// The editor value may carry flags, e.g. "code --wait"
	parts := strings.Fields(GetPreferredEditor())
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %w", err)
	}
	return string(data), nil
}

// highlightHTML applies terminal syntax highlighting to raw HTML
func highlightHTML(content string) string {
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}

	return buf.String()
}

// shortID returns the first 8 characters of an id for tables
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// formatRelativeTime renders t relative to now, e.g. "3d ago"
func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := t.In(now.Location())
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())

	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1d ago"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 14:
		return "1w ago"
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	case days < 60:
		return "1mo ago"
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	case days < 730:
		return "1y ago"
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

// fallbackCards are shown in the feed grid until the remote feed answers
func fallbackCards() []domain.FeedPost {
	date := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	return []domain.FeedPost{
		{
			Title:        "Building Scalable Web Applications",
			Excerpt:      "Lessons learned from designing services that grow with their users.",
			CategoryName: "Web Development",
			TagNames:     []string{"Architecture", "Backend"},
			CreatedAt:    date,
		},
		{
			Title:        "Getting Started with Go Concurrency",
			Excerpt:      "Goroutines, channels and the patterns that keep them readable.",
			CategoryName: "Programming",
			TagNames:     []string{"Go", "Concurrency"},
			CreatedAt:    date,
		},
		{
			Title:        "Designing for the Terminal",
			Excerpt:      "What makes a command-line tool pleasant to use every day.",
			CategoryName: "Design",
			TagNames:     []string{"CLI", "UX"},
			CreatedAt:    date,
		},
	}
}
