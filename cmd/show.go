package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show [query]",
	Short: "Show a post",
	Long: `Show a post's metadata and content.

The query may be a post id or text matching a title, content or tag.
Without a query an interactive picker is shown.

Examples:
  folio show
  folio show "go generics"
  folio show --raw 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Show the HTML source instead of text")
}

func runShow(cmd *cobra.Command, args []string) error {
	post, err := selectPost(postStore.All(), firstArg(args))
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Print(renderPostDetail(post, showRaw, appConfig.SyntaxHighlighting))
	return nil
}

// renderPostDetail formats a post for the terminal, as text or highlighted HTML
func renderPostDetail(p domain.Post, raw, highlight bool) string {
	var s strings.Builder

	s.WriteString(ui.FormatTitle(p.Title))
	s.WriteString("\n\n")
	s.WriteString(ui.RenderKeyValue("ID", p.ID) + "\n")
	s.WriteString(ui.RenderKeyValue("Status", ui.FormatStatus(string(p.Status))) + "\n")
	s.WriteString(ui.RenderKeyValue("Category", p.CategoryOr("-")) + "\n")
	if len(p.Tags) > 0 {
		s.WriteString(ui.RenderKeyValue("Tags", p.TagsString()) + "\n")
	}
	s.WriteString(ui.RenderKeyValue("Created", p.CreatedAt.Local().Format(appDateFormat())) + "\n")
	s.WriteString(ui.RenderKeyValue("Updated", p.UpdatedAt.Local().Format(appDateFormat())) + "\n")
	if p.PublishedAt != nil {
		s.WriteString(ui.RenderKeyValue("Published", p.PublishedAt.Local().Format(appDateFormat())) + "\n")
	}
	s.WriteString(ui.RenderKeyValue("Reading time", fmt.Sprintf("%d min", p.ReadingTime())) + "\n")
	if p.FeaturedImage != "" {
		s.WriteString(ui.RenderKeyValue("Featured image", fmt.Sprintf("%d bytes", len(p.FeaturedImage))) + "\n")
	}
	s.WriteString("\n")

	if summary := p.Summary(); summary != "" {
		s.WriteString(ui.StyleSubtle.Render(summary))
		s.WriteString("\n\n")
	}

	switch {
	case raw && highlight:
		s.WriteString(highlightHTML(p.Content))
	case raw:
		s.WriteString(p.Content)
	default:
		s.WriteString(domain.HTMLToText(p.Content))
	}
	s.WriteString("\n")

	return s.String()
}

func appDateFormat() string {
	if appConfig == nil || appConfig.DisplayDateFormat == "" {
		return "2006-01-02"
	}
	return appConfig.DisplayDateFormat + " 15:04"
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
