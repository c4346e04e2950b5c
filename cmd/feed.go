package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/adapters/feed"
	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the remote published-posts feed",
	Long: `Browse the remote published-posts feed.

The feed URL comes from feed_base_url in the config or FOLIO_FEED_URL.
When the feed cannot be reached a small set of sample cards is shown.`,
}

var feedListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List published posts from the feed",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runFeedList,
}

var feedShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single post from the feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedShow,
}

func init() {
	feedCmd.AddCommand(feedListCmd)
	feedCmd.AddCommand(feedShowCmd)
}

func runFeedList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(getContext(), appConfig.FeedTimeout())
	defer cancel()

	if err := feedService.Refresh(ctx); err != nil {
		fmt.Println(ui.FormatWarning("Feed unavailable, showing cached posts"))
	}

	state := feedService.State()
	fmt.Println(ui.FormatTitle(ui.IconFeed + " " + appConfig.SiteTitle))
	fmt.Println()
	fmt.Print(renderFeedTable(state.Posts))
	fmt.Println()
	if !state.Remote {
		fmt.Println(ui.FormatMuted("Sample posts; set feed_base_url to show a real feed"))
	}
	return nil
}

func renderFeedTable(posts []domain.FeedPost) string {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 8},
		{Header: "Title", Width: 40},
		{Header: "Category", Width: 20},
		{Header: "Date", MinWidth: 10},
		{Header: "Excerpt", Width: 50},
	})
	for _, p := range posts {
		table.AddRow([]string{
			string(p.ID),
			p.Title,
			p.CategoryLabel(),
			p.Date().Local().Format(appDateFormat()),
			domain.StripTags(p.CardExcerpt()),
		})
	}
	return table.Render()
}

func runFeedShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(getContext(), appConfig.FeedTimeout())
	defer cancel()

	post, err := feedService.Open(ctx, args[0])
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		return err
	}

	var s strings.Builder
	s.WriteString(ui.FormatTitle(post.Title))
	s.WriteString("\n\n")
	s.WriteString(ui.RenderKeyValue("Category", post.CategoryLabel()) + "\n")
	s.WriteString(ui.RenderKeyValue("Date", post.Date().Local().Format(appDateFormat())) + "\n")
	if post.AuthorName != "" {
		s.WriteString(ui.RenderKeyValue("Author", post.AuthorName) + "\n")
	}
	if len(post.TagNames) > 0 {
		s.WriteString(ui.RenderKeyValue("Tags", strings.Join(post.TagNames, ", ")) + "\n")
	}
	if post.ReadingTime > 0 {
		s.WriteString(ui.RenderKeyValue("Reading time", fmt.Sprintf("%d min", post.ReadingTime)) + "\n")
	}
	s.WriteString("\n")

	pageURL := strings.TrimRight(appConfig.FeedBaseURL, "/") + "/posts/" + args[0] + "/"
	s.WriteString(feed.ReadableText(*post, pageURL))
	s.WriteString("\n")

	fmt.Print(s.String())
	return nil
}
