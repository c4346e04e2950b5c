package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/services"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var (
	listSearch   string
	listCategory string
	listStatus   string
	listSortBy   string
	listReverse  bool
	listJSON     bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List blog posts",
	Aliases: []string{"ls"},
	Long: `List blog posts in a table.

Examples:
  folio list
  folio list --search golang
  folio list --category "Web Development" --status published
  folio list --sort title --reverse
  folio list --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by title, content or tag")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by exact category")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (draft, published)")
	// Sort defaults come from config unless the flag is set
	listCmd.Flags().StringVar(&listSortBy, "sort", "created", "Sort by field (created, updated, title)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print posts as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	req := services.ListRequest{
		Search:   listSearch,
		Category: listCategory,
		SortBy:   listSortBy,
		Reverse:  listReverse,
	}
	if listStatus != "" {
		status, err := domain.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		req.Status = status
	}

	resp, err := listService.Execute(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list posts"))
		return err
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		posts := resp.Posts
		if posts == nil {
			posts = []domain.Post{}
		}
		return enc.Encode(posts)
	}

	if resp.Total == 0 {
		if listSearch != "" || listCategory != "" || listStatus != "" {
			fmt.Println(ui.FormatWarning("No posts match the filter"))
		} else {
			fmt.Println(ui.FormatWarning("No posts yet"))
			fmt.Println(ui.FormatInfo("Create your first post with: folio new --title \"My Post\""))
		}
		return nil
	}

	fmt.Println(ui.FormatTitle("Posts"))
	fmt.Println()
	fmt.Print(renderPostTable(resp.Posts, time.Now()))
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d posts", resp.Total)))

	return nil
}

// renderPostTable renders posts as a table for terminal output
func renderPostTable(posts []domain.Post, now time.Time) string {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 8},
		{Header: "Title", Width: 40},
		{Header: "Status", MinWidth: 9},
		{Header: "Category", Width: 20},
		{Header: "Updated", MinWidth: 8},
		{Header: "Tags", Width: 30},
	})

	for _, p := range posts {
		table.AddRow([]string{
			shortID(p.ID),
			p.Title,
			string(p.Status),
			p.CategoryOr("-"),
			formatRelativeTime(p.UpdatedAt, now),
			p.TagsString(),
		})
	}

	return table.Render()
}
