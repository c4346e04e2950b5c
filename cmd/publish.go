package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var publishCmd = &cobra.Command{
	Use:   "publish [query]",
	Short: "Toggle a post between draft and published",
	Long: `Toggle a post between draft and published.

The first publication date is kept when a post is unpublished and
published again.

Examples:
  folio publish "generics"
  folio publish 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	post, err := selectPost(postStore.All(), firstArg(args))
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	updated, err := dashboard.ToggleStatus(getContext(), post.ID)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to update post"))
		return err
	}

	if updated.Status == domain.StatusPublished {
		fmt.Println(ui.FormatRocket(fmt.Sprintf("Published %q", updated.Title)))
	} else {
		fmt.Println(ui.FormatInfo(fmt.Sprintf("Moved %q back to drafts", updated.Title)))
	}
	return nil
}
