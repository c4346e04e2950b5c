package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/pkg/ui"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete [query]",
	Short:   "Delete a blog post",
	Aliases: []string{"rm"},
	Long: `Delete a blog post after confirmation.

Examples:
  folio delete
  folio delete "draft ideas"
  folio delete 3f2a9c1e --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	post, err := selectPost(postStore.All(), firstArg(args))
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	confirm := newPromptConfirmer(os.Stdin, os.Stdout, deleteYes)
	removed, err := dashboard.Delete(getContext(), post.ID, confirm)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to delete post"))
		return err
	}
	if !removed {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}

	fmt.Println(ui.FormatSuccess(msgDeleted))
	return nil
}
