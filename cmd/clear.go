package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/pkg/ui"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every blog post",
	Long: `Delete every blog post after confirmation.

Export first if you may want the posts back:
  folio export && folio clear`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	if postStore.Len() == 0 {
		fmt.Println(ui.FormatWarning("No posts to clear"))
		return nil
	}

	confirm := newPromptConfirmer(os.Stdin, os.Stdout, clearYes)
	cleared, err := dashboard.ClearAll(getContext(), confirm)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to clear posts"))
		return err
	}
	if !cleared {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}

	fmt.Println(ui.FormatSuccess(msgCleared))
	return nil
}
