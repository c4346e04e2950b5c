package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var (
	editFlags   postFlags
	editStatus  string
	editNoInput bool
)

var editCmd = &cobra.Command{
	Use:   "edit [query]",
	Short: "Edit an existing blog post",
	Long: `Edit an existing blog post.

Fields given as flags replace the stored values. When no content flag
is set the post body is opened in your editor. The post keeps its
status unless --status is given.

Examples:
  folio edit "generics"
  folio edit 3f2a9c1e --title "Generics, Revisited"
  folio edit --tags go,types --no-editor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	bindPostFlags(editCmd, &editFlags)
	editCmd.Flags().StringVar(&editStatus, "status", "", "Save as draft or published")
	editCmd.Flags().BoolVar(&editNoInput, "no-editor", false, "Do not open the editor")
}

func runEdit(cmd *cobra.Command, args []string) error {
	post, err := selectPost(postStore.All(), firstArg(args))
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	status := post.Status
	if editStatus != "" {
		if status, err = domain.ParseStatus(editStatus); err != nil {
			return err
		}
	}

	if err := dashboard.Edit(post.ID); err != nil {
		return err
	}

	form, err := applyPostFlags(cmd, dashboard.Form(), &editFlags)
	if err != nil {
		return err
	}

	contentGiven := cmd.Flags().Changed("content") || editFlags.contentFile != ""
	if !contentGiven && !editNoInput {
		fmt.Println(ui.FormatInfo("Opening in editor: " + GetPreferredEditor()))
		content, err := editContent(form.Content)
		if err != nil {
			return err
		}
		form.Content = content
	}
	dashboard.SetForm(form)

	return savePost(status)
}
