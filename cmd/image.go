package cmd

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/pkg/ui"
)

var (
	imageCopy   bool
	imageAttach bool
)

var imageCmd = &cobra.Command{
	Use:   "image <file> [query]",
	Short: "Encode an image as a featured-image data URI",
	Long: `Encode an image as a featured-image data URI.

The image is scaled down to fit image_max_width x image_max_height
and re-encoded as JPEG. With --attach the result becomes the featured
image of the selected post; otherwise it is printed or copied.

Examples:
  folio image cover.png --copy
  folio image cover.png --attach "generics"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runImage,
}

func init() {
	imageCmd.Flags().BoolVar(&imageCopy, "copy", false, "Copy the data URI to the clipboard")
	imageCmd.Flags().BoolVar(&imageAttach, "attach", false, "Set the image on a post")
}

func runImage(cmd *cobra.Command, args []string) error {
	uri, err := imageEncoder.EncodeFile(args[0])
	if err != nil {
		fmt.Println(ui.FormatError("Failed to encode image"))
		return err
	}

	if imageAttach {
		return attachImage(uri, args[1:])
	}

	if imageCopy {
		if err := clipboard.WriteAll(uri); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Copied %d bytes to clipboard", len(uri))))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), uri)
	return nil
}

func attachImage(uri string, args []string) error {
	post, err := selectPost(postStore.All(), firstArg(args))
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	if err := dashboard.Edit(post.ID); err != nil {
		return err
	}
	form := dashboard.Form()
	form.FeaturedImage = uri
	dashboard.SetForm(form)

	if _, err := dashboard.Save(getContext(), post.Status); err != nil {
		fmt.Println(ui.FormatError(validationMessage(err)))
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Featured image set on %q", post.Title)))
	return nil
}

