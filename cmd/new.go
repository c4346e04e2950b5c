package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/pkg/ui"
)

// postFlags holds the editor fields that can be set from the command line
type postFlags struct {
	title       string
	category    string
	tags        string
	excerpt     string
	content     string
	contentFile string
	image       string
	publish     bool
}

var newFlags postFlags

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new blog post",
	Long: `Create a new blog post.

Content comes from --content, --content-file (use - for stdin) or,
when neither is given, from your editor ($VISUAL, $EDITOR, vi).
Posts are saved as drafts unless --publish is set.

Examples:
  folio new "Go Generics in Practice"
  folio new --title "Release Notes" --category News --tags go,release --publish
  folio new "Photo Essay" --image ./cover.jpg --content-file essay.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	bindPostFlags(newCmd, &newFlags)
	newCmd.Flags().BoolVarP(&newFlags.publish, "publish", "p", false, "Publish instead of saving a draft")
}

func bindPostFlags(cmd *cobra.Command, f *postFlags) {
	cmd.Flags().StringVar(&f.title, "title", "", "Post title")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Post category")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&f.excerpt, "excerpt", "", "Short summary shown in lists")
	cmd.Flags().StringVar(&f.content, "content", "", "HTML content")
	cmd.Flags().StringVar(&f.contentFile, "content-file", "", "Read HTML content from a file (- for stdin)")
	cmd.Flags().StringVar(&f.image, "image", "", "Featured image file")
}

func runNew(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && newFlags.title == "" {
		newFlags.title = args[0]
	}

	dashboard.NewPost()
	form, err := applyPostFlags(cmd, domain.Form{}, &newFlags)
	if err != nil {
		return err
	}

	if strings.TrimSpace(form.Content) == "" {
		fmt.Println(ui.FormatInfo("Opening in editor: " + GetPreferredEditor()))
		content, err := editContent("")
		if err != nil {
			return err
		}
		form.Content = content
	}
	dashboard.SetForm(form)

	status := domain.StatusDraft
	if newFlags.publish {
		status = domain.StatusPublished
	}
	return savePost(status)
}

// applyPostFlags overlays the flags the user actually set onto form
func applyPostFlags(cmd *cobra.Command, form domain.Form, f *postFlags) (domain.Form, error) {
	changed := func(name string) bool {
		return cmd.Flags().Changed(name)
	}

	if changed("title") || f.title != "" {
		form.Title = f.title
	}
	if changed("category") {
		form.Category = f.category
	}
	if changed("tags") {
		form.Tags = f.tags
	}
	if changed("excerpt") {
		form.Excerpt = f.excerpt
	}
	if changed("content") {
		form.Content = f.content
	}
	if f.contentFile != "" {
		content, err := readContentFile(f.contentFile)
		if err != nil {
			return form, err
		}
		form.Content = content
	}
	if f.image != "" {
		uri, err := imageEncoder.EncodeFile(f.image)
		if err != nil {
			return form, fmt.Errorf("failed to load featured image: %w", err)
		}
		form.FeaturedImage = uri
	}
	return form, nil
}

func readContentFile(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

// savePost saves the dashboard form and reports the outcome
func savePost(status domain.Status) error {
	post, err := dashboard.Save(getContext(), status)
	if err != nil {
		fmt.Println(ui.FormatError(validationMessage(err)))
		return err
	}

	fmt.Println(ui.FormatSuccess(savedMessage(status)))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("ID", post.ID))
	fmt.Println(ui.RenderKeyValue("Title", post.Title))
	fmt.Println(ui.RenderKeyValue("Status", ui.FormatStatus(string(post.Status))))
	if post.Category != "" {
		fmt.Println(ui.RenderKeyValue("Category", post.Category))
	}
	if len(post.Tags) > 0 {
		fmt.Println(ui.RenderKeyValue("Tags", post.TagsString()))
	}
	return nil
}
