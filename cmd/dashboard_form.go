package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
	"github.com/kamal-hamza/folio/pkg/ui"
)

// Upload form fields in focus order
const (
	fieldTitle = iota
	fieldCategory
	fieldTags
	fieldExcerpt
	fieldImage
	fieldContent
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:    "Title *",
	fieldCategory: "Category",
	fieldTags:     "Tags",
	fieldExcerpt:  "Excerpt",
	fieldImage:    "Featured image",
	fieldContent:  "Content *",
}

// uploadForm holds the editor widgets of the upload view.
// The image input takes a file path; the encoded data URI lives in image.
type uploadForm struct {
	inputs  []textinput.Model
	content textarea.Model
	focus   int
	image   string
}

func newUploadForm() uploadForm {
	placeholders := [fieldImage + 1]string{
		fieldTitle:    "Enter blog title",
		fieldCategory: "e.g. Web Development",
		fieldTags:     "comma, separated, tags",
		fieldExcerpt:  "Short summary (optional)",
		fieldImage:    "path/to/image.jpg (optional)",
	}

	inputs := make([]textinput.Model, fieldImage+1)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		// No limit: SetValue truncates to CharLimit and edited posts must round-trip
		ti.CharLimit = 0
		ti.Width = 60
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[fieldImage].CharLimit = 1024

	ta := textarea.New()
	ta.Placeholder = "Write your post here. HTML is allowed."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(10)

	f := uploadForm{inputs: inputs, content: ta}
	f.setFocus(fieldTitle)
	return f
}

// load replaces every widget value with form
func (f *uploadForm) load(form domain.Form) {
	f.inputs[fieldTitle].SetValue(form.Title)
	f.inputs[fieldCategory].SetValue(form.Category)
	f.inputs[fieldTags].SetValue(form.Tags)
	f.inputs[fieldExcerpt].SetValue(form.Excerpt)
	f.inputs[fieldImage].SetValue("")
	f.content.SetValue(form.Content)
	f.image = form.FeaturedImage
}

// value reads the widgets back into a form
func (f uploadForm) value() domain.Form {
	return domain.Form{
		Title:         f.inputs[fieldTitle].Value(),
		Category:      f.inputs[fieldCategory].Value(),
		Tags:          f.inputs[fieldTags].Value(),
		Excerpt:       f.inputs[fieldExcerpt].Value(),
		Content:       f.content.Value(),
		FeaturedImage: f.image,
	}
}

// attachImage encodes the path typed into the image field, if any
func (f *uploadForm) attachImage(enc ports.ImageEncoder) error {
	path := strings.TrimSpace(f.inputs[fieldImage].Value())
	if path == "" || enc == nil {
		return nil
	}
	uri, err := enc.EncodeFile(path)
	if err != nil {
		return err
	}
	f.image = uri
	f.inputs[fieldImage].SetValue("")
	return nil
}

func (f *uploadForm) removeImage() {
	f.image = ""
	f.inputs[fieldImage].SetValue("")
}

func (f *uploadForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.content.Blur()

	if f.focus == fieldContent {
		return f.content.Focus()
	}
	return f.inputs[f.focus].Focus()
}

func (f *uploadForm) blur() {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.content.Blur()
}

func (f *uploadForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *uploadForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// update routes msg to the focused widget
func (f uploadForm) update(msg tea.Msg) (uploadForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == fieldContent {
		f.content, cmd = f.content.Update(msg)
	} else {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return f, cmd
}

func (f *uploadForm) setSize(width, height int) {
	w := max(width-6, 20)
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
	f.content.SetWidth(w)
	f.content.SetHeight(max(height, 3))
}

func (f uploadForm) view(editing bool) string {
	var s strings.Builder

	labelStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	activeLabel := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true)

	heading := "New post"
	if editing {
		heading = "Edit post"
	}
	s.WriteString(ui.StyleHeader.Render(heading))
	s.WriteString("\n\n")

	for i := range fieldCount {
		style := labelStyle
		if i == f.focus {
			style = activeLabel
		}
		s.WriteString(style.Render(fieldLabels[i]))
		if i == fieldImage && f.image != "" {
			s.WriteString(ui.StyleMuted.Render(fmt.Sprintf("  (attached, %d KB; ctrl+r removes)", len(f.image)/1024)))
		}
		s.WriteString("\n")

		if i == fieldContent {
			s.WriteString(f.content.View())
		} else {
			s.WriteString("  " + f.inputs[i].View())
		}
		s.WriteString("\n")
	}

	return s.String()
}
