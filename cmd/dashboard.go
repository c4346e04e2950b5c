package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/adapters/repository"
	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
	"github.com/kamal-hamza/folio/internal/core/services"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var dashboardView string

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Launch the interactive dashboard (alias: dash)",
	Long: `Launch the full-screen blog dashboard.

Views:
  F1  Upload    write or edit a post
  F2  Manage    search, filter, edit, publish and delete posts
  F3  Preview   read the selected post
  F4  Settings  export, import and clear data

Keyboard Shortcuts:
  Upload:
    Tab/Shift+Tab  Next / previous field
    Ctrl+S         Save as draft
    Ctrl+P         Publish
    Ctrl+N         New post
    Ctrl+R         Remove featured image

  Manage:
    ↑/k ↓/j        Move
    /              Search
    c              Cycle category filter
    Enter/e        Edit
    p              Preview
    t              Toggle draft / published
    d              Delete

  Preview:
    r              Toggle raw HTML
    e              Edit

  General:
    q              Quit (outside the editor)
    Ctrl+C         Quit

Unsaved editor content is auto-saved and restored on the next start.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardView, "view", "", "Start in this view (upload, manage, preview, settings)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	restored, err := dashboard.RestoreAutosave(ctx)
	if err != nil {
		slog.Warn("restoring autosave failed", "error", err)
	}
	if dashboardView != "" && !restored {
		v, err := services.ParseView(dashboardView)
		if err != nil {
			return err
		}
		if err := dashboard.Navigate(v); err != nil {
			return err
		}
	}

	m := newDashboardModel(ctx, dashboardDeps{
		dash:          dashboard,
		encoder:       imageEncoder,
		exportPath:    func(name string) string { return appVault.GetExportPath(appConfig.ExportDir, name) },
		autosaveEvery: appConfig.AutosaveInterval(),
		notifyFor:     appConfig.NotificationDuration(),
		highlight:     appConfig.SyntaxHighlighting,
	})
	if restored {
		m.setStatus(msgRestored, ui.StyleInfo)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if dir, files, ok := storeWatchTarget(); ok {
		go func() {
			err := watchStore(watchCtx, dir, files, appConfig.WatchDebounce(), func() {
				p.Send(reloadPostsMsg{})
			})
			if err != nil {
				slog.Warn("store watcher stopped", "error", err)
			}
		}()
	}

	_, runErr := p.Run()
	stopWatch()

	// Whatever is left in the editor survives until the next start
	if saved, err := dashboard.FlushAutosave(ctx); err != nil {
		slog.Warn("final autosave failed", "error", err)
	} else if saved {
		slog.Info("editor content auto-saved on exit")
	}

	if runErr != nil {
		return fmt.Errorf("error running dashboard: %w", runErr)
	}
	return nil
}

// storeWatchTarget returns the directory and file names that change when posts are written
func storeWatchTarget() (dir string, files []string, ok bool) {
	switch kv := kvStore.(type) {
	case *repository.FileKV:
		return kv.Dir(), []string{ports.KeyPosts + ".json"}, true
	case *repository.SQLiteKV:
		return filepath.Dir(kv.Path()), repository.SQLiteFiles(kv.Path()), true
	}
	return "", nil, false
}

// dashboardDeps carries everything the model needs beyond the dashboard context
type dashboardDeps struct {
	dash          *services.Dashboard
	encoder       ports.ImageEncoder
	exportPath    func(filename string) string
	autosaveEvery time.Duration
	notifyFor     time.Duration
	highlight     bool
}

// Settings actions in display order
const (
	settingExport = iota
	settingImport
	settingClear
	settingCount
)

var settingLabels = [settingCount]string{
	settingExport: "Export data",
	settingImport: "Import data",
	settingClear:  "Clear all data",
}

type confirmAction int

const (
	confirmDelete confirmAction = iota
	confirmClear
)

// confirmDialog is the modal shown before a destructive action
type confirmDialog struct {
	title   string
	message string
	action  confirmAction
	id      string
}

// Messages
type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type autosaveTickMsg time.Time

type reloadPostsMsg struct{}

// Dashboard model
type dashboardModel struct {
	ctx  context.Context
	deps dashboardDeps
	dash *services.Dashboard
	keys keyMap
	help help.Model

	width  int
	height int
	ready  bool

	form uploadForm

	// manage view
	search     textinput.Model
	searching  bool
	categories []string // "" first, meaning all
	category   int
	cursor     int
	offset     int

	// preview view
	viewport viewport.Model
	raw      bool

	// settings view
	setting     int
	importInput textinput.Model
	importing   bool

	confirm *confirmDialog

	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
	now           func() time.Time
}

// Key bindings
type keyMap struct {
	Upload   key.Binding
	Manage   key.Binding
	Preview  key.Binding
	Settings key.Binding

	Quit      key.Binding
	ForceQuit key.Binding

	NextField   key.Binding
	PrevField   key.Binding
	SaveDraft   key.Binding
	Publish     key.Binding
	NewPost     key.Binding
	RemoveImage key.Binding

	Up       key.Binding
	Down     key.Binding
	Search   key.Binding
	Category key.Binding
	Edit     key.Binding
	Show     key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Raw      key.Binding
	Select   key.Binding
	Escape   key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Upload:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "upload")),
	Manage:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "manage")),
	Preview:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "preview")),
	Settings: key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "settings")),

	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

	NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	SaveDraft:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save draft")),
	Publish:     key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "publish")),
	NewPost:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
	RemoveImage: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "remove image")),

	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
	Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
	Show:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
	Toggle:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "publish/unpublish")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Raw:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "raw html")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
}

func newDashboardModel(ctx context.Context, deps dashboardDeps) dashboardModel {
	search := textinput.New()
	search.Placeholder = "Search posts..."
	search.CharLimit = 100
	search.Width = 50

	importInput := textinput.New()
	importInput.Placeholder = "path/to/export.json"
	importInput.CharLimit = 1024
	importInput.Width = 60

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	if deps.notifyFor <= 0 {
		deps.notifyFor = 3 * time.Second
	}

	m := dashboardModel{
		ctx:         ctx,
		deps:        deps,
		dash:        deps.dash,
		keys:        keys,
		help:        help.New(),
		form:        newUploadForm(),
		search:      search,
		importInput: importInput,
		viewport:    vp,
		now:         time.Now,
	}
	m.form.load(m.dash.Form())
	if m.dash.View() != services.ViewUpload {
		m.form.blur()
	}
	m.refreshCategories()
	m.refreshPreview()
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.scheduleAutosave()}
	if m.message != "" {
		cmds = append(cmds, m.clearMessageAfter())
	}
	return tea.Batch(cmds...)
}

func (m dashboardModel) scheduleAutosave() tea.Cmd {
	if m.deps.autosaveEvery <= 0 {
		return nil
	}
	return tea.Tick(m.deps.autosaveEvery, func(t time.Time) tea.Msg {
		return autosaveTickMsg(t)
	})
}

func (m dashboardModel) clearMessageAfter() tea.Cmd {
	return tea.Tick(m.deps.notifyFor, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

func (m *dashboardModel) setStatus(message string, style lipgloss.Style) {
	m.message = message
	m.messageStyle = style
	m.messageExpiry = m.now().Add(m.deps.notifyFor)
}

func (m dashboardModel) notify(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: message, style: style}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		m.form.setSize(msg.Width, msg.Height-22)
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-8, 5)
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if v, ok := m.viewForKey(msg); ok {
			return m.navigate(v)
		}

		switch m.dash.View() {
		case services.ViewUpload:
			return m.updateUpload(msg)
		case services.ViewManage:
			return m.updateManage(msg)
		case services.ViewPreview:
			return m.updatePreview(msg)
		case services.ViewSettings:
			return m.updateSettings(msg)
		}

	case statusMsg:
		m.setStatus(msg.message, msg.style)
		return m, m.clearMessageAfter()

	case clearMessageMsg:
		if !m.now().Before(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case autosaveTickMsg:
		if saved, err := m.dash.AutosaveTick(m.ctx); err != nil {
			slog.Warn("autosave failed", "error", err)
		} else if saved {
			slog.Debug("editor content auto-saved")
		}
		return m, m.scheduleAutosave()

	case reloadPostsMsg:
		m.dash.Reload(m.ctx)
		m.refreshCategories()
		m.clampCursor()
		m.refreshPreview()
		return m, nil
	}

	// Mouse wheel and friends scroll the preview
	if m.dash.View() == services.ViewPreview {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) viewForKey(msg tea.KeyMsg) (services.View, bool) {
	switch {
	case key.Matches(msg, m.keys.Upload):
		return services.ViewUpload, true
	case key.Matches(msg, m.keys.Manage):
		return services.ViewManage, true
	case key.Matches(msg, m.keys.Preview):
		return services.ViewPreview, true
	case key.Matches(msg, m.keys.Settings):
		return services.ViewSettings, true
	}
	return "", false
}

func (m dashboardModel) navigate(v services.View) (tea.Model, tea.Cmd) {
	if err := m.dash.Navigate(v); err != nil {
		return m, m.notify(err.Error(), ui.StyleError)
	}
	m.searching = false
	m.search.Blur()
	m.importing = false
	m.importInput.Blur()

	switch v {
	case services.ViewUpload:
		return m, m.form.setFocus(m.form.focus)
	case services.ViewManage:
		m.form.blur()
		m.clampCursor()
	case services.ViewPreview:
		m.form.blur()
		m.refreshPreview()
	case services.ViewSettings:
		m.form.blur()
	}
	return m, nil
}

// ---------------------------------------------------------------------
// Upload view
// ---------------------------------------------------------------------

func (m dashboardModel) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SaveDraft):
		return m.save(domain.StatusDraft)

	case key.Matches(msg, m.keys.Publish):
		return m.save(domain.StatusPublished)

	case key.Matches(msg, m.keys.NewPost):
		m.dash.NewPost()
		m.form.load(m.dash.Form())
		return m, m.form.setFocus(fieldTitle)

	case key.Matches(msg, m.keys.RemoveImage):
		m.form.removeImage()
		m.syncForm()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.next()

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.prev()

	case msg.Type == tea.KeyEnter && m.form.focus != fieldContent:
		return m, m.form.next()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	m.syncForm()
	return m, cmd
}

// syncForm copies the widgets into the dashboard form
func (m *dashboardModel) syncForm() {
	m.dash.SetForm(m.form.value())
}

func (m dashboardModel) save(status domain.Status) (tea.Model, tea.Cmd) {
	if err := m.form.attachImage(m.deps.encoder); err != nil {
		slog.Warn("featured image rejected", "error", err)
		return m, m.notify("Could not load featured image: "+err.Error(), ui.StyleError)
	}
	m.syncForm()

	if _, err := m.dash.Save(m.ctx, status); err != nil {
		return m, m.notify(validationMessage(err), ui.StyleError)
	}

	m.form.load(m.dash.Form())
	m.refreshCategories()
	m.refreshPreview()
	return m, tea.Batch(
		m.notify(savedMessage(status), ui.StyleSuccess),
		m.form.setFocus(fieldTitle),
	)
}

// ---------------------------------------------------------------------
// Manage view
// ---------------------------------------------------------------------

func (m dashboardModel) updateManage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}

	posts := m.dash.Visible()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(posts)-1 {
			m.cursor++
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Category):
		m.category = (m.category + 1) % len(m.categories)
		m.applyFilter()

	case key.Matches(msg, m.keys.Escape):
		m.search.SetValue("")
		m.category = 0
		m.applyFilter()

	case key.Matches(msg, m.keys.Edit):
		if len(posts) > 0 {
			if err := m.dash.Edit(posts[m.cursor].ID); err != nil {
				return m, m.notify(err.Error(), ui.StyleError)
			}
			m.form.load(m.dash.Form())
			return m, m.form.setFocus(fieldTitle)
		}

	case key.Matches(msg, m.keys.Show):
		if len(posts) > 0 {
			if err := m.dash.Preview(posts[m.cursor].ID); err != nil {
				return m, m.notify(err.Error(), ui.StyleError)
			}
			m.raw = false
			m.refreshPreview()
		}

	case key.Matches(msg, m.keys.Toggle):
		if len(posts) > 0 {
			return m.toggle(posts[m.cursor].ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if len(posts) > 0 {
			if title, message, ok := m.dash.DeletePrompt(posts[m.cursor].ID); ok {
				m.confirm = &confirmDialog{title: title, message: message, action: confirmDelete, id: posts[m.cursor].ID}
			}
		}
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applyFilter()
		return m, nil

	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.dash.Visible())-1 {
			m.cursor++
			m.adjustViewport()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m dashboardModel) toggle(id string) (tea.Model, tea.Cmd) {
	post, err := m.dash.ToggleStatus(m.ctx, id)
	if err != nil {
		return m, m.notify(err.Error(), ui.StyleError)
	}
	if m.dash.CurrentID() == id {
		m.form.load(m.dash.Form())
	}
	m.refreshPreview()

	if post.IsPublished() {
		return m, m.notify(msgPublished, ui.StyleSuccess)
	}
	return m, m.notify(fmt.Sprintf("%q moved to drafts", post.Title), ui.StyleInfo)
}

func (m *dashboardModel) applyFilter() {
	category := ""
	if m.category < len(m.categories) {
		category = m.categories[m.category]
	}
	m.dash.SetFilter(services.Query{Search: m.search.Value(), Category: category})
	m.cursor = 0
	m.offset = 0
}

func (m *dashboardModel) refreshCategories() {
	current := ""
	if m.category < len(m.categories) {
		current = m.categories[m.category]
	}

	m.categories = append([]string{""}, m.dash.Categories()...)
	m.category = 0
	for i, c := range m.categories {
		if c == current {
			m.category = i
		}
	}
	if m.categories[m.category] != current {
		m.applyFilter()
	}
}

func (m *dashboardModel) clampCursor() {
	n := len(m.dash.Visible())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.adjustViewport()
}

func (m *dashboardModel) listHeight() int {
	return max(m.height-10, 3)
}

func (m *dashboardModel) adjustViewport() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

// ---------------------------------------------------------------------
// Preview view
// ---------------------------------------------------------------------

func (m dashboardModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Raw):
		m.raw = !m.raw
		m.refreshPreview()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if post, ok := m.dash.PreviewPost(); ok {
			if err := m.dash.Edit(post.ID); err != nil {
				return m, m.notify(err.Error(), ui.StyleError)
			}
			m.form.load(m.dash.Form())
			return m, m.form.setFocus(fieldTitle)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *dashboardModel) refreshPreview() {
	post, ok := m.dash.PreviewPost()
	if !ok {
		m.viewport.SetContent(ui.StyleMuted.Render(services.PreviewPlaceholder))
		return
	}
	m.viewport.SetContent(renderPreview(post, m.raw, m.deps.highlight, m.viewport.Width))
	m.viewport.GotoTop()
}

// renderPreview lays out a post for the preview pane
func renderPreview(p domain.Post, raw, highlight bool, width int) string {
	var s strings.Builder

	s.WriteString(ui.FormatTitle(p.Title))
	s.WriteString("\n")

	meta := []string{ui.FormatStatus(string(p.Status)), p.CategoryOr("Uncategorized")}
	meta = append(meta, p.CreatedAt.Local().Format("Jan 2, 2006"))
	meta = append(meta, fmt.Sprintf("%d min read", p.ReadingTime()))
	s.WriteString(ui.StyleMuted.Render(strings.Join(meta, " · ")))
	s.WriteString("\n")

	if len(p.Tags) > 0 {
		badges := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			badges = append(badges, ui.StyleAccent.Render("["+tag+"]"))
		}
		s.WriteString(strings.Join(badges, " "))
		s.WriteString("\n")
	}
	if p.FeaturedImage != "" {
		s.WriteString(ui.StyleMuted.Render(fmt.Sprintf("%s featured image (%d KB)", ui.IconInfo, len(p.FeaturedImage)/1024)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	body := lipgloss.NewStyle().Width(max(width, 20))
	if summary := p.Summary(); summary != "" {
		s.WriteString(body.Italic(true).Render(summary))
		s.WriteString("\n\n")
	}

	switch {
	case raw && highlight:
		s.WriteString(highlightHTML(p.Content))
	case raw:
		s.WriteString(p.Content)
	default:
		s.WriteString(lipgloss.NewStyle().Width(max(width, 20)).Render(domain.HTMLToText(p.Content)))
	}
	return s.String()
}

// ---------------------------------------------------------------------
// Settings view
// ---------------------------------------------------------------------

func (m dashboardModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.importing {
		return m.updateImport(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.setting > 0 {
			m.setting--
		}

	case key.Matches(msg, m.keys.Down):
		if m.setting < settingCount-1 {
			m.setting++
		}

	case key.Matches(msg, m.keys.Select):
		switch m.setting {
		case settingExport:
			return m.export()
		case settingImport:
			m.importing = true
			m.importInput.SetValue("")
			return m, m.importInput.Focus()
		case settingClear:
			title, message := m.dash.ClearAllPrompt()
			m.confirm = &confirmDialog{title: title, message: message, action: confirmClear}
		}
	}
	return m, nil
}

func (m dashboardModel) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.importing = false
		m.importInput.Blur()
		return m, nil

	case tea.KeyEnter:
		m.importing = false
		m.importInput.Blur()
		path := strings.TrimSpace(m.importInput.Value())
		if path == "" {
			return m, nil
		}
		n, err := importFile(m.dash, path)
		if err != nil {
			slog.Warn("import failed", "file", path, "error", err)
			return m, m.notify(msgImportFailed, ui.StyleError)
		}
		m.form.load(m.dash.Form())
		m.refreshCategories()
		m.clampCursor()
		m.refreshPreview()
		return m, m.notify(fmt.Sprintf("%s (%d posts)", msgImported, n), ui.StyleSuccess)
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m dashboardModel) export() (tea.Model, tea.Cmd) {
	if m.deps.exportPath == nil {
		return m, nil
	}
	path := m.deps.exportPath(m.dash.ExportFilename())
	if _, err := writeExport(m.dash, path); err != nil {
		slog.Warn("export failed", "file", path, "error", err)
		return m, m.notify("Export failed: "+err.Error(), ui.StyleError)
	}
	return m, m.notify(msgExported+": "+path, ui.StyleSuccess)
}

// ---------------------------------------------------------------------
// Confirm modal
// ---------------------------------------------------------------------

func (m dashboardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		dialog := m.confirm
		m.confirm = nil
		return m.runConfirmed(dialog)

	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.ForceQuit):
		m.confirm = nil
	}
	return m, nil
}

// runConfirmed performs the action the user just approved in the modal
func (m dashboardModel) runConfirmed(dialog *confirmDialog) (tea.Model, tea.Cmd) {
	var (
		done    bool
		err     error
		message string
	)
	switch dialog.action {
	case confirmDelete:
		done, err = m.dash.Delete(m.ctx, dialog.id, ports.Approve)
		message = msgDeleted
	case confirmClear:
		done, err = m.dash.ClearAll(m.ctx, ports.Approve)
		message = msgCleared
	}
	if err != nil {
		return m, m.notify(err.Error(), ui.StyleError)
	}
	if !done {
		return m, nil
	}

	m.form.load(m.dash.Form())
	m.refreshCategories()
	m.clampCursor()
	m.refreshPreview()
	return m, m.notify(message, ui.StyleSuccess)
}

// ---------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}
	if m.confirm != nil {
		return m.viewConfirm()
	}

	var body string
	switch m.dash.View() {
	case services.ViewUpload:
		_, editing := m.dash.Current()
		body = m.form.view(editing)
	case services.ViewManage:
		body = m.viewManage()
	case services.ViewPreview:
		body = m.viewport.View()
	case services.ViewSettings:
		body = m.viewSettings()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		body,
		m.renderFooter(),
	)
}

func (m dashboardModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Underline(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Padding(0, 1)

	tabs := []struct {
		key  string
		view services.View
		name string
	}{
		{"F1", services.ViewUpload, "Upload"},
		{"F2", services.ViewManage, "Manage"},
		{"F3", services.ViewPreview, "Preview"},
		{"F4", services.ViewSettings, "Settings"},
	}

	parts := []string{ui.StyleTitle.Render(ui.IconPost + " folio")}
	for _, tab := range tabs {
		style := inactive
		if tab.view == m.dash.View() {
			style = active
		}
		parts = append(parts, style.Render(tab.key+" "+tab.name))
	}

	stats := ui.StyleMuted.Render(fmt.Sprintf("%d posts", len(m.dash.Posts())))
	left := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	spacer := max(m.width-lipgloss.Width(left)-lipgloss.Width(stats), 1)

	return left + strings.Repeat(" ", spacer) + stats + "\n"
}

func (m dashboardModel) viewManage() string {
	var s strings.Builder

	borderColor := ui.ColorMuted
	if m.searching {
		borderColor = ui.ColorPrimary
	}
	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(m.width-4, 20))

	content := m.search.View()
	if !m.searching && m.search.Value() == "" {
		content = ui.StyleMuted.Render("Press / to search...")
	}
	category := "All categories"
	if m.category > 0 && m.category < len(m.categories) {
		category = m.categories[m.category]
	}
	s.WriteString(searchStyle.Render(content + ui.StyleMuted.Render("   [c] "+category)))
	s.WriteString("\n")

	posts := m.dash.Visible()
	if len(posts) == 0 {
		empty := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(1, 2)
		if m.search.Value() != "" || m.category > 0 {
			s.WriteString(empty.Render("No posts match your search."))
		} else {
			s.WriteString(empty.Render("No posts yet. Press F1 to write your first one!"))
		}
		return s.String()
	}

	end := min(m.offset+m.listHeight(), len(posts))
	now := m.now()
	for i := m.offset; i < end; i++ {
		s.WriteString(m.renderPostItem(posts[i], i == m.cursor, now))
		s.WriteString("\n")
	}
	return s.String()
}

func (m dashboardModel) renderPostItem(p domain.Post, selected bool, now time.Time) string {
	cursor := "  "
	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		titleStyle = ui.StylePrimary.Bold(true)
	}

	icon := ui.IconDraft
	if p.IsPublished() {
		icon = ui.StyleSuccess.Render(ui.IconSuccess)
	}

	titleWidth := max(m.width-50, 20)
	title := ui.Truncate(p.Title, titleWidth)
	title += strings.Repeat(" ", max(titleWidth-lipgloss.Width(title), 0))

	line := fmt.Sprintf("%s%s %s  %s  %s",
		cursor,
		icon,
		titleStyle.Render(title),
		ui.StyleMuted.Render(ui.Truncate(p.CategoryOr("-"), 16)),
		ui.StyleMuted.Render(formatRelativeTime(p.UpdatedAt, now)),
	)
	if len(p.Tags) > 0 {
		line += "  " + ui.StyleAccent.Render(ui.Truncate(p.TagsString(), 30))
	}
	return line
}

func (m dashboardModel) viewSettings() string {
	var s strings.Builder

	s.WriteString(ui.StyleHeader.Render("Data"))
	s.WriteString("\n\n")
	for i := range settingCount {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(ui.ColorDefault)
		if i == m.setting {
			cursor = ui.StylePrimary.Render("▶ ")
			style = ui.StylePrimary.Bold(true)
		}
		if i == settingClear {
			style = style.Foreground(ui.ColorError)
		}
		s.WriteString(cursor + style.Render(settingLabels[i]) + "\n")
	}

	if m.importing {
		s.WriteString("\n")
		s.WriteString(ui.StyleMuted.Render("Import file (enter to import, esc to cancel):"))
		s.WriteString("\n  ")
		s.WriteString(m.importInput.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(ui.RenderKeyValue("Posts", fmt.Sprintf("%d", len(m.dash.Posts()))))
	s.WriteString("\n")
	if m.deps.exportPath != nil {
		s.WriteString(ui.RenderKeyValue("Export to", m.deps.exportPath(m.dash.ExportFilename())))
		s.WriteString("\n")
	}
	return s.String()
}

func (m dashboardModel) viewConfirm() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorWarning).
		Bold(true)

	promptStyle := lipgloss.NewStyle().
		Foreground(ui.ColorDefault).
		MarginTop(1)

	content := fmt.Sprintf("%s\n\n%s\n\n%s",
		titleStyle.Render(ui.IconWarning+"  "+m.confirm.title),
		m.confirm.message,
		promptStyle.Render("Press 'y' to confirm, 'n' or ESC to cancel"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}

func (m dashboardModel) renderFooter() string {
	var statusLine string
	if m.message != "" && m.now().Before(m.messageExpiry) {
		statusLine = m.messageStyle.Render(m.message)
	} else {
		statusLine = ui.StyleMuted.Render("Ready")
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		statusLine,
		m.help.ShortHelpView(m.viewBindings()),
	))
}

// viewBindings lists the keys worth showing for the active view
func (m dashboardModel) viewBindings() []key.Binding {
	k := m.keys
	switch m.dash.View() {
	case services.ViewUpload:
		return []key.Binding{k.NextField, k.SaveDraft, k.Publish, k.NewPost, k.Manage, k.ForceQuit}
	case services.ViewManage:
		if m.searching {
			return []key.Binding{k.Escape}
		}
		return []key.Binding{k.Up, k.Down, k.Search, k.Category, k.Edit, k.Show, k.Toggle, k.Delete, k.Quit}
	case services.ViewPreview:
		return []key.Binding{k.Raw, k.Edit, k.Manage, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Select, k.Upload, k.Quit}
	}
}
