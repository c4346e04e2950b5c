package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
	"github.com/kamal-hamza/folio/internal/core/ports/mocks"
	"github.com/kamal-hamza/folio/internal/core/services"
)

type stubEncoder struct {
	uri string
	err error
}

func (e stubEncoder) EncodeFile(path string) (string, error) {
	return e.uri, e.err
}

type modelFixture struct {
	m         dashboardModel
	dash      *services.Dashboard
	store     *services.PostStore
	kv        *mocks.MockKV
	exportDir string
}

func createTestPost(id, title, category string, tags ...string) domain.Post {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Post{
		ID:        id,
		Title:     title,
		Category:  category,
		Content:   "<p>Content of " + title + "</p>",
		Tags:      tags,
		Status:    domain.StatusDraft,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func setupModel(t *testing.T, posts ...domain.Post) *modelFixture {
	t.Helper()
	ctx := context.Background()

	kv := mocks.NewMockKV()
	store := services.NewPostStore(kv)
	store.Load(ctx)
	if len(posts) > 0 {
		if err := store.SaveAll(ctx, posts); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}
	}

	seq := 0
	dash := services.NewDashboard(
		store,
		services.NewAutosaveService(kv, time.Hour, nil),
		services.NewTransferService(store, nil),
		services.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("post-%d", seq)
		}),
	)

	dir := t.TempDir()
	m := newDashboardModel(ctx, dashboardDeps{
		dash:          dash,
		encoder:       stubEncoder{uri: "data:image/jpeg;base64,AAAA"},
		exportPath:    func(name string) string { return filepath.Join(dir, name) },
		autosaveEvery: 30 * time.Second,
		notifyFor:     3 * time.Second,
	})
	return &modelFixture{m: m, dash: dash, store: store, kv: kv, exportDir: dir}
}

func press(t *testing.T, m dashboardModel, msg tea.Msg) (dashboardModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(dashboardModel), cmd
}

func typeText(t *testing.T, m dashboardModel, text string) dashboardModel {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// statusFrom runs cmd and returns the status message it produces
func statusFrom(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg, ok := cmd().(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", cmd())
	}
	return msg.message
}

// TestDashboardModelInitialization tests that the dashboard model is initialized correctly
func TestDashboardModelInitialization(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", "Go"), createTestPost("b", "Beta", ""))
	m := f.m

	if m.dash.View() != services.ViewUpload {
		t.Errorf("Expected upload view, got %s", m.dash.View())
	}
	if m.ready {
		t.Error("Expected ready to be false initially")
	}
	if m.form.focus != fieldTitle {
		t.Errorf("Expected title field focused, got %d", m.form.focus)
	}
	if len(m.categories) != 2 || m.categories[0] != "" || m.categories[1] != "Go" {
		t.Errorf("Expected categories [\"\" Go], got %q", m.categories)
	}
	if m.Init() == nil {
		t.Error("Init should schedule autosave")
	}
}

func TestDashboardTypingUpdatesForm(t *testing.T) {
	f := setupModel(t)
	m := typeText(t, f.m, "Hello")

	if got := f.dash.Form().Title; got != "Hello" {
		t.Errorf("Expected form title 'Hello', got %q", got)
	}

	// Tab moves to the category field
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "Go")
	if got := f.dash.Form().Category; got != "Go" {
		t.Errorf("Expected form category 'Go', got %q", got)
	}

	// Shift+Tab from the title wraps to the content area
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.form.focus != fieldContent {
		t.Errorf("Expected content focused after wrap, got %d", m.form.focus)
	}
}

func TestDashboardSaveValidation(t *testing.T) {
	tests := []struct {
		name string
		form domain.Form
		want string
	}{
		{"missing title", domain.Form{Content: "<p>body</p>"}, msgTitleRequired},
		{"blank title", domain.Form{Title: "   ", Content: "<p>body</p>"}, msgTitleRequired},
		{"missing content", domain.Form{Title: "Hello"}, msgContentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupModel(t)
			m := f.m
			m.form.load(tt.form)

			_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
			if got := statusFrom(t, cmd); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if f.store.Len() != 0 {
				t.Errorf("Store should be untouched, has %d posts", f.store.Len())
			}
		})
	}
}

func TestDashboardEditSaveKeepsLongFields(t *testing.T) {
	tags := make([]string, 40)
	for i := range tags {
		tags[i] = fmt.Sprintf("topic-%02d", i)
	}
	long := createTestPost("a", strings.Repeat("é", 250), strings.Repeat("Category ", 30), tags...)
	long.Excerpt = strings.Repeat("summary ", 75)
	paragraphs := make([]string, 150)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("<p>Paragraph %d of a long post, with enough words to wrap.</p>", i)
	}
	long.Content = strings.Join(paragraphs, "\n")

	f := setupModel(t, long)
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})
	m, _ = press(t, m, runeKey('e'))
	if f.dash.CurrentID() != "a" {
		t.Fatalf("Expected to edit 'a', got %q", f.dash.CurrentID())
	}

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if got := statusFrom(t, cmd); got != msgDraftSaved {
		t.Fatalf("Expected %q, got %q", msgDraftSaved, got)
	}

	saved, ok := f.store.FindByID("a")
	if !ok {
		t.Fatal("Expected 'a' to still exist")
	}
	if saved.Title != long.Title {
		t.Errorf("Title changed: %d -> %d runes", len([]rune(long.Title)), len([]rune(saved.Title)))
	}
	if saved.Category != strings.TrimSpace(long.Category) {
		t.Errorf("Category changed: %q", saved.Category)
	}
	if saved.TagsString() != long.TagsString() {
		t.Errorf("Tags changed: %d -> %d", len(long.Tags), len(saved.Tags))
	}
	if saved.Excerpt != strings.TrimSpace(long.Excerpt) {
		t.Errorf("Excerpt changed: %d -> %d bytes", len(long.Excerpt), len(saved.Excerpt))
	}
	if saved.Content != long.Content {
		t.Errorf("Content changed: %d -> %d bytes", len(long.Content), len(saved.Content))
	}
	if f.store.Len() != 1 {
		t.Errorf("Expected 1 post, got %d", f.store.Len())
	}
}

func TestDashboardSaveDraftKeepsEditing(t *testing.T) {
	f := setupModel(t)
	m := f.m
	m.form.load(domain.Form{Title: "Draft", Content: "<p>Hi</p>", Tags: "go, tui"})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	post, ok := f.store.FindByID("post-1")
	if !ok {
		t.Fatal("Expected post-1 to be saved")
	}
	if post.Status != domain.StatusDraft {
		t.Errorf("Expected draft, got %s", post.Status)
	}
	if len(post.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", post.Tags)
	}
	if f.dash.CurrentID() != "post-1" {
		t.Errorf("Draft save should keep the post selected, got %q", f.dash.CurrentID())
	}
	if m.form.inputs[fieldTitle].Value() != "Draft" {
		t.Errorf("Draft save should keep the form, got %q", m.form.inputs[fieldTitle].Value())
	}
}

func TestDashboardPublishClearsForm(t *testing.T) {
	f := setupModel(t)
	m := f.m
	m.form.load(domain.Form{Title: "Live", Content: "<p>Hi</p>"})
	m.form.inputs[fieldImage].SetValue("cover.png")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})

	post, ok := f.store.FindByID("post-1")
	if !ok {
		t.Fatal("Expected post-1 to be saved")
	}
	if !post.IsPublished() || post.PublishedAt == nil {
		t.Errorf("Expected published post with date, got %s", post.Status)
	}
	if post.FeaturedImage != "data:image/jpeg;base64,AAAA" {
		t.Errorf("Expected featured image to be attached, got %q", post.FeaturedImage)
	}
	if !m.form.value().IsZero() {
		t.Errorf("Publish should clear the form, got %+v", m.form.value())
	}
	if f.dash.CurrentID() != "" {
		t.Error("Publish should clear the selection")
	}
}

func TestDashboardSaveRejectsBadImage(t *testing.T) {
	f := setupModel(t)
	m := f.m
	m.deps.encoder = stubEncoder{err: errors.New("not an image")}
	m.form.load(domain.Form{Title: "Live", Content: "<p>Hi</p>"})
	m.form.inputs[fieldImage].SetValue("notes.txt")

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if got := statusFrom(t, cmd); !strings.Contains(got, "not an image") {
		t.Errorf("Expected image error, got %q", got)
	}
	if f.store.Len() != 0 {
		t.Error("Nothing should be saved when the image is rejected")
	}
}

func TestDashboardNewPostResetsEditor(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""))
	if err := f.dash.Edit("a"); err != nil {
		t.Fatal(err)
	}
	m := f.m
	m.form.load(f.dash.Form())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	if f.dash.CurrentID() != "" {
		t.Error("New post should clear the selection")
	}
	if m.form.inputs[fieldTitle].Value() != "" {
		t.Error("New post should clear the title")
	}
}

func TestDashboardViewKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyType
		want services.View
	}{
		{tea.KeyF2, services.ViewManage},
		{tea.KeyF3, services.ViewPreview},
		{tea.KeyF4, services.ViewSettings},
		{tea.KeyF1, services.ViewUpload},
	}

	f := setupModel(t)
	m := f.m
	for _, tt := range tests {
		m, _ = press(t, m, tea.KeyMsg{Type: tt.key})
		if f.dash.View() != tt.want {
			t.Errorf("After %v expected %s, got %s", tt.key, tt.want, f.dash.View())
		}
	}
}

func TestDashboardManageNavigation(t *testing.T) {
	f := setupModel(t,
		createTestPost("a", "Alpha", ""),
		createTestPost("b", "Beta", ""),
		createTestPost("c", "Gamma", ""),
	)
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})

	m, _ = press(t, m, runeKey('j'))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("Expected cursor at 2, got %d", m.cursor)
	}

	// Down at the end stays put
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("Cursor should stay at 2, got %d", m.cursor)
	}

	m, _ = press(t, m, runeKey('k'))
	if m.cursor != 1 {
		t.Errorf("Expected cursor at 1, got %d", m.cursor)
	}

	// Up at the top stays put
	m.cursor = 0
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("Cursor should stay at 0, got %d", m.cursor)
	}
}

func TestDashboardManageSearch(t *testing.T) {
	f := setupModel(t,
		createTestPost("a", "Learning Go", "", "golang"),
		createTestPost("b", "Rust notes", ""),
		createTestPost("c", "Cooking", "", "food"),
	)
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})

	m, _ = press(t, m, runeKey('/'))
	if !m.searching {
		t.Fatal("Expected search mode")
	}

	m = typeText(t, m, "go")
	visible := f.dash.Visible()
	if len(visible) != 1 || visible[0].ID != "a" {
		t.Errorf("Expected only 'a' to match, got %v", visible)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching {
		t.Error("Esc should leave search mode")
	}
	if len(f.dash.Visible()) != 3 {
		t.Errorf("Esc should clear the search, got %d posts", len(f.dash.Visible()))
	}
}

func TestDashboardCategoryCycle(t *testing.T) {
	f := setupModel(t,
		createTestPost("a", "One", "Go"),
		createTestPost("b", "Two", "Rust"),
		createTestPost("c", "Three", "Go"),
	)
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})

	m, _ = press(t, m, runeKey('c'))
	if got := f.dash.Filter().Category; got != "Go" {
		t.Fatalf("Expected Go filter, got %q", got)
	}
	if len(f.dash.Visible()) != 2 {
		t.Errorf("Expected 2 Go posts, got %d", len(f.dash.Visible()))
	}

	m, _ = press(t, m, runeKey('c'))
	m, _ = press(t, m, runeKey('c'))
	if got := f.dash.Filter().Category; got != "" {
		t.Errorf("Expected filter to wrap to all, got %q", got)
	}
}

func TestDashboardToggleStatus(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""))
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})

	m, cmd := press(t, m, runeKey('t'))
	if got := statusFrom(t, cmd); got != msgPublished {
		t.Errorf("Expected %q, got %q", msgPublished, got)
	}
	post, _ := f.store.FindByID("a")
	if !post.IsPublished() {
		t.Error("Expected post to be published")
	}

	_, _ = press(t, m, runeKey('t'))
	post, _ = f.store.FindByID("a")
	if post.IsPublished() {
		t.Error("Expected post back in drafts")
	}
	if post.PublishedAt == nil {
		t.Error("Unpublishing should keep the first publication date")
	}
}

func TestDashboardDeleteConfirm(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""), createTestPost("b", "Beta", ""))
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})

	// Declining keeps the post
	m, _ = press(t, m, runeKey('d'))
	if m.confirm == nil || m.confirm.id != "a" {
		t.Fatalf("Expected confirm dialog for 'a', got %+v", m.confirm)
	}
	if !strings.Contains(m.confirm.message, "Alpha") {
		t.Errorf("Confirm message should name the post, got %q", m.confirm.message)
	}
	m, _ = press(t, m, runeKey('n'))
	if m.confirm != nil {
		t.Error("Dialog should close on 'n'")
	}
	if f.store.Len() != 2 {
		t.Fatalf("Declined delete removed a post")
	}

	// Keys other than y/n are ignored while the dialog is open
	m, _ = press(t, m, runeKey('d'))
	m, _ = press(t, m, runeKey('t'))
	if m.confirm == nil {
		t.Fatal("Dialog should stay open")
	}
	if post, _ := f.store.FindByID("a"); post.IsPublished() {
		t.Error("Keys should not reach the manage view while the dialog is open")
	}

	m, cmd := press(t, m, runeKey('y'))
	if got := statusFrom(t, cmd); got != msgDeleted {
		t.Errorf("Expected %q, got %q", msgDeleted, got)
	}
	if _, ok := f.store.FindByID("a"); ok {
		t.Error("Expected 'a' to be deleted")
	}
	if m.cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", m.cursor)
	}
}

func TestDashboardDeleteCurrentResetsForm(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""))
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})

	m, _ = press(t, m, runeKey('e'))
	if f.dash.CurrentID() != "a" || f.dash.View() != services.ViewUpload {
		t.Fatalf("Expected to edit 'a' in upload view")
	}
	if m.form.inputs[fieldTitle].Value() != "Alpha" {
		t.Errorf("Expected form loaded with Alpha, got %q", m.form.inputs[fieldTitle].Value())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF2})
	m, _ = press(t, m, runeKey('d'))
	m, _ = press(t, m, runeKey('y'))

	if f.dash.CurrentID() != "" {
		t.Error("Deleting the edited post should clear the selection")
	}
	if m.form.inputs[fieldTitle].Value() != "" {
		t.Error("Deleting the edited post should clear the form")
	}
}

func TestDashboardPreview(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", "Go"))
	m, _ := press(t, f.m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF3})
	if !strings.Contains(m.viewport.View(), services.PreviewPlaceholder[:20]) {
		t.Errorf("Expected placeholder with nothing selected, got %q", m.viewport.View())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF2})
	m, _ = press(t, m, runeKey('p'))
	if f.dash.View() != services.ViewPreview {
		t.Fatalf("Expected preview view, got %s", f.dash.View())
	}
	if !strings.Contains(m.viewport.View(), "Content of Alpha") {
		t.Errorf("Expected rendered text, got %q", m.viewport.View())
	}

	m, _ = press(t, m, runeKey('r'))
	if !m.raw {
		t.Fatal("Expected raw mode")
	}
	if !strings.Contains(m.viewport.View(), "<p>") {
		t.Errorf("Raw mode should show HTML, got %q", m.viewport.View())
	}

	m, _ = press(t, m, runeKey('e'))
	if f.dash.View() != services.ViewUpload || f.dash.CurrentID() != "a" {
		t.Error("'e' in preview should edit the post")
	}
}

func TestDashboardExport(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""))
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF4})

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := statusFrom(t, cmd); !strings.HasPrefix(got, msgExported) {
		t.Errorf("Expected export message, got %q", got)
	}

	path := filepath.Join(f.exportDir, f.dash.ExportFilename())
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected export file: %v", err)
	}
	if !strings.Contains(string(data), `"blogs"`) || !strings.Contains(string(data), "Alpha") {
		t.Errorf("Unexpected export content: %s", data)
	}
}

func TestDashboardImport(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""))

	path := filepath.Join(t.TempDir(), "import.json")
	src := setupModel(t, createTestPost("x", "Imported", ""), createTestPost("y", "Also", ""))
	if _, err := writeExport(src.dash, path); err != nil {
		t.Fatal(err)
	}

	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF4})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.importing {
		t.Fatal("Expected import prompt")
	}
	m.importInput.SetValue(path)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := statusFrom(t, cmd); !strings.HasPrefix(got, msgImported) {
		t.Errorf("Expected import message, got %q", got)
	}
	if f.store.Len() != 2 {
		t.Errorf("Expected 2 posts after import, got %d", f.store.Len())
	}
	if _, ok := f.store.FindByID("a"); ok {
		t.Error("Import should replace existing posts")
	}
	if m.importing {
		t.Error("Import prompt should close")
	}
}

func TestDashboardImportFailureKeepsPosts(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""))

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"title": "no wrapper"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF4})
	m.setting = settingImport
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.importInput.SetValue(path)

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := statusFrom(t, cmd); got != msgImportFailed {
		t.Errorf("Expected %q, got %q", msgImportFailed, got)
	}
	if f.store.Len() != 1 {
		t.Errorf("Failed import should keep the store, got %d posts", f.store.Len())
	}
}

func TestDashboardClearAll(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""), createTestPost("b", "Beta", ""))
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF4})
	m.setting = settingClear

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.confirm == nil || !strings.Contains(m.confirm.message, "2 blogs") {
		t.Fatalf("Expected confirm naming the post count, got %+v", m.confirm)
	}

	_, cmd := press(t, m, runeKey('y'))
	if got := statusFrom(t, cmd); got != msgCleared {
		t.Errorf("Expected %q, got %q", msgCleared, got)
	}
	if f.store.Len() != 0 {
		t.Errorf("Expected empty store, got %d posts", f.store.Len())
	}
}

func TestDashboardAutosaveTick(t *testing.T) {
	ctx := context.Background()
	f := setupModel(t)
	m := typeText(t, f.m, "Unsaved")

	m, cmd := press(t, m, autosaveTickMsg(time.Now()))
	if cmd == nil {
		t.Error("Autosave should reschedule itself")
	}
	if _, ok, _ := f.kv.Get(ctx, ports.KeyAutosave); !ok {
		t.Fatal("Expected autosave slot to be written")
	}

	// Outside the upload view nothing is written
	if err := f.kv.Delete(ctx, ports.KeyAutosave); err != nil {
		t.Fatal(err)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF2})
	_, _ = press(t, m, autosaveTickMsg(time.Now()))
	if _, ok, _ := f.kv.Get(ctx, ports.KeyAutosave); ok {
		t.Error("Autosave should only run in the upload view")
	}
}

func TestDashboardReloadPosts(t *testing.T) {
	ctx := context.Background()
	f := setupModel(t, createTestPost("a", "Alpha", ""), createTestPost("b", "Beta", "Go"))
	m, _ := press(t, f.m, tea.KeyMsg{Type: tea.KeyF2})
	m.cursor = 1

	// Another process rewrites the store
	other := services.NewPostStore(f.kv)
	other.Load(ctx)
	if _, err := other.Remove(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	m, _ = press(t, m, reloadPostsMsg{})
	if len(f.dash.Posts()) != 1 {
		t.Errorf("Expected 1 post after reload, got %d", len(f.dash.Posts()))
	}
	if m.cursor != 0 {
		t.Errorf("Cursor should be clamped, got %d", m.cursor)
	}
	if len(m.categories) != 1 {
		t.Errorf("Categories should be refreshed, got %q", m.categories)
	}
}

func TestDashboardStatusExpiry(t *testing.T) {
	f := setupModel(t)
	m := f.m
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	m, cmd := press(t, m, statusMsg{message: "hello", style: m.messageStyle})
	if cmd == nil {
		t.Fatal("Status should schedule its own expiry")
	}
	if m.message != "hello" {
		t.Fatalf("Expected message, got %q", m.message)
	}

	m, _ = press(t, m, clearMessageMsg{})
	if m.message == "" {
		t.Error("Message should survive until it expires")
	}

	clock = clock.Add(4 * time.Second)
	m, _ = press(t, m, clearMessageMsg{})
	if m.message != "" {
		t.Errorf("Message should be cleared, got %q", m.message)
	}
}

func TestDashboardQuitKeys(t *testing.T) {
	f := setupModel(t)

	// q is typed into the editor
	m, _ := press(t, f.m, runeKey('q'))
	if got := f.dash.Form().Title; got != "q" {
		t.Errorf("'q' should be typed into the title, got %q", got)
	}

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF2})
	_, cmd = press(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("'q' should quit from the manage view")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'q' should quit from the manage view")
	}
}

func TestDashboardView(t *testing.T) {
	f := setupModel(t, createTestPost("a", "Alpha", ""))

	if got := f.m.View(); !strings.Contains(got, "Loading") {
		t.Errorf("Expected loading view before size is known, got %q", got)
	}

	m, _ := press(t, f.m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if got := m.View(); !strings.Contains(got, "Title *") || !strings.Contains(got, "F1 Upload") {
		t.Errorf("Upload view missing form or tabs:\n%s", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyF2})
	if got := m.View(); !strings.Contains(got, "Alpha") {
		t.Errorf("Manage view missing post:\n%s", got)
	}

	m, _ = press(t, m, runeKey('d'))
	if got := m.View(); !strings.Contains(got, "Delete post") {
		t.Errorf("Confirm view missing title:\n%s", got)
	}
}

func TestRenderPreview(t *testing.T) {
	p := createTestPost("a", "Alpha", "Go", "one", "two")
	p.Excerpt = "A short summary"
	p.FeaturedImage = "data:image/jpeg;base64,AAAA"

	text := renderPreview(p, false, false, 80)
	for _, want := range []string{"Alpha", "Go", "[one]", "A short summary", "Content of Alpha", "featured image"} {
		if !strings.Contains(text, want) {
			t.Errorf("Preview missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "<p>") {
		t.Error("Text preview should not contain tags")
	}

	if raw := renderPreview(p, true, false, 80); !strings.Contains(raw, "<p>Content of Alpha</p>") {
		t.Errorf("Raw preview should contain HTML:\n%s", raw)
	}
}

// Benchmark manage view rendering
func BenchmarkDashboardManageRendering(b *testing.B) {
	kv := mocks.NewMockKV()
	store := services.NewPostStore(kv)
	posts := make([]domain.Post, 50)
	for i := range posts {
		posts[i] = createTestPost(fmt.Sprintf("p%d", i), fmt.Sprintf("Post %d", i), "Go", "tag")
	}
	if err := store.SaveAll(context.Background(), posts); err != nil {
		b.Fatal(err)
	}
	dash := services.NewDashboard(store, nil, services.NewTransferService(store, nil))
	m := newDashboardModel(context.Background(), dashboardDeps{dash: dash})
	m.width, m.height, m.ready = 100, 40, true

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.viewManage()
	}
}
