package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
)

// View is one of the dashboard screens
type View string

const (
	ViewUpload   View = "upload"
	ViewManage   View = "manage"
	ViewPreview  View = "preview"
	ViewSettings View = "settings"
)

// Views lists the dashboard screens in navigation order
var Views = []View{ViewUpload, ViewManage, ViewPreview, ViewSettings}

// PreviewPlaceholder is shown when nothing is selected for preview
const PreviewPlaceholder = "Select a blog to preview or create a new one."

// ParseView converts a view name into a View
func ParseView(name string) (View, error) {
	v := View(name)
	if !slices.Contains(Views, v) {
		return "", fmt.Errorf("unknown view %q", name)
	}
	return v, nil
}

// Dashboard is the application context behind every dashboard front end.
// It owns the current view, the editor form, the selected post and the list filter.
// It is not safe for concurrent use; front ends call it from a single event loop.
type Dashboard struct {
	store    *PostStore
	autosave *AutosaveService
	transfer *TransferService
	now      func() time.Time
	newID    func() string

	view      View
	form      domain.Form
	currentID string
	previewID string
	query     Query
}

// DashboardOption configures a Dashboard
type DashboardOption func(*Dashboard)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

// WithIDGenerator overrides how new post ids are generated
func WithIDGenerator(newID func() string) DashboardOption {
	return func(d *Dashboard) { d.newID = newID }
}

// NewDashboard creates the dashboard context. The store should already be loaded.
func NewDashboard(store *PostStore, autosave *AutosaveService, transfer *TransferService, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		store:    store,
		autosave: autosave,
		transfer: transfer,
		now:      time.Now,
		newID:    uuid.NewString,
		view:     ViewUpload,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ---------------------------------------------------------------------
// Navigation and selection
// ---------------------------------------------------------------------

// View returns the active view
func (d *Dashboard) View() View { return d.view }

// Navigate switches to v
func (d *Dashboard) Navigate(v View) error {
	if !slices.Contains(Views, v) {
		return fmt.Errorf("unknown view %q", v)
	}
	d.view = v
	return nil
}

// Form returns the current editor content
func (d *Dashboard) Form() domain.Form { return d.form }

// SetForm replaces the editor content
func (d *Dashboard) SetForm(f domain.Form) { d.form = f }

// Current returns the selected post, if any
func (d *Dashboard) Current() (domain.Post, bool) {
	if d.currentID == "" {
		return domain.Post{}, false
	}
	return d.store.FindByID(d.currentID)
}

// CurrentID returns the id of the selected post, or ""
func (d *Dashboard) CurrentID() string { return d.currentID }

// NewPost clears the editor and selection and opens the upload view
func (d *Dashboard) NewPost() {
	d.resetEditor()
	d.view = ViewUpload
}

// Edit loads post id into the editor and opens the upload view
func (d *Dashboard) Edit(id string) error {
	p, ok := d.store.FindByID(id)
	if !ok {
		return fmt.Errorf("edit %s: %w", id, domain.ErrPostNotFound)
	}
	d.currentID = p.ID
	d.previewID = ""
	d.form = domain.FormFromPost(p)
	d.view = ViewUpload
	return nil
}

// Preview selects post id for reading and opens the preview view.
// The editor target is left alone, so a later save still goes to the edited post.
func (d *Dashboard) Preview(id string) error {
	p, ok := d.store.FindByID(id)
	if !ok {
		return fmt.Errorf("preview %s: %w", id, domain.ErrPostNotFound)
	}
	d.previewID = p.ID
	d.view = ViewPreview
	return nil
}

// PreviewPost returns the post to render in the preview view: the previewed
// post, else the one being edited. ok is false when PreviewPlaceholder should be shown.
func (d *Dashboard) PreviewPost() (domain.Post, bool) {
	if d.previewID != "" {
		if p, ok := d.store.FindByID(d.previewID); ok {
			return p, true
		}
	}
	return d.Current()
}

// SetFilter sets the manage-view search term and category
func (d *Dashboard) SetFilter(q Query) { d.query = q }

// Filter returns the manage-view filter
func (d *Dashboard) Filter() Query { return d.query }

// Visible returns the posts matching the manage-view filter
func (d *Dashboard) Visible() []domain.Post {
	var out []domain.Post
	for p := range d.store.Filter(d.query) {
		out = append(out, p)
	}
	return out
}

// Categories returns the categories in use
func (d *Dashboard) Categories() []string { return d.store.Categories() }

// Posts returns every stored post
func (d *Dashboard) Posts() []domain.Post { return d.store.All() }

// Reload re-reads the store from storage, dropping a selection that no longer exists
func (d *Dashboard) Reload(ctx context.Context) {
	d.store.Load(ctx)
	if _, ok := d.Current(); !ok {
		d.currentID = ""
	}
	if _, ok := d.store.FindByID(d.previewID); !ok {
		d.previewID = ""
	}
}

// ---------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------

// Save validates the form and upserts it with the given status.
// Publishing clears the editor; saving a draft keeps the post selected for editing.
func (d *Dashboard) Save(ctx context.Context, status domain.Status) (domain.Post, error) {
	if !status.Valid() {
		return domain.Post{}, fmt.Errorf("unknown status %q", status)
	}

	post := d.form.Draft()
	if err := domain.ValidateFields(post.Title, post.Content); err != nil {
		return domain.Post{}, err
	}

	now := d.now()
	post.Status = status
	post.CreatedAt = now
	if existing, ok := d.Current(); ok {
		post.ID = existing.ID
		post.CreatedAt = existing.CreatedAt
		post.PublishedAt = existing.PublishedAt
	} else if d.currentID != "" {
		post.ID = d.currentID
	} else {
		post.ID = d.newID()
	}

	post.UpdatedAt = now
	if post.UpdatedAt.Before(post.CreatedAt) {
		post.UpdatedAt = post.CreatedAt
	}
	if status == domain.StatusPublished && post.PublishedAt == nil {
		published := post.UpdatedAt
		post.PublishedAt = &published
	}

	if err := d.store.Upsert(ctx, post); err != nil {
		return domain.Post{}, err
	}
	if d.autosave != nil {
		if err := d.autosave.Clear(ctx); err != nil {
			slog.Warn("clearing autosave after save failed", "error", err)
		}
	}

	if status == domain.StatusPublished {
		d.resetEditor()
	} else {
		d.currentID = post.ID
		d.form = domain.FormFromPost(post)
	}
	return post, nil
}

// DeletePrompt returns the confirmation text for deleting id
func (d *Dashboard) DeletePrompt(id string) (title, message string, ok bool) {
	p, found := d.store.FindByID(id)
	if !found {
		return "", "", false
	}
	return "Delete post", fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", p.Title), true
}

// Delete removes post id after confirm approves. Unknown ids are a no-op.
func (d *Dashboard) Delete(ctx context.Context, id string, confirm ports.Confirmer) (bool, error) {
	title, message, ok := d.DeletePrompt(id)
	if !ok {
		return false, nil
	}
	if !confirm.Confirm(title, message) {
		return false, nil
	}

	removed, err := d.store.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if removed && d.previewID == id {
		d.previewID = ""
	}
	if removed && d.currentID == id {
		d.resetEditor()
	}
	return removed, nil
}

// ClearAllPrompt returns the confirmation text for removing every post
func (d *Dashboard) ClearAllPrompt() (title, message string) {
	return "Clear all posts", fmt.Sprintf("Are you sure you want to delete all %d blogs? This action cannot be undone.", d.store.Len())
}

// ClearAll removes every post after confirm approves
func (d *Dashboard) ClearAll(ctx context.Context, confirm ports.Confirmer) (bool, error) {
	title, message := d.ClearAllPrompt()
	if !confirm.Confirm(title, message) {
		return false, nil
	}
	if err := d.store.Clear(ctx); err != nil {
		return false, err
	}
	d.resetEditor()
	return true, nil
}

// ToggleStatus flips a post between draft and published
func (d *Dashboard) ToggleStatus(ctx context.Context, id string) (domain.Post, error) {
	p, ok := d.store.FindByID(id)
	if !ok {
		return domain.Post{}, fmt.Errorf("toggle %s: %w", id, domain.ErrPostNotFound)
	}

	now := d.now()
	if p.IsPublished() {
		p.Status = domain.StatusDraft
	} else {
		p.Status = domain.StatusPublished
		if p.PublishedAt == nil {
			p.PublishedAt = &now
		}
	}
	if now.After(p.UpdatedAt) {
		p.UpdatedAt = now
	}

	if err := d.store.Upsert(ctx, p); err != nil {
		return domain.Post{}, err
	}
	if d.currentID == id {
		d.form = domain.FormFromPost(p)
	}
	return p, nil
}

// ---------------------------------------------------------------------
// Autosave
// ---------------------------------------------------------------------

// AutosaveTick runs on every autosave interval.
// It writes the form only while the upload view is active and the form has content.
func (d *Dashboard) AutosaveTick(ctx context.Context) (bool, error) {
	if d.view != ViewUpload {
		return false, nil
	}
	return d.FlushAutosave(ctx)
}

// FlushAutosave writes the form to the autosave slot when it has unsaved content,
// regardless of the active view. Front ends call it before exiting.
func (d *Dashboard) FlushAutosave(ctx context.Context) (bool, error) {
	if d.autosave == nil || !d.form.HasUnsavedContent() {
		return false, nil
	}
	if _, err := d.autosave.Save(ctx, d.form, d.currentID); err != nil {
		return false, err
	}
	return true, nil
}

// RestoreAutosave loads a recent autosave entry into the form.
// The slot is cleared whether or not the entry was recent enough.
func (d *Dashboard) RestoreAutosave(ctx context.Context) (bool, error) {
	if d.autosave == nil {
		return false, nil
	}
	entry, ok, err := d.autosave.Restore(ctx)
	if err != nil || !ok {
		return false, err
	}

	d.form = entry.Form
	d.currentID = ""
	if entry.EditingID != "" {
		if _, found := d.store.FindByID(entry.EditingID); found {
			d.currentID = entry.EditingID
		}
	}
	d.view = ViewUpload
	return true, nil
}

// ---------------------------------------------------------------------
// Import / export
// ---------------------------------------------------------------------

// Export writes the whole store to w
func (d *Dashboard) Export(w io.Writer) (*ExportDocument, error) {
	return d.transfer.Export(w)
}

// ExportFilename returns the default export file name for the current time
func (d *Dashboard) ExportFilename() string {
	return ExportFilename(d.now())
}

// Import replaces the store with the posts in r; on error the store is untouched
func (d *Dashboard) Import(ctx context.Context, r io.Reader) (int, error) {
	n, err := d.transfer.Import(ctx, r)
	if err != nil {
		return 0, err
	}
	if _, ok := d.Current(); !ok {
		d.currentID = ""
	}
	return n, nil
}

func (d *Dashboard) resetEditor() {
	d.form = domain.Form{}
	d.currentID = ""
}
