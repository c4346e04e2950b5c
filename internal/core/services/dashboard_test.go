package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
)

func deny() ports.Confirmer {
	return ports.ConfirmFunc(func(string, string) bool { return false })
}

func TestDashboard_SaveScenario(t *testing.T) {
	ctx := context.Background()
	f := setupDashboard(t)
	d := f.dash

	d.SetForm(domain.Form{Title: "Hello", Content: "World"})
	first, err := d.Save(ctx, domain.StatusDraft)
	if err != nil {
		t.Fatalf("draft save failed: %v", err)
	}
	if f.store.Len() != 1 {
		t.Fatalf("expected 1 post, got %d", f.store.Len())
	}
	if first.Status != domain.StatusDraft {
		t.Errorf("status = %q, want draft", first.Status)
	}
	if !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v on first save", first.CreatedAt, first.UpdatedAt)
	}
	if d.CurrentID() != first.ID {
		t.Error("draft save should keep the post in edit state")
	}

	f.clock.Advance(time.Minute)
	form := d.Form()
	form.Title = "Hello v2"
	d.SetForm(form)

	second, err := d.Save(ctx, domain.StatusDraft)
	if err != nil {
		t.Fatalf("second draft save failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("id changed from %q to %q", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("createdAt changed on update")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("updatedAt not refreshed")
	}
	if f.store.Len() != 1 {
		t.Errorf("expected 1 post after update, got %d", f.store.Len())
	}

	f.clock.Advance(time.Minute)
	published, err := d.Save(ctx, domain.StatusPublished)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Status != domain.StatusPublished || published.PublishedAt == nil {
		t.Errorf("unexpected published post: %+v", published)
	}
	if !d.Form().IsZero() || d.CurrentID() != "" {
		t.Error("publish should clear the form and deselect")
	}
	stored, _ := f.store.FindByID(first.ID)
	if stored.Title != "Hello v2" || stored.Status != domain.StatusPublished {
		t.Errorf("stored post = %+v", stored)
	}
}

func TestDashboard_SaveValidation(t *testing.T) {
	tests := []struct {
		name  string
		form  domain.Form
		field string
	}{
		{"empty title", domain.Form{Content: "body"}, "title"},
		{"blank title", domain.Form{Title: "   ", Content: "body"}, "title"},
		{"empty content", domain.Form{Title: "Title"}, "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupDashboard(t, createTestPost("a", "Existing"))
			f.dash.SetForm(tt.form)

			_, err := f.dash.Save(context.Background(), domain.StatusDraft)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("expected validation error on %q, got %v", tt.field, err)
			}
			if f.store.Len() != 1 || f.kv.Writes != 0 {
				t.Errorf("store changed: len=%d writes=%d", f.store.Len(), f.kv.Writes)
			}
			if f.dash.Form() != tt.form {
				t.Error("form should be kept after a validation error")
			}
		})
	}
}

func TestDashboard_EditAndPreview(t *testing.T) {
	p := createTestPost("a", "Existing", "go", "web")
	f := setupDashboard(t, p)
	d := f.dash

	if _, ok := d.PreviewPost(); ok {
		t.Error("nothing should be selected initially")
	}

	if err := d.Preview("a"); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if d.View() != ViewPreview {
		t.Errorf("view = %q, want preview", d.View())
	}
	if got, ok := d.PreviewPost(); !ok || got.ID != "a" {
		t.Errorf("PreviewPost() = %+v, %v", got, ok)
	}

	if err := d.Edit("a"); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if d.View() != ViewUpload {
		t.Errorf("view = %q, want upload", d.View())
	}
	if d.Form().Tags != "go, web" || d.Form().Title != "Existing" {
		t.Errorf("form not populated: %+v", d.Form())
	}

	if err := d.Edit("missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("Edit(missing) error = %v", err)
	}

	d.NewPost()
	if !d.Form().IsZero() || d.CurrentID() != "" {
		t.Error("NewPost should reset the editor")
	}
}

func TestDashboard_PreviewKeepsEditTarget(t *testing.T) {
	ctx := context.Background()
	f := setupDashboard(t, createTestPost("a", "First"), createTestPost("b", "Second"))
	d := f.dash

	if err := d.Edit("a"); err != nil {
		t.Fatal(err)
	}
	d.SetForm(domain.Form{Title: "First, revised", Content: "<p>Revised</p>"})

	if err := d.Preview("b"); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if got, ok := d.PreviewPost(); !ok || got.ID != "b" {
		t.Errorf("PreviewPost() = %q, %v; want b", got.ID, ok)
	}
	if d.CurrentID() != "a" {
		t.Errorf("previewing should not change the edited post, got %q", d.CurrentID())
	}

	if err := d.Navigate(ViewUpload); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Save(ctx, domain.StatusDraft); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	a, _ := f.store.FindByID("a")
	b, _ := f.store.FindByID("b")
	if a.Title != "First, revised" {
		t.Errorf("edited post title = %q", a.Title)
	}
	if b.Title != "Second" {
		t.Errorf("previewed post was overwritten: %q", b.Title)
	}
	if f.store.Len() != 2 {
		t.Errorf("expected 2 posts, got %d", f.store.Len())
	}
}

func TestDashboard_PreviewFallsBackToEditedPost(t *testing.T) {
	ctx := context.Background()
	f := setupDashboard(t, createTestPost("a", "First"), createTestPost("b", "Second"))
	d := f.dash

	if err := d.Preview("b"); err != nil {
		t.Fatal(err)
	}
	if err := d.Edit("a"); err != nil {
		t.Fatal(err)
	}
	if got, ok := d.PreviewPost(); !ok || got.ID != "a" {
		t.Errorf("after Edit, PreviewPost() = %q, %v; want a", got.ID, ok)
	}

	if err := d.Preview("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Delete(ctx, "b", ports.Approve); err != nil {
		t.Fatal(err)
	}
	if got, ok := d.PreviewPost(); !ok || got.ID != "a" {
		t.Errorf("after deleting the previewed post, PreviewPost() = %q, %v; want a", got.ID, ok)
	}
}

func TestDashboard_Navigate(t *testing.T) {
	d := setupDashboard(t).dash

	for _, v := range Views {
		if err := d.Navigate(v); err != nil {
			t.Errorf("Navigate(%q) failed: %v", v, err)
		}
		if d.View() != v {
			t.Errorf("View() = %q, want %q", d.View(), v)
		}
	}
	if err := d.Navigate("reports"); err == nil {
		t.Error("expected error for unknown view")
	}
	if _, err := ParseView("manage"); err != nil {
		t.Errorf("ParseView(manage) failed: %v", err)
	}
}

func TestDashboard_Delete(t *testing.T) {
	ctx := context.Background()
	f := setupDashboard(t, createTestPost("a", "First"), createTestPost("b", "Second"))
	d := f.dash

	removed, err := d.Delete(ctx, "a", deny())
	if err != nil || removed {
		t.Errorf("declined delete = %v, %v", removed, err)
	}
	if f.store.Len() != 2 {
		t.Error("declined delete should not mutate the store")
	}

	var prompted string
	confirm := ports.ConfirmFunc(func(title, message string) bool {
		prompted = message
		return true
	})

	if err := d.Edit("a"); err != nil {
		t.Fatal(err)
	}
	removed, err = d.Delete(ctx, "a", confirm)
	if err != nil || !removed {
		t.Fatalf("confirmed delete = %v, %v", removed, err)
	}
	if prompted == "" {
		t.Error("confirmer was not consulted")
	}
	if d.CurrentID() != "" || !d.Form().IsZero() {
		t.Error("deleting the edited post should clear the editor")
	}

	removed, err = d.Delete(ctx, "missing", ports.Approve)
	if err != nil || removed {
		t.Errorf("Delete(missing) = %v, %v; want no-op", removed, err)
	}
}

func TestDashboard_ClearAll(t *testing.T) {
	ctx := context.Background()
	f := setupDashboard(t, createTestPost("a", "First"), createTestPost("b", "Second"))

	if ok, _ := f.dash.ClearAll(ctx, deny()); ok || f.store.Len() != 2 {
		t.Error("declined clear should keep posts")
	}

	_, message := f.dash.ClearAllPrompt()
	if message != "Are you sure you want to delete all 2 blogs? This action cannot be undone." {
		t.Errorf("unexpected prompt: %q", message)
	}

	ok, err := f.dash.ClearAll(ctx, ports.Approve)
	if err != nil || !ok {
		t.Fatalf("ClearAll = %v, %v", ok, err)
	}
	if f.store.Len() != 0 {
		t.Errorf("expected empty store, got %d", f.store.Len())
	}
}

func TestDashboard_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	f := setupDashboard(t, createTestPost("a", "First"))

	p, err := f.dash.ToggleStatus(ctx, "a")
	if err != nil {
		t.Fatalf("ToggleStatus failed: %v", err)
	}
	if !p.IsPublished() || p.PublishedAt == nil {
		t.Errorf("expected published post, got %+v", p)
	}
	firstPublished := *p.PublishedAt

	f.clock.Advance(time.Hour)
	p, _ = f.dash.ToggleStatus(ctx, "a")
	if p.IsPublished() {
		t.Error("second toggle should return to draft")
	}

	f.clock.Advance(time.Hour)
	p, _ = f.dash.ToggleStatus(ctx, "a")
	if !p.PublishedAt.Equal(firstPublished) {
		t.Error("publishedAt should be kept from the first publish")
	}

	if _, err := f.dash.ToggleStatus(ctx, "missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("ToggleStatus(missing) error = %v", err)
	}
}

func TestDashboard_AutosaveTick(t *testing.T) {
	tests := []struct {
		name        string
		view        View
		form        domain.Form
		expectSaved bool
	}{
		{"upload view with title", ViewUpload, domain.Form{Title: "t"}, true},
		{"upload view with excerpt only", ViewUpload, domain.Form{Excerpt: "e"}, true},
		{"upload view with empty form", ViewUpload, domain.Form{Category: "c"}, false},
		{"manage view", ViewManage, domain.Form{Title: "t"}, false},
		{"settings view", ViewSettings, domain.Form{Content: "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupDashboard(t)
			f.dash.SetForm(tt.form)
			if err := f.dash.Navigate(tt.view); err != nil {
				t.Fatal(err)
			}

			saved, err := f.dash.AutosaveTick(context.Background())
			if err != nil {
				t.Fatalf("AutosaveTick failed: %v", err)
			}
			if saved != tt.expectSaved {
				t.Errorf("saved = %v, want %v", saved, tt.expectSaved)
			}
			if f.kv.Has(ports.KeyAutosave) != tt.expectSaved {
				t.Errorf("autosave slot present = %v", f.kv.Has(ports.KeyAutosave))
			}
			if f.kv.Has(ports.KeyPosts) && f.store.Len() != 0 {
				t.Error("autosave must not touch the post store")
			}
		})
	}
}

func TestDashboard_RestoreAutosave(t *testing.T) {
	ctx := context.Background()

	t.Run("recent entry populates form", func(t *testing.T) {
		f := setupDashboard(t, createTestPost("a", "Existing"))
		if err := f.dash.Edit("a"); err != nil {
			t.Fatal(err)
		}
		f.dash.SetForm(domain.Form{Title: "Unsaved", Content: "text"})
		if _, err := f.dash.AutosaveTick(ctx); err != nil {
			t.Fatal(err)
		}

		f.clock.Advance(2 * time.Hour)
		restarted := NewDashboard(f.store, NewAutosaveService(f.kv, 0, f.clock.Now), NewTransferService(f.store, f.clock.Now))

		ok, err := restarted.RestoreAutosave(ctx)
		if err != nil || !ok {
			t.Fatalf("RestoreAutosave = %v, %v", ok, err)
		}
		if restarted.Form().Title != "Unsaved" {
			t.Errorf("form = %+v", restarted.Form())
		}
		if restarted.CurrentID() != "a" {
			t.Errorf("editing id = %q, want a", restarted.CurrentID())
		}
		if f.kv.Has(ports.KeyAutosave) {
			t.Error("slot should be cleared")
		}
	})

	t.Run("25 hour old entry discarded", func(t *testing.T) {
		f := setupDashboard(t)
		f.dash.SetForm(domain.Form{Title: "Old"})
		if _, err := f.dash.AutosaveTick(ctx); err != nil {
			t.Fatal(err)
		}

		f.clock.Advance(25 * time.Hour)
		restarted := NewDashboard(f.store, NewAutosaveService(f.kv, 0, f.clock.Now), NewTransferService(f.store, f.clock.Now))

		ok, err := restarted.RestoreAutosave(ctx)
		if err != nil || ok {
			t.Fatalf("RestoreAutosave = %v, %v; want false, nil", ok, err)
		}
		if !restarted.Form().IsZero() {
			t.Errorf("stale autosave populated the form: %+v", restarted.Form())
		}
		if f.kv.Has(ports.KeyAutosave) {
			t.Error("stale slot should be cleared")
		}
	})
}

func TestDashboard_SaveClearsAutosave(t *testing.T) {
	ctx := context.Background()
	f := setupDashboard(t)
	f.dash.SetForm(domain.Form{Title: "T", Content: "C"})

	if _, err := f.dash.AutosaveTick(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := f.dash.Save(ctx, domain.StatusDraft); err != nil {
		t.Fatal(err)
	}
	if f.kv.Has(ports.KeyAutosave) {
		t.Error("a successful save should clear the autosave slot")
	}
}

func TestDashboard_VisibleUsesFilter(t *testing.T) {
	p1 := createTestPost("1", "Go tips")
	p2 := createTestPost("2", "Gardening")
	p2.Category = "Life"
	f := setupDashboard(t, p1, p2)

	f.dash.SetFilter(Query{Search: "tips"})
	if got := ids(f.dash.Visible()); len(got) != 1 || got[0] != "1" {
		t.Errorf("Visible() = %v", got)
	}

	f.dash.SetFilter(Query{Category: "Life"})
	if got := ids(f.dash.Visible()); len(got) != 1 || got[0] != "2" {
		t.Errorf("Visible() = %v", got)
	}
}

func TestDashboard_ImportFailureKeepsStore(t *testing.T) {
	f := setupDashboard(t, createTestPost("a", "First"))

	if _, err := f.dash.Import(context.Background(), bytes.NewBufferString(`{"items": []}`)); err == nil {
		t.Fatal("expected import error")
	}
	if f.store.Len() != 1 {
		t.Error("store changed after failed import")
	}
}
