package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/ports"
)

// DefaultAutosaveMaxAge is how long an autosave entry stays eligible for restore
const DefaultAutosaveMaxAge = 24 * time.Hour

// AutosaveEntry is the single record kept in the autosave slot
type AutosaveEntry struct {
	domain.Form
	// EditingID is the post being edited when the entry was written, if any
	EditingID string    `json:"editingId,omitempty"`
	SavedAt   time.Time `json:"timestamp"`
}

// AutosaveService persists unsaved editor content to a slot separate from the post store
type AutosaveService struct {
	kv     ports.KVStore
	maxAge time.Duration
	now    func() time.Time
}

// NewAutosaveService creates an autosave service over kv
func NewAutosaveService(kv ports.KVStore, maxAge time.Duration, now func() time.Time) *AutosaveService {
	if maxAge <= 0 {
		maxAge = DefaultAutosaveMaxAge
	}
	if now == nil {
		now = time.Now
	}
	return &AutosaveService{kv: kv, maxAge: maxAge, now: now}
}

// Save writes form to the autosave slot with the current timestamp
func (s *AutosaveService) Save(ctx context.Context, form domain.Form, editingID string) (AutosaveEntry, error) {
	entry := AutosaveEntry{Form: form, EditingID: editingID, SavedAt: s.now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return AutosaveEntry{}, fmt.Errorf("failed to encode autosave: %w", err)
	}
	if err := s.kv.Set(ctx, ports.KeyAutosave, data); err != nil {
		return AutosaveEntry{}, fmt.Errorf("failed to write autosave: %w", err)
	}
	return entry, nil
}

// Restore returns the autosaved entry when it is younger than the max age.
// The slot is cleared whether or not the entry was usable.
func (s *AutosaveService) Restore(ctx context.Context) (AutosaveEntry, bool, error) {
	data, ok, err := s.kv.Get(ctx, ports.KeyAutosave)
	if err != nil {
		return AutosaveEntry{}, false, fmt.Errorf("failed to read autosave: %w", err)
	}
	if !ok {
		return AutosaveEntry{}, false, nil
	}

	if err := s.Clear(ctx); err != nil {
		return AutosaveEntry{}, false, err
	}

	var entry AutosaveEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Warn("discarding malformed autosave", "error", err)
		return AutosaveEntry{}, false, nil
	}

	age := s.now().Sub(entry.SavedAt)
	if entry.SavedAt.IsZero() || age >= s.maxAge {
		slog.Info("discarding stale autosave", "age", age.Round(time.Minute))
		return AutosaveEntry{}, false, nil
	}
	return entry, true, nil
}

// Clear empties the autosave slot
func (s *AutosaveService) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, ports.KeyAutosave); err != nil {
		return fmt.Errorf("failed to clear autosave: %w", err)
	}
	return nil
}
