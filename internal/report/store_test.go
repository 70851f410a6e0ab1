package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/dossier/internal/core/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "runs.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sections := []model.Section{
		{ItemID: "1a", Title: "Identification", Draft: "draft one"},
		{ItemID: "2a", Title: "Background", Draft: "draft two", BestEffort: true},
		{ItemID: "3a", Title: "Trial design", Draft: "stub", Degraded: true, Reason: "synthesis failed"},
	}

	assert.NoError(t, store.SaveRun(ctx, "run-1", sections))

	loaded, err := store.LoadSections(ctx, "run-1")
	assert.NoError(t, err)
	assert.Equal(t, sections, loaded)
}

func TestLoadSectionsUnknownRun(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadSections(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveRunDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sections := []model.Section{{ItemID: "1a", Title: "t", Draft: "d"}}

	assert.NoError(t, store.SaveRun(ctx, "run-1", sections))
	assert.Error(t, store.SaveRun(ctx, "run-1", sections))
}

func TestRunsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.NoError(t, store.SaveRun(ctx, "run-1", []model.Section{{ItemID: "1a", Title: "t", Draft: "first"}}))
	assert.NoError(t, store.SaveRun(ctx, "run-2", []model.Section{{ItemID: "1a", Title: "t", Draft: "second"}}))

	loaded, err := store.LoadSections(ctx, "run-2")
	assert.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Equal(t, "second", loaded[0].Draft)
}
