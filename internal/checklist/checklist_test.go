package checklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeChecklist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checklist.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeChecklist(t, `{
		"items": [
			{"id": "1a", "section": "Title", "title": "Identification", "description": "..."},
			{"id": "2a", "section": "Introduction", "title": "Background", "description": "..."}
		]
	}`)

	items, err := Load(path)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "1a", items[0].ID)
	assert.Equal(t, "Background", items[1].Title)
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeChecklist(t, `{"items": [{"id": "z"}, {"id": "a"}, {"id": "m"}]}`)

	items, err := Load(path)

	assert.NoError(t, err)
	assert.Equal(t, "z", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "m", items[2].ID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeChecklist(t, `{"items": [`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyChecklist(t *testing.T) {
	path := writeChecklist(t, `{"items": []}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingID(t *testing.T) {
	path := writeChecklist(t, `{"items": [{"title": "no id"}]}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDuplicateID(t *testing.T) {
	path := writeChecklist(t, `{"items": [{"id": "1a"}, {"id": "1a"}]}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "duplicate")
}
