package checklist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agenthands/dossier/internal/core/model"
)

type document struct {
	Items []model.ChecklistItem `json:"items"`
}

// Load reads the ordered checklist from a JSON file. Failure here is the
// only run-level fatal condition: without a checklist there is no report.
func Load(path string) ([]model.ChecklistItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checklist '%s': %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse checklist: %w", err)
	}

	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("checklist '%s' contains no items", path)
	}

	seen := make(map[string]struct{}, len(doc.Items))
	for _, item := range doc.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("checklist '%s' contains an item with no id", path)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("checklist '%s' contains duplicate item id %q", path, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	return doc.Items, nil
}
