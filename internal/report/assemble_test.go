package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/dossier/internal/core/model"
)

func TestAssemble(t *testing.T) {
	sections := []model.Section{
		{ItemID: "1a", Title: "Identification", Draft: "The title identifies the trial."},
		{ItemID: "2a", Title: "Background", Draft: "Rationale is described.", BestEffort: true},
		{ItemID: "3a", Title: "Trial design", Draft: "Insufficient evidence for item 3a (Trial design).", Degraded: true, Reason: "synthesis failed"},
	}

	doc := Assemble("Compliance Report", sections)

	assert.True(t, strings.HasPrefix(doc, "Compliance Report\n=================\n"))
	assert.Contains(t, doc, "1a. Identification\nThe title identifies the trial.")
	assert.Contains(t, doc, "[Reduced confidence")
	assert.Contains(t, doc, "[Section degraded: synthesis failed]")

	// Sections appear in checklist order.
	assert.Less(t, strings.Index(doc, "1a."), strings.Index(doc, "2a."))
	assert.Less(t, strings.Index(doc, "2a."), strings.Index(doc, "3a."))
}

func TestAssembleNoSections(t *testing.T) {
	doc := Assemble("Empty", nil)
	assert.Equal(t, "Empty\n=====\n\n", doc)
}
