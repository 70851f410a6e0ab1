package report

import (
	"fmt"
	"strings"

	"github.com/agenthands/dossier/internal/core/model"
)

// Assemble renders the completed sections as a plain-text document, one
// heading per checklist item in checklist order. Richer markup rendering is
// left to external tooling.
func Assemble(title string, sections []model.Section) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	for _, section := range sections {
		fmt.Fprintf(&sb, "%s. %s\n", section.ItemID, section.Title)
		if section.BestEffort {
			sb.WriteString("[Reduced confidence: the evidence gathered for this item may be incomplete.]\n")
		}
		if section.Degraded && section.Reason != "" {
			fmt.Fprintf(&sb, "[Section degraded: %s]\n", section.Reason)
		}
		sb.WriteString(section.Draft)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
