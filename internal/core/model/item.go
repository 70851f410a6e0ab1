package model

// ChecklistItem is a single entry of the compliance checklist. The checklist
// is ordered and read-only for the duration of a run; identity is the ID.
type ChecklistItem struct {
	ID          string `json:"id"`
	Section     string `json:"section,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
