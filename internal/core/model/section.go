package model

// Section is one drafted report section, in checklist order in the final
// report.
type Section struct {
	ItemID     string `json:"item_id"`
	Title      string `json:"title"`
	Draft      string `json:"draft"`
	BestEffort bool   `json:"best_effort"` // hop bound reached before full sufficiency
	Degraded   bool   `json:"degraded"`    // stubbed after a component failure
	Reason     string `json:"reason,omitempty"`
}

// ProgressEvent is emitted after each checklist item completes. The final
// event of a run has Done set, with Err filled in if the run was cut short.
type ProgressEvent struct {
	ProcessedCount int    `json:"processed_count"`
	TotalCount     int    `json:"total_count"`
	CurrentItemID  string `json:"current_item_id,omitempty"`
	Done           bool   `json:"done,omitempty"`
	Err            string `json:"error,omitempty"`
}
