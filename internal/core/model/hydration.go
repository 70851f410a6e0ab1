package model

// HydrationNote carries the definitional context fetched for one unfamiliar
// term. A failed lookup yields a note with an empty definition and Err set,
// never an aborted item.
type HydrationNote struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	SourceURL  string `json:"source_url,omitempty"`
	Err        string `json:"error,omitempty"`
}
