package domain

// SelectionRecord is the handoff artifact the booking flow consumes. The JSON
// names are shared with the booking front-end.
type SelectionRecord struct {
	ID                 string        `json:"id"`
	OriginalImage      string        `json:"originalImage"`
	SelectedStyleImage string        `json:"selectedStyleImage"`
	Notes              string        `json:"notes"`
	Gender             StyleCategory `json:"gender"`
}

// Adjustment mirrors the editor sliders; each field is a signed step count.
type Adjustment struct {
	Length float64 `json:"length"`
	Volume float64 `json:"volume"`
	Color  float64 `json:"color"`
}

// IsZero reports whether the adjustment changes nothing.
func (a Adjustment) IsZero() bool {
	return a.Length == 0 && a.Volume == 0 && a.Color == 0
}
