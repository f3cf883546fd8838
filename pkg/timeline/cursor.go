package timeline

// TooltipPayload is what the renderer shows in the fixed tooltip
type TooltipPayload struct {
	Present bool    `json:"present"`
	Label   string  `json:"label,omitempty"`
	Value   float64 `json:"value"`
}

// ResetCursor points the tooltip at the most recent point of the series, or
// returns nil when there is nothing to point at.
func ResetCursor(filtered Series) *int {
	if len(filtered) == 0 {
		return nil
	}
	idx := len(filtered) - 1
	return &idx
}

// TooltipAt resolves the cursor against the series. A nil or out of range
// cursor yields an empty payload.
func TooltipAt(filtered Series, cursor *int) TooltipPayload {
	if cursor == nil || *cursor < 0 || *cursor >= len(filtered) {
		return TooltipPayload{}
	}
	p := filtered[*cursor]
	return TooltipPayload{Present: true, Label: p.Label, Value: p.Value}
}
