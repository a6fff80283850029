package models

// EditState is the editing workflow state derived from the current and preview slots.
type EditState int

const (
	Empty EditState = iota
	HasCurrent
	HasCurrentAndPreview
)

func (s EditState) String() string {
	switch s {
	case Empty:
		return "empty"
	case HasCurrent:
		return "has_current"
	case HasCurrentAndPreview:
		return "has_current_and_preview"
	default:
		return "unknown"
	}
}

// StateOf derives the workflow state from the two slots.
func StateOf(current, preview *ImageData) EditState {
	switch {
	case current == nil:
		return Empty
	case preview == nil:
		return HasCurrent
	default:
		return HasCurrentAndPreview
	}
}
