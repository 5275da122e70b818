package suggestions

// VisibilitySink shows or hides the suggestion list.
type VisibilitySink interface {
	DisplaySuggestions(display bool)
	IsDisplayingSuggestions() bool
}

// VisibilityState is a VisibilitySink that remembers the last signal.
// OnChange, when set, runs only when visibility flips.
type VisibilityState struct {
	OnChange func(display bool)

	display bool
}

func (v *VisibilityState) DisplaySuggestions(display bool) {
	if v.display == display {
		return
	}
	v.display = display
	if v.OnChange != nil {
		v.OnChange(display)
	}
}

func (v *VisibilityState) IsDisplayingSuggestions() bool { return v.display }
