package mention

import "strings"

// DisplayMode controls how much of a mention's text is shown.
type DisplayMode uint8

const (
	DisplayFull DisplayMode = iota
	DisplayPartial
	// DisplayNone marks a mention whose text must be removed from the buffer.
	DisplayNone
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayFull:
		return "full"
	case DisplayPartial:
		return "partial"
	case DisplayNone:
		return "none"
	default:
		return "unknown"
	}
}

// DeleteStyle controls how a mention shrinks under repeated backspaces.
type DeleteStyle uint8

const (
	// FullDelete removes the whole mention on the first acting backspace.
	FullDelete DeleteStyle = iota
	// PartialNameDelete first shrinks to the partial text, then removes it.
	PartialNameDelete
)

func (s DeleteStyle) String() string {
	switch s {
	case FullDelete:
		return "full-delete"
	case PartialNameDelete:
		return "partial-name-delete"
	default:
		return "unknown"
	}
}

// Mentionable is an immutable entity supplied by the host.
type Mentionable interface {
	ID() int
	PrimaryText() string
	DeleteStyle() DeleteStyle
	DisplayText(mode DisplayMode) string
}

// NextMode returns the display mode after an acting backspace.
func NextMode(style DeleteStyle, mode DisplayMode) DisplayMode {
	if style == PartialNameDelete && mode == DisplayFull {
		return DisplayPartial
	}
	return DisplayNone
}

// Entity is a ready-made Mentionable.
//
// Partial defaults to the first word of Full when empty.
type Entity struct {
	EntityID int
	Full     string
	Partial  string
	Style    DeleteStyle
	// Kind is reported as the suggestion tag (for example "person" or "city").
	Kind string
}

func (e Entity) ID() int                  { return e.EntityID }
func (e Entity) PrimaryText() string      { return e.Full }
func (e Entity) DeleteStyle() DeleteStyle { return e.Style }
func (e Entity) Tag() string              { return e.Kind }

func (e Entity) DisplayText(mode DisplayMode) string {
	switch mode {
	case DisplayFull:
		return e.Full
	case DisplayPartial:
		if e.Partial != "" {
			return e.Partial
		}
		if i := strings.IndexByte(e.Full, ' '); i > 0 {
			return e.Full[:i]
		}
		return e.Full
	default:
		return ""
	}
}

// Annotation binds a Mentionable to a buffer range. Identity is the pointer:
// the buffer may move or rewrite the range without replacing the Annotation.
type Annotation struct {
	Mention  Mentionable
	Mode     DisplayMode
	Selected bool
}

// New returns a fresh, unselected annotation in DisplayFull mode.
func New(m Mentionable) *Annotation {
	return &Annotation{Mention: m, Mode: DisplayFull}
}

// DisplayText returns the text the annotation must cover in its current mode.
func (a *Annotation) DisplayText() string {
	if a == nil || a.Mention == nil {
		return ""
	}
	if a.Mode == DisplayNone {
		return ""
	}
	return a.Mention.DisplayText(a.Mode)
}

// Advance moves the annotation one step through the deletion state machine.
func (a *Annotation) Advance() {
	if a == nil || a.Mention == nil {
		return
	}
	a.Mode = NextMode(a.Mention.DeleteStyle(), a.Mode)
}
