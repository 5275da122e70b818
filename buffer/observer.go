package buffer

// Observer is notified around every effective edit, including edits made by
// other observers. Undo and Redo restore snapshots without notifying.
type Observer interface {
	// BeforeChange runs before r is replaced by inserted clusters. The cursor
	// and annotations still describe the old text.
	BeforeChange(b *Buffer, r Range, inserted int)
	// AfterChange runs once the edit is applied and every tracked range has
	// moved.
	AfterChange(b *Buffer, e AppliedEdit)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Before func(b *Buffer, r Range, inserted int)
	After  func(b *Buffer, e AppliedEdit)
}

func (f ObserverFuncs) BeforeChange(b *Buffer, r Range, inserted int) {
	if f.Before != nil {
		f.Before(b, r, inserted)
	}
}

func (f ObserverFuncs) AfterChange(b *Buffer, e AppliedEdit) {
	if f.After != nil {
		f.After(b, e)
	}
}

// Observe registers o. Observers run in registration order.
func (b *Buffer) Observe(o Observer) {
	if o == nil {
		return
	}
	b.observers = append(b.observers, o)
}

func (b *Buffer) notifyBefore(r Range, inserted int) {
	for _, o := range b.observers {
		o.BeforeChange(b, r, inserted)
	}
}

func (b *Buffer) notifyAfter(e AppliedEdit) {
	for _, o := range b.observers {
		o.AfterChange(b, e)
	}
}
