package countdown

import "go.uber.org/atomic"

// MessageSlot is a caller-owned string cell. The controller writes the
// initial and extension messages into it and reads it back to detect
// whether anyone else has written in the meantime.
type MessageSlot interface {
	Load() string
	Store(s string)
	// CompareAndSwap stores next only if the current value equals old.
	CompareAndSwap(old, next string) bool
}

// Message is the default MessageSlot, safe for concurrent use.
type Message struct {
	v *atomic.String
}

// NewMessage returns a slot holding s.
func NewMessage(s string) *Message {
	return &Message{v: atomic.NewString(s)}
}

func (m *Message) Load() string { return m.v.Load() }

func (m *Message) Store(s string) { m.v.Store(s) }

func (m *Message) CompareAndSwap(old, next string) bool {
	return m.v.CompareAndSwap(old, next)
}
