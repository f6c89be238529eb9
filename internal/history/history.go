// Package history keeps the undo and redo stacks of surface snapshots.
package history

import (
	"github.com/example/sketchboard/internal/surface"
)

// Direction identifies which transition a restore belongs to.
type Direction int

const (
	Undo Direction = iota
	Redo
)

func (d Direction) String() string {
	if d == Redo {
		return "redo"
	}
	return "undo"
}

// Manager holds two snapshot stacks. The zero value is not usable; call New.
// It is not safe for concurrent use.
type Manager struct {
	undo  []surface.Snapshot
	redo  []surface.Snapshot
	limit int
}

// New returns a Manager holding at most limit entries per stack. A limit of
// zero or less means unbounded.
func New(limit int) *Manager {
	if limit < 0 {
		limit = 0
	}
	return &Manager{limit: limit}
}

// Record pushes s as a new undo entry and discards the redo stack.
func (m *Manager) Record(s surface.Snapshot) {
	m.undo = m.push(m.undo, s)
	m.redo = nil
}

// Undo moves current onto the redo stack and pops the newest undo entry.
// ok is false, and nothing changes, when there is nothing to undo.
func (m *Manager) Undo(current surface.Snapshot) (surface.Snapshot, bool) {
	if len(m.undo) == 0 {
		return surface.Snapshot{}, false
	}
	m.redo = m.push(m.redo, current)
	return pop(&m.undo), true
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current surface.Snapshot) (surface.Snapshot, bool) {
	if len(m.redo) == 0 {
		return surface.Snapshot{}, false
	}
	m.undo = m.push(m.undo, current)
	return pop(&m.redo), true
}

// Abandon takes back the entry pushed by the last transition in direction d
// and returns it. It is used when that transition's target could not be
// restored; the target itself stays consumed. ok is false when the opposite
// stack is empty.
func (m *Manager) Abandon(d Direction) (surface.Snapshot, bool) {
	stack := &m.undo
	if d == Undo {
		stack = &m.redo
	}
	if len(*stack) == 0 {
		return surface.Snapshot{}, false
	}
	return pop(stack), true
}

func (m *Manager) CanUndo() bool  { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool  { return len(m.redo) > 0 }
func (m *Manager) UndoDepth() int { return len(m.undo) }
func (m *Manager) RedoDepth() int { return len(m.redo) }
func (m *Manager) Limit() int     { return m.limit }

// Reset empties both stacks.
func (m *Manager) Reset() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager) push(stack []surface.Snapshot, s surface.Snapshot) []surface.Snapshot {
	stack = append(stack, s)
	if m.limit > 0 && len(stack) > m.limit {
		// drop oldest
		n := copy(stack, stack[len(stack)-m.limit:])
		clear(stack[n:])
		stack = stack[:n]
	}
	return stack
}

func pop(stack *[]surface.Snapshot) surface.Snapshot {
	s := *stack
	top := s[len(s)-1]
	s[len(s)-1] = surface.Snapshot{}
	*stack = s[:len(s)-1]
	return top
}
