// Package source holds the in-memory line buffer that a commit's diff is
// replayed against, one line edit at a time.
package source

import (
	"errors"
	"fmt"
	"slices"

	"github.com/TimelordUK/gitvid/internal/diff"
)

// ErrIndexOutOfRange means an op does not fit the current buffer. A
// well-formed diff against the right baseline never produces one, so
// callers treat it as fatal.
var ErrIndexOutOfRange = errors.New("edit index out of range")

// Buffer is the mutable file snapshot for one commit transition
type Buffer struct {
	lines []string
}

// NewBuffer creates a buffer seeded with a copy of lines
func NewBuffer(lines []string) *Buffer {
	b := &Buffer{}
	b.Seed(lines)
	return b
}

// Seed replaces the whole buffer with a copy of lines
func (b *Buffer) Seed(lines []string) {
	b.lines = slices.Clone(lines)
	if b.lines == nil {
		b.lines = []string{}
	}
}

// Apply performs one edit and returns the buffer's new state. The
// returned slice is owned by the buffer and is only valid until the
// next call.
func (b *Buffer) Apply(op diff.Op) ([]string, error) {
	switch op.Kind {
	case diff.Insert:
		// Inserting at len appends
		if op.Index < 0 || op.Index > len(b.lines) {
			return nil, b.rangeError(op)
		}
		b.lines = slices.Insert(b.lines, op.Index, op.Text)
	case diff.Delete:
		if op.Index < 0 || op.Index >= len(b.lines) {
			return nil, b.rangeError(op)
		}
		b.lines = slices.Delete(b.lines, op.Index, op.Index+1)
	default:
		return nil, fmt.Errorf("unknown op kind %s", op.Kind)
	}

	return b.lines, nil
}

func (b *Buffer) rangeError(op diff.Op) error {
	return fmt.Errorf("%w: %s on %d lines", ErrIndexOutOfRange, op, len(b.lines))
}

// Lines returns the current lines, owned by the buffer
func (b *Buffer) Lines() []string {
	return b.lines
}

// LineCount returns total number of lines
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// GetLines returns a range of lines
func (b *Buffer) GetLines(start, count int) ([]*Line, error) {
	if start < 0 {
		start = 0
	}
	if start >= len(b.lines) {
		return nil, nil
	}
	if start+count > len(b.lines) {
		count = len(b.lines) - start
	}

	lines := make([]*Line, count)
	for i := 0; i < count; i++ {
		lines[i] = &Line{Content: []byte(b.lines[start+i]), Index: start + i}
	}
	return lines, nil
}

var _ LineProvider = (*Buffer)(nil)
