package source

// Line represents a single buffer line with its position
type Line struct {
	Content []byte
	Index   int // 0-based position in the buffer at read time
}

// LineProvider is the read-only view of a line sequence
// Pipeline observers only interact with this interface
type LineProvider interface {
	// LineCount returns total number of lines
	LineCount() int

	// GetLines returns a range of lines efficiently
	GetLines(start, count int) ([]*Line, error)
}
