// Package diff turns unified diff text into line edits against an
// evolving buffer.
//
// Every Op index refers to the buffer as it stands after all earlier
// ops of the same plan have been applied. Inserts and deletes share one
// cursor: an insert advances it, a delete does not, because removing a
// line moves the next pending line into the same position.
package diff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedHunk is returned for a hunk header that does not parse
var ErrMalformedHunk = errors.New("malformed hunk header")

// hunkHeader matches "@@ -a,b +c,d @@..."; counts are optional as git
// omits them for single-line ranges.
var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// Kind is the type of an edit operation
type Kind int

const (
	Insert Kind = iota
	Delete
)

// String returns a human-readable kind name
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Op is a single-line edit. Text is empty for deletes.
type Op struct {
	Kind  Kind
	Index int
	Text  string
}

// InsertAt creates an insert op
func InsertAt(index int, text string) Op {
	return Op{Kind: Insert, Index: index, Text: text}
}

// DeleteAt creates a delete op
func DeleteAt(index int) Op {
	return Op{Kind: Delete, Index: index}
}

// Symbol returns "+" for inserts and "-" for deletes
func (o Op) Symbol() string {
	if o.Kind == Delete {
		return "-"
	}
	return "+"
}

// String formats the op for logs
func (o Op) String() string {
	if o.Kind == Delete {
		return fmt.Sprintf("Delete(%d)", o.Index)
	}
	return fmt.Sprintf("Insert(%d, %q)", o.Index, o.Text)
}

// Plan parses a single-file unified diff into ordered ops. Lines before
// the first hunk header are ignored.
func Plan(text string) ([]Op, error) {
	lines := splitLines(text)

	start := 0
	for start < len(lines) && !strings.HasPrefix(lines[start], "@") {
		start++
	}

	var ops []Op
	pos := 0

	for n, line := range lines[start:] {
		if line == "" {
			// Some tools strip the trailing space of empty context lines
			pos++
			continue
		}

		switch line[0] {
		case '@':
			newStart, err := parseHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", start+n+1, err)
			}
			pos = newStart - 1
		case '+':
			ops = append(ops, InsertAt(pos, line[1:]))
			pos++
		case '-':
			ops = append(ops, DeleteAt(pos))
		case '\\':
			// "\ No newline at end of file" describes the previous line
		default:
			pos++
		}
	}

	return ops, nil
}

// parseHeader returns the 1-based new-file start line of a hunk header
func parseHeader(line string) (int, error) {
	m := hunkHeader.FindStringSubmatch(line)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}

	newStart, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHunk, line)
	}

	// A pure deletion down to an empty file reports "+0,0"
	if newStart == 0 {
		newStart = 1
	}

	return newStart, nil
}

// Stats counts inserts and deletes in a plan
func Stats(ops []Op) (inserts, deletes int) {
	for _, op := range ops {
		if op.Kind == Delete {
			deletes++
		} else {
			inserts++
		}
	}
	return inserts, deletes
}

// splitLines splits on \n, \r\n and \r, dropping one trailing empty line
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")

	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
