// Package palette maps hierarchical token classifications to colors.
//
// A Table resolves a Classification by exact match first and then by
// walking its ancestors from the most specific to the most general. The
// result of every walk is cached under the original key, so a
// classification is resolved at most once per run and always to the
// same color.
package palette

import "strings"

// Reserved table keys for the two seeded entries
const (
	KeyForeground = "fg"
	KeyBackground = "bg"
)

// Classification is a token type with its ancestors, most general first,
// e.g. ["Comment", "CommentSingle"]. The last element identifies it.
type Classification []string

// Key returns the most specific name
func (c Classification) Key() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

// String joins the chain with dots
func (c Classification) String() string {
	return strings.Join(c, ".")
}

// Table stores resolved colors keyed by classification name.
// It is not safe for concurrent use.
type Table struct {
	colors map[string]RGB

	// walks counts ancestor walks, one per cache miss
	walks int
}

// NewTable creates a table seeded with black on white
func NewTable() *Table {
	return &Table{
		colors: map[string]RGB{
			KeyForeground: {0, 0, 0},
			KeyBackground: {255, 255, 255},
		},
	}
}

// Foreground returns the default text color
func (t *Table) Foreground() RGB {
	return t.colors[KeyForeground]
}

// Background returns the frame background color
func (t *Table) Background() RGB {
	return t.colors[KeyBackground]
}

// Set stores a color unconditionally
func (t *Table) Set(key string, c RGB) {
	t.colors[key] = c
}

// SetSpec parses a textual color spec and stores it
func (t *Table) SetSpec(key, spec string) error {
	c, err := Parse(spec)
	if err != nil {
		return err
	}
	t.colors[key] = c
	return nil
}

// Lookup returns the stored color for key without inheritance
func (t *Table) Lookup(key string) (RGB, bool) {
	c, ok := t.colors[key]
	return c, ok
}

// Len returns the number of stored entries, seeded ones included
func (t *Table) Len() int {
	return len(t.colors)
}

// Resolve returns the color for a classification. Unknown
// classifications inherit from their nearest stored ancestor, or the
// default foreground, and the answer is cached.
func (t *Table) Resolve(c Classification) RGB {
	if rgb, ok := t.colors[c.Key()]; ok {
		return rgb
	}
	return t.inherit(c)
}

func (t *Table) inherit(c Classification) RGB {
	t.walks++
	key := c.Key()

	for i := len(c) - 2; i >= 0; i-- {
		if rgb, ok := t.colors[c[i]]; ok {
			t.colors[key] = rgb
			return rgb
		}
	}

	rgb := t.colors[KeyForeground]
	t.colors[key] = rgb
	return rgb
}
