package palette

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// emphasisBlend keeps 80% of a non-bold token color and mixes in 20%
// background, standing in for a lighter font weight.
const emphasisBlend = 0.8

// ThemeEntry is one styled classification with its directives,
// e.g. ["bold", "#66d9ef"] or ["bg:#1e0010"]
type ThemeEntry struct {
	Class      Classification
	Directives []string
}

// LoadTheme seeds the table from a theme: background from the theme,
// foreground as its inverse, then one color per entry. Entries are
// applied parents first so children inherit already-blended colors.
func (t *Table) LoadTheme(background string, entries []ThemeEntry) error {
	bg, err := Parse(background)
	if err != nil {
		return fmt.Errorf("theme background: %w", err)
	}
	t.Set(KeyBackground, bg)
	t.Set(KeyForeground, bg.Inverse())

	for _, entry := range sortedEntries(entries) {
		if err := t.applyEntry(entry); err != nil {
			return fmt.Errorf("theme entry %s: %w", entry.Class.Key(), err)
		}
	}

	return nil
}

func (t *Table) applyEntry(entry ThemeEntry) error {
	key := entry.Class.Key()
	colored := false

	for _, d := range entry.Directives {
		if strings.HasPrefix(d, "bg:#") {
			if err := t.SetSpec(key, d[len("bg:"):]); err != nil {
				return err
			}
			break
		}
		if strings.HasPrefix(d, "#") && !colored {
			if err := t.SetSpec(key, d); err != nil {
				return err
			}
			colored = true
		}
	}

	if !isBold(entry.Directives) {
		t.Set(key, Blend(t.Resolve(entry.Class), t.Background(), emphasisBlend))
	}

	return nil
}

func isBold(directives []string) bool {
	if slices.Contains(directives, "unbold") || slices.Contains(directives, "nobold") {
		return false
	}
	return slices.Contains(directives, "bold")
}

func sortedEntries(entries []ThemeEntry) []ThemeEntry {
	out := slices.Clone(entries)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Class) != len(out[j].Class) {
			return len(out[i].Class) < len(out[j].Class)
		}
		return out[i].Class.Key() < out[j].Class.Key()
	})
	return out
}
