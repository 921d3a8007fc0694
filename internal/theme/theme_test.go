package theme_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/gitvid/internal/palette"
	"github.com/TimelordUK/gitvid/internal/theme"
)

func findEntry(desc *theme.Description, key string) (palette.ThemeEntry, bool) {
	for _, e := range desc.Entries {
		if e.Class.Key() == key {
			return e, true
		}
	}
	return palette.ThemeEntry{}, false
}

func TestClassOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tt   chroma.TokenType
		want palette.Classification
	}{
		{chroma.Keyword, palette.Classification{"Keyword"}},
		{chroma.CommentSingle, palette.Classification{"Comment", "CommentSingle"}},
		{chroma.NameBuiltinPseudo, palette.Classification{"Name", "NameBuiltin", "NameBuiltinPseudo"}},
		{chroma.NameBuiltin, palette.Classification{"Name", "NameBuiltin"}},
		{chroma.Error, palette.Classification{"Error"}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, theme.ClassOf(tc.tt))
	}
}

func TestLoadRegistryStyle(t *testing.T) {
	t.Parallel()

	desc, err := theme.Load("monokai")
	require.NoError(t, err)

	assert.Equal(t, "monokai", desc.Name)
	assert.Equal(t, "#272822", desc.Background)

	kw, ok := findEntry(desc, "Keyword")
	require.True(t, ok)
	assert.Equal(t, []string{"#66d9ef"}, kw.Directives)

	for _, e := range desc.Entries {
		assert.NotEqual(t, "Background", e.Class.Key())
	}
}

func TestLoadUnknownStyle(t *testing.T) {
	t.Parallel()

	_, err := theme.Load("definitely-not-a-style")
	require.ErrorIs(t, err, theme.ErrUnknownTheme)
}

func TestLoadYAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mine.yaml")
	content := strings.Join([]string{
		"name: mine",
		"background: \"#000000\"",
		"styles:",
		"  Keyword: \"bold #ff0000\"",
		"  Comment: \"#00ff00\"",
		"  CommentSingle: italic",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	desc, err := theme.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", desc.Name)
	assert.Equal(t, "#000000", desc.Background)

	kw, ok := findEntry(desc, "Keyword")
	require.True(t, ok)
	assert.Equal(t, []string{"bold", "#ff0000"}, kw.Directives)

	table := palette.NewTable()
	require.NoError(t, desc.Apply(table))

	assert.Equal(t, palette.RGB{255, 0, 0}, table.Resolve(theme.ClassOf(chroma.Keyword)))
	assert.Equal(t, palette.RGB{0, 204, 0}, table.Resolve(theme.ClassOf(chroma.Comment)))
	// inherits the blended parent, then blends again
	assert.Equal(t, palette.RGB{0, 163, 0}, table.Resolve(theme.ClassOf(chroma.CommentSingle)))
	// undeclared child of a bold parent: blended once
	assert.Equal(t, palette.RGB{204, 0, 0}, table.Resolve(theme.ClassOf(chroma.KeywordDeclaration)))
	// never styled: the inverse-of-background foreground, blended at
	// Name and again at NameTag
	assert.Equal(t, palette.RGB{204, 204, 204}, table.Resolve(theme.ClassOf(chroma.Name)))
	assert.Equal(t, palette.RGB{163, 163, 163}, table.Resolve(theme.ClassOf(chroma.NameTag)))
}

func TestLoadXMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mine.xml")
	content := `<style name="tiny">
  <entry type="Background" style="bg:#101010 #eeeeee"/>
  <entry type="LineNumbers" style="#888888"/>
  <entry type="Keyword" style="bold #336699"/>
</style>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	desc, err := theme.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", desc.Name)
	assert.Equal(t, "#101010", desc.Background)
	_, ok := findEntry(desc, "LineNumbers")
	assert.False(t, ok, "formatter-only entries are dropped")

	kw, ok := findEntry(desc, "Keyword")
	require.True(t, ok)
	assert.Equal(t, []string{"bold", "#336699"}, kw.Directives)
}

func TestLoadInvalidFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	badType := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badType, []byte("styles:\n  NotAToken: \"#fff\"\n"), 0o644))
	_, err := theme.Load(badType)
	require.ErrorIs(t, err, theme.ErrInvalidTheme)
	assert.Contains(t, err.Error(), badType)

	badXML := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(badXML, []byte("<style"), 0o644))
	_, err = theme.Load(badXML)
	require.ErrorIs(t, err, theme.ErrInvalidTheme)

	_, err = theme.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestEmptyYAMLUsesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	desc, err := theme.Load(path)
	require.NoError(t, err)
	assert.Equal(t, theme.DefaultBackground, desc.Background)
	require.NotEmpty(t, desc.Entries)
	for _, e := range desc.Entries {
		assert.Empty(t, e.Directives, e.Class.Key())
	}
}

func TestUndeclaredTypesGetEntries(t *testing.T) {
	t.Parallel()

	desc, err := theme.Load("monokai")
	require.NoError(t, err)

	for tt := range chroma.StandardTypes {
		if tt < 0 && tt > chroma.Error {
			continue
		}
		_, ok := findEntry(desc, theme.ClassOf(tt).Key())
		assert.True(t, ok, "missing entry for %s", tt)
	}

	seen := make(map[string]bool)
	for i, e := range desc.Entries {
		assert.False(t, seen[e.Class.Key()], "duplicate entry %s", e.Class.Key())
		seen[e.Class.Key()] = true
		if i > 0 {
			assert.Less(t, desc.Entries[i-1].Class.Key(), e.Class.Key())
		}
	}
}

func TestUndeclaredChildBlendsAgain(t *testing.T) {
	t.Parallel()

	desc, err := theme.Load("monokai")
	require.NoError(t, err)

	table := palette.NewTable()
	require.NoError(t, desc.Apply(table))

	assert.Equal(t, "#59b5c6", table.Resolve(theme.ClassOf(chroma.Keyword)).String())
	assert.Equal(t, "#4f98a5", table.Resolve(theme.ClassOf(chroma.KeywordDeclaration)).String())
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Contains(t, theme.Names(), "monokai")
}
