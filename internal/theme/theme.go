// Package theme loads syntax color themes and describes them as a
// background color plus per-classification styling directives.
//
// Themes come from chroma's built-in registry, from chroma XML style
// files, or from YAML files of the form
//
//	name: mine
//	background: "#1e1e1e"
//	styles:
//	  Keyword: "bold #569cd6"
//	  Comment: "italic #6a9955"
package theme

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"

	gitvidio "github.com/TimelordUK/gitvid/internal/io"
	"github.com/TimelordUK/gitvid/internal/palette"
)

// DefaultBackground is used when a theme declares no background
const DefaultBackground = "#ffffff"

var (
	// ErrUnknownTheme indicates a registry name with no matching style
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrInvalidTheme indicates a theme file that could not be decoded
	ErrInvalidTheme = errors.New("invalid theme")
)

// Description is a theme as a background and a list of styled entries
type Description struct {
	Name       string
	Background string
	Entries    []palette.ThemeEntry
}

// Apply loads the description into a color table
func (d *Description) Apply(table *palette.Table) error {
	return table.LoadTheme(d.Background, d.Entries)
}

// Load resolves a theme by file path (.xml, .yaml, .yml) or registry name
func Load(name string) (*Description, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml":
		return loadFile(name, FromXML)
	case ".yaml", ".yml":
		return loadFile(name, FromYAML)
	}

	style, ok := styles.Registry[name]
	if !ok {
		style, ok = styles.Registry[strings.ToLower(name)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q (see 'gitvid styles')", ErrUnknownTheme, name)
	}
	return FromStyle(style)
}

// Names lists the registry themes
func Names() []string {
	return styles.Names()
}

func loadFile(path string, decode func(io.Reader) (*Description, error)) (*Description, error) {
	file, err := gitvidio.OpenMapped(path)
	if err != nil {
		return nil, fmt.Errorf("open theme: %w", err)
	}
	defer file.Close()

	desc, err := decode(file.Reader())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path(), err)
	}
	return desc, nil
}

type xmlEntry struct {
	Type  string `xml:"type,attr"`
	Style string `xml:"style,attr"`
}

type xmlStyle struct {
	XMLName xml.Name   `xml:"style"`
	Name    string     `xml:"name,attr"`
	Entries []xmlEntry `xml:"entry"`
}

// FromStyle describes a chroma style using its own (uninherited) entries
func FromStyle(style *chroma.Style) (*Description, error) {
	data, err := xml.Marshal(style)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTheme, style.Name, err)
	}
	return decodeXML(data)
}

// FromXML reads a chroma XML style definition
func FromXML(r io.Reader) (*Description, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeXML(data)
}

func decodeXML(data []byte) (*Description, error) {
	var doc xmlStyle
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTheme, err)
	}

	pairs := make([][2]string, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		pairs = append(pairs, [2]string{e.Type, e.Style})
	}
	return describe(doc.Name, pairs)
}

type yamlTheme struct {
	Name       string            `yaml:"name"`
	Background string            `yaml:"background"`
	Styles     map[string]string `yaml:"styles"`
}

// FromYAML reads a YAML theme file
func FromYAML(r io.Reader) (*Description, error) {
	var doc yamlTheme
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTheme, err)
	}

	keys := make([]string, 0, len(doc.Styles))
	for k := range doc.Styles {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([][2]string, 0, len(keys)+1)
	if doc.Background != "" {
		pairs = append(pairs, [2]string{chroma.Background.String(), "bg:" + doc.Background})
	}
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, doc.Styles[k]})
	}
	return describe(doc.Name, pairs)
}

// describe converts (token type name, style string) pairs. The
// Background entry supplies the background; other formatter-only
// entries are dropped. Standard token types the theme does not mention
// get an empty entry, so they are blended on top of their parent.
func describe(name string, pairs [][2]string) (*Description, error) {
	desc := &Description{Name: name, Background: DefaultBackground}
	declared := make(map[chroma.TokenType]bool, len(pairs))

	for _, p := range pairs {
		tt, err := chroma.TokenTypeString(p[0])
		if err != nil {
			return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidTheme, p[0])
		}
		directives := strings.Fields(p[1])

		if tt == chroma.Background {
			for _, d := range directives {
				if strings.HasPrefix(d, "bg:") {
					desc.Background = d[len("bg:"):]
				}
			}
			continue
		}
		if formatterOnly(tt) {
			continue
		}

		declared[tt] = true
		desc.Entries = append(desc.Entries, palette.ThemeEntry{
			Class:      ClassOf(tt),
			Directives: directives,
		})
	}

	for tt := range chroma.StandardTypes {
		if declared[tt] || tt == chroma.Background || formatterOnly(tt) {
			continue
		}
		desc.Entries = append(desc.Entries, palette.ThemeEntry{Class: ClassOf(tt)})
	}
	slices.SortStableFunc(desc.Entries, func(a, b palette.ThemeEntry) int {
		return strings.Compare(a.Class.Key(), b.Class.Key())
	})

	return desc, nil
}

// formatterOnly reports meta types that style HTML output, not tokens
func formatterOnly(tt chroma.TokenType) bool {
	return tt < 0 && tt > chroma.Error
}

// ClassOf returns the token type's ancestor chain, most general first
func ClassOf(tt chroma.TokenType) palette.Classification {
	chain := []string{tt.String()}
	for p := tt.Parent(); p != chroma.EOFType && p != tt; p = p.Parent() {
		chain = append(chain, p.String())
	}
	slices.Reverse(chain)
	return chain
}
