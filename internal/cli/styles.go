package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/TimelordUK/gitvid/internal/config"
	"github.com/TimelordUK/gitvid/internal/palette"
	"github.com/TimelordUK/gitvid/internal/theme"
)

// sample token types shown in a theme swatch
var swatchTokens = []struct {
	tt   chroma.TokenType
	text string
}{
	{chroma.KeywordDeclaration, "func "},
	{chroma.NameFunction, "main"},
	{chroma.Punctuation, "() { "},
	{chroma.LiteralString, `"hi"`},
	{chroma.Punctuation, " } "},
	{chroma.CommentSingle, "// done"},
}

func newStylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List built-in syntax themes",
		Long: `List the theme names accepted by --style, with each theme's
background color and a sample line drawn in its colors.

--style also accepts a path to a chroma .xml style or a .yaml theme.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			names := theme.Names()

			width := 0
			for _, name := range names {
				width = max(width, len(name))
			}

			for _, name := range names {
				desc, err := theme.Load(name)
				if err != nil {
					return err
				}
				table := palette.NewTable()
				if err := desc.Apply(table); err != nil {
					return fmt.Errorf("theme %s: %w", name, err)
				}
				fmt.Fprintf(out, "%-*s  %s  %s\n", width, name, table.Background(), swatch(table))
			}
			return nil
		},
	}
}

func swatch(table *palette.Table) string {
	bg := lipgloss.Color(table.Background().String())

	var b strings.Builder
	for _, tok := range swatchTokens {
		fg := table.Resolve(theme.ClassOf(tok.tt))
		b.WriteString(lipgloss.NewStyle().
			Background(bg).
			Foreground(lipgloss.Color(fg.String())).
			Render(tok.text))
	}
	return b.String()
}

func newSizesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "List resolution presets",
		Long:  `List the preset names accepted by --size, largest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.Presets() {
				size, err := config.ParseSize(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-8s %s\n", name, size)
			}
			return nil
		},
	}
}
