package render

import (
	"image"
	"iter"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/TimelordUK/gitvid/internal/palette"
)

// Options sizes the frame
type Options struct {
	Width  int
	Height int
	Border int
}

// Rasterizer draws a line buffer as one pixel per character
type Rasterizer struct {
	opts      Options
	table     *palette.Table
	tokenizer *Tokenizer
	face      font.Face
	canvas    *image.RGBA
	points    []image.Point
}

// NewRasterizer creates a rasterizer with its own canvas. The returned
// frames share that canvas and are only valid until the next call.
func NewRasterizer(opts Options, table *palette.Table, tokenizer *Tokenizer) *Rasterizer {
	return &Rasterizer{
		opts:      opts,
		table:     table,
		tokenizer: tokenizer,
		face:      basicfont.Face7x13,
		canvas:    image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
	}
}

// Bounds returns the frame rectangle
func (r *Rasterizer) Bounds() image.Rectangle {
	return r.canvas.Bounds()
}

// Render tokenizes the joined buffer and draws it
func (r *Rasterizer) Render(lines []string, label string) (*image.RGBA, error) {
	tokens, err := r.tokenizer.Classify(strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}
	return r.Draw(tokens, label), nil
}

// Draw plots a token stream. Rows that would run past the bottom border
// continue on a new page to the right of the widest line so far.
func (r *Rasterizer) Draw(tokens iter.Seq[Token], label string) *image.RGBA {
	bg := r.table.Background().Color()
	draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	border := r.opts.Border
	pageHeight := r.opts.Height - 2*border

	row := border
	col := -1
	pageOffset := border
	maxCol := 0

	for tok := range tokens {
		r.points = r.points[:0]

		for _, ch := range tok.Text {
			col++
			switch ch {
			case '\n':
				row++
				maxCol = max(maxCol, col)
				col = -1
				if row >= pageHeight {
					row = border
					pageOffset += maxCol + border
					maxCol = 0
				}
			case ' ':
			case '\t':
				col += 3
			default:
				r.points = append(r.points, image.Pt(col+pageOffset, row))
			}
		}

		if len(r.points) > 0 {
			r.plot(r.table.Resolve(tok.Class))
		}
	}

	r.drawLabel(label)
	return r.canvas
}

func (r *Rasterizer) plot(c palette.RGB) {
	rgba := c.Color()
	for _, p := range r.points {
		r.canvas.SetRGBA(p.X, p.Y, rgba)
	}
}

func (r *Rasterizer) drawLabel(label string) {
	if label == "" {
		return
	}

	d := &font.Drawer{
		Dst:  r.canvas,
		Src:  image.NewUniform(r.table.Foreground().Color()),
		Face: r.face,
		Dot:  fixed.P(0, r.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(fitWidth(r.face, label, fixed.I(r.opts.Width)))
}

// fitWidth cuts s after the last glyph that ends within limit, measured
// with the face's own advances
func fitWidth(face font.Face, s string, limit fixed.Int26_6) string {
	var width fixed.Int26_6
	prev := rune(-1)
	for i, ch := range s {
		if prev >= 0 {
			width += face.Kern(prev, ch)
		}
		advance, _ := face.GlyphAdvance(ch)
		if width+advance > limit {
			return s[:i]
		}
		width += advance
		prev = ch
	}
	return s
}
