package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned when a textual color spec cannot be parsed
var ErrInvalidColor = errors.New("invalid color")

// RGB is an opaque 8-bit-per-channel color
type RGB struct {
	R, G, B uint8
}

// Color converts to an image/color value usable with image.RGBA
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Inverse returns 255 minus each channel
func (c RGB) Inverse() RGB {
	return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// String returns the color as #rrggbb
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Parse converts "#rgb", "#rrggbb" or a CSS color name to RGB
func Parse(spec string) (RGB, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return RGB{}, fmt.Errorf("%w: empty spec", ErrInvalidColor)
	}

	if !strings.HasPrefix(s, "#") {
		named, ok := colornames.Map[s]
		if !ok {
			return RGB{}, fmt.Errorf("%w: unknown color name %q", ErrInvalidColor, spec)
		}
		return RGB{R: named.R, G: named.G, B: named.B}, nil
	}

	hex := s[1:]
	switch len(hex) {
	case 3:
		// #abc is shorthand for #aabbcc
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
	}

	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Blend mixes two colors channel-wise: f*c1 + (1-f)*c2, truncated toward zero
func Blend(c1, c2 RGB, f float64) RGB {
	return RGB{
		R: blendChannel(c1.R, c2.R, f),
		G: blendChannel(c1.G, c2.G, f),
		B: blendChannel(c1.B, c2.B, f),
	}
}

func blendChannel(a, b uint8, f float64) uint8 {
	// The explicit conversions round each product on its own, so the
	// compiler may not fuse them into a single multiply-add.
	x := float64(float64(a) * f)
	y := float64(float64(b) * (1 - f))
	v := int(x + y)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
