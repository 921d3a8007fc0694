package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Size is a frame resolution in pixels
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// presets are common video resolutions, matched case-insensitively
var presets = map[string]Size{
	"8K":     {8192, 4608},
	"WHUXGA": {7680, 4800},
	"4320p":  {7680, 4320},
	"HUXGA":  {6400, 4800},
	"WHSXGA": {6400, 4096},
	"HSXGA":  {5120, 4096},
	"WHXGA":  {5120, 3200},
	"HXGA":   {4096, 3072},
	"4K":     {4096, 2304},
	"2160p":  {3840, 2160},
	"QUXGA":  {3200, 2400},
	"WQSXGA": {3200, 2048},
	"QSXGA":  {2560, 2048},
	"2K":     {2048, 1152},
	"QWXGA":  {2048, 1152},
	"WUXGA":  {1920, 1200},
	"HD":     {1920, 1080},
	"1080p":  {1920, 1080},
	"UXGA":   {1600, 1200},
	"900p":   {1600, 900},
	"SXGA":   {1280, 1024},
	"720p":   {1280, 720},
	"WSVGA":  {1024, 600},
	"PAL":    {720, 576},
	"SVGA":   {800, 600},
	"EGA":    {640, 350},
	"VGA":    {640, 480},
	"CGA":    {320, 200},
}

// Presets lists preset names, largest first
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		pa, pb := presets[a], presets[b]
		if d := pb.Width*pb.Height - pa.Width*pa.Height; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}

// ParseSize accepts a preset name or WIDTHxHEIGHT
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	for name, size := range presets {
		if strings.EqualFold(name, s) {
			return size, nil
		}
	}

	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: %q is neither a preset nor WIDTHxHEIGHT", ErrInvalidSize, s)
	}
	width, werr := strconv.Atoi(w)
	height, herr := strconv.Atoi(h)
	if werr != nil || herr != nil || width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return Size{Width: width, Height: height}, nil
}
