// Package encode streams rendered frames into a video.
package encode

import (
	"errors"
	"image"
)

// ErrEncoderFailed indicates the encoder process could not start, died,
// or exited non-zero
var ErrEncoderFailed = errors.New("encoder failed")

// Encoder consumes frames in order. Close must always be called and
// returns once the output is complete.
type Encoder interface {
	WriteFrame(img image.Image) error
	Frames() int
	Close() error
}

// Discard counts frames without encoding them
type Discard struct {
	frames int
}

// NewDiscard creates an encoder for dry runs
func NewDiscard() *Discard {
	return &Discard{}
}

// WriteFrame counts the frame
func (d *Discard) WriteFrame(image.Image) error {
	d.frames++
	return nil
}

// Frames returns the number of frames written
func (d *Discard) Frames() int {
	return d.frames
}

// Close does nothing
func (d *Discard) Close() error {
	return nil
}

var (
	_ Encoder = (*Discard)(nil)
	_ Encoder = (*FFmpeg)(nil)
)
