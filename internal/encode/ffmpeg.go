package encode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// maxStderr bounds how much ffmpeg diagnostic output is kept
const maxStderr = 8 << 10

// Options configures the ffmpeg process
type Options struct {
	Binary  string // defaults to "ffmpeg" on PATH
	Output  string
	FPS     int
	Codec   string
	Quality int // JPEG quality of piped frames, 1-100
}

// Args returns the ffmpeg command line, without the binary
func (o Options) Args() []string {
	fps := strconv.Itoa(o.FPS)
	return []string{
		"-loglevel", "error", "-y",
		"-f", "image2pipe", "-vcodec", "mjpeg", "-r", fps, "-i", "-",
		"-vcodec", o.Codec, "-r", fps, o.Output,
	}
}

// FFmpeg pipes JPEG frames into an ffmpeg process
type FFmpeg struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	w      *bufio.Writer
	stderr *tailBuffer
	jpeg   jpeg.Options
	frames int
	closed bool
	err    error
}

// StartFFmpeg launches ffmpeg reading frames from its stdin
func StartFFmpeg(ctx context.Context, opts Options) (*FFmpeg, error) {
	bin := opts.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoderFailed, err)
	}

	cmd := exec.CommandContext(ctx, path, opts.Args()...)
	stderr := &tailBuffer{max: maxStderr}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("%w: start %s: %w", ErrEncoderFailed, path, err)
	}

	return &FFmpeg{
		cmd:    cmd,
		stdin:  stdin,
		w:      bufio.NewWriterSize(stdin, 64<<10),
		stderr: stderr,
		jpeg:   jpeg.Options{Quality: opts.Quality},
	}, nil
}

// WriteFrame encodes img as JPEG onto the pipe. Blocks while ffmpeg is
// behind.
func (f *FFmpeg) WriteFrame(img image.Image) error {
	if f.closed {
		return fmt.Errorf("%w: write after close", ErrEncoderFailed)
	}
	if f.err != nil {
		return f.err
	}

	if err := jpeg.Encode(f.w, img, &f.jpeg); err != nil {
		f.err = fmt.Errorf("%w: frame %d: %w", ErrEncoderFailed, f.frames, err)
		return f.err
	}
	f.frames++
	return nil
}

// Frames returns the number of frames written
func (f *FFmpeg) Frames() int {
	return f.frames
}

// Close flushes and closes stdin, then waits for ffmpeg to finish the
// output file
func (f *FFmpeg) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	flushErr := f.w.Flush()
	closeErr := f.stdin.Close()
	waitErr := f.cmd.Wait()

	if waitErr != nil {
		msg := strings.TrimSpace(f.stderr.String())
		if msg == "" {
			return fmt.Errorf("%w: %w", ErrEncoderFailed, waitErr)
		}
		return fmt.Errorf("%w: %w: %s", ErrEncoderFailed, waitErr, msg)
	}
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%w: %w", ErrEncoderFailed, err)
	}
	return nil
}

// tailBuffer keeps the last max bytes written
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.max {
		t.buf = append(t.buf[:0], p[len(p)-t.max:]...)
		return n, nil
	}
	if over := len(t.buf) + len(p) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
