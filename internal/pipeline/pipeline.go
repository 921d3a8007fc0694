// Package pipeline replays a file's history as a stream of frames.
//
// The first commit touching the path is only a baseline. For every
// later commit the file is reseeded from the baseline, the diff between
// the two is planned into line edits, and each edit is applied and
// rendered into exactly one frame. Everything runs on the calling
// goroutine; the encoder pipe provides the only backpressure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/TimelordUK/gitvid/internal/diff"
	"github.com/TimelordUK/gitvid/internal/encode"
	"github.com/TimelordUK/gitvid/internal/git"
	"github.com/TimelordUK/gitvid/internal/logging"
	"github.com/TimelordUK/gitvid/internal/source"
)

// History is the revision source for one tracked path
type History interface {
	Commits(ctx context.Context, path string) ([]git.Commit, error)
	Content(ctx context.Context, rev, path string) ([]string, error)
	Diff(ctx context.Context, from, to, path string) (string, error)
}

// Renderer draws a buffer state with a label
type Renderer interface {
	Render(lines []string, label string) (*image.RGBA, error)
}

// OpenEncoder starts the frame sink for one run
type OpenEncoder func(ctx context.Context) (encode.Encoder, error)

// Result summarizes a run
type Result struct {
	Commits     int
	Transitions int
	Frames      int
	Elapsed     time.Duration
}

// Config wires a pipeline
type Config struct {
	Path     string
	History  History
	Renderer Renderer
	Encoder  OpenEncoder
	Observer Observer
}

// Pipeline renders commit transitions into an encoder
type Pipeline struct {
	cfg    Config
	buffer *source.Buffer
}

// New creates a pipeline. A nil Observer is replaced by a no-op one.
func New(cfg Config) *Pipeline {
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	return &Pipeline{cfg: cfg, buffer: source.NewBuffer(nil)}
}

// WithObserver returns a pipeline sharing p's configuration that reports
// to obs
func (p *Pipeline) WithObserver(obs Observer) *Pipeline {
	cfg := p.cfg
	cfg.Observer = obs
	return New(cfg)
}

// Run replays the history. The encoder is closed on every path and its
// close error joined with any run error.
func (p *Pipeline) Run(ctx context.Context) (res Result, err error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	commits, err := p.cfg.History.Commits(ctx, p.cfg.Path)
	if err != nil {
		return res, fmt.Errorf("list commits: %w", err)
	}
	res.Commits = len(commits)
	logger.Debug("history listed", logging.FieldPath, p.cfg.Path, logging.FieldCommits, len(commits))

	enc, err := p.cfg.Encoder(ctx)
	if err != nil {
		return res, fmt.Errorf("open encoder: %w", err)
	}
	defer func() {
		if cerr := enc.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close encoder: %w", cerr))
		}
		res.Frames = enc.Frames()
		res.Elapsed = time.Since(start)
	}()

	for i := 1; i < len(commits); i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		t := Transition{Index: i, Total: len(commits), From: commits[i-1], To: commits[i]}
		if err := p.transition(ctx, enc, t); err != nil {
			return res, fmt.Errorf("%s..%s: %w", t.From.Short(), t.To.Short(), err)
		}
		res.Transitions++
	}

	return res, nil
}

func (p *Pipeline) transition(ctx context.Context, enc encode.Encoder, t Transition) error {
	lines, err := p.cfg.History.Content(ctx, t.From.Hash, p.cfg.Path)
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}
	p.buffer.Seed(lines)

	text, err := p.cfg.History.Diff(ctx, t.From.Hash, t.To.Hash, p.cfg.Path)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	ops, err := diff.Plan(text)
	if err != nil {
		return err
	}
	t.Ops = ops

	p.cfg.Observer.TransitionStart(t)
	label := t.To.Label()

	for _, op := range ops {
		state, err := p.buffer.Apply(op)
		if err != nil {
			return err
		}
		frame, err := p.cfg.Renderer.Render(state, label)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := enc.WriteFrame(frame); err != nil {
			return err
		}
		p.cfg.Observer.Frame(op, p.buffer)
	}

	p.cfg.Observer.TransitionEnd(t)
	return nil
}
