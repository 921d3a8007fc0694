package ui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TimelordUK/gitvid/internal/diff"
	"github.com/TimelordUK/gitvid/internal/pipeline"
	"github.com/TimelordUK/gitvid/internal/source"
)

// LineReporter prints "(i/n) sha message" per commit followed by one
// +/- per frame
type LineReporter struct {
	w io.Writer
}

// NewLineReporter creates a plain-text observer writing to w
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

// TransitionStart implements pipeline.Observer
func (r *LineReporter) TransitionStart(t pipeline.Transition) {
	fmt.Fprintf(r.w, "(%d/%d) %s %s\n", t.Index, t.Total, t.To.Short(), t.To.Subject)
}

// Frame implements pipeline.Observer
func (r *LineReporter) Frame(op diff.Op, _ source.LineProvider) {
	io.WriteString(r.w, op.Symbol())
}

// TransitionEnd implements pipeline.Observer
func (r *LineReporter) TransitionEnd(pipeline.Transition) {
	io.WriteString(r.w, "\n")
}

// programObserver forwards pipeline events into a running program
type programObserver struct {
	send func(tea.Msg)
}

func (o *programObserver) TransitionStart(t pipeline.Transition) {
	o.send(transitionMsg{t: t})
}

func (o *programObserver) Frame(op diff.Op, buf source.LineProvider) {
	o.send(frameMsg{
		symbol:  op.Symbol(),
		lines:   buf.LineCount(),
		preview: previewAround(buf, op.Index),
	})
}

// previewLines is how many buffer lines the view shows around an edit
const previewLines = 3

// previewAround numbers the lines surrounding index
func previewAround(buf source.LineProvider, index int) []string {
	lines, err := buf.GetLines(max(index-previewLines/2, 0), previewLines)
	if err != nil {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = fmt.Sprintf("%5d  %s", line.Index+1, line.Content)
	}
	return out
}

func (o *programObserver) TransitionEnd(pipeline.Transition) {
	o.send(transitionDoneMsg{})
}

var (
	_ pipeline.Observer = (*LineReporter)(nil)
	_ pipeline.Observer = (*programObserver)(nil)
)
