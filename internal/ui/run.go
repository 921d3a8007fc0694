package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/TimelordUK/gitvid/internal/pipeline"
)

// ErrAborted is returned when the user quits the progress view
var ErrAborted = errors.New("aborted by user")

// Task is a pipeline run reporting to obs
type Task func(ctx context.Context, obs pipeline.Observer) (pipeline.Result, error)

// ShowProgress decides whether to use the interactive view.
// Mode values: "auto" (default), "always", "never".
func ShowProgress(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		if f, ok := w.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// RunWithProgress runs task on a worker goroutine while the progress
// view owns the calling goroutine and the terminal
func RunWithProgress(ctx context.Context, path string, out io.Writer, task Task) (pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(path)
	p := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(os.Stdin))

	done := make(chan doneMsg, 1)
	go func() {
		res, err := task(ctx, &programObserver{send: p.Send})
		msg := doneMsg{result: res, err: err}
		done <- msg
		p.Send(msg)
	}()

	_, runErr := p.Run()
	if runErr != nil || model.Aborted() {
		cancel()
	}
	msg := <-done

	switch {
	case runErr != nil:
		return msg.result, errors.Join(fmt.Errorf("progress view: %w", runErr), msg.err)
	case model.Aborted():
		return msg.result, errors.Join(ErrAborted, msg.err)
	}
	return msg.result, msg.err
}
