package pipeline

import (
	"github.com/TimelordUK/gitvid/internal/diff"
	"github.com/TimelordUK/gitvid/internal/git"
	"github.com/TimelordUK/gitvid/internal/source"
)

// Transition is one baseline-to-commit step. Index counts commits, so
// the first transition is 1 of Total.
type Transition struct {
	Index int
	Total int
	From  git.Commit
	To    git.Commit
	Ops   []diff.Op
}

// Observer follows a run. Calls arrive on the pipeline goroutine.
type Observer interface {
	TransitionStart(t Transition)
	Frame(op diff.Op, buf source.LineProvider)
	TransitionEnd(t Transition)
}

// NopObserver ignores everything
type NopObserver struct{}

func (NopObserver) TransitionStart(Transition)         {}
func (NopObserver) Frame(diff.Op, source.LineProvider) {}
func (NopObserver) TransitionEnd(Transition)           {}
