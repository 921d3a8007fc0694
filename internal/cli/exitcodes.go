package cli

import (
	"errors"

	"github.com/TimelordUK/gitvid/internal/config"
	"github.com/TimelordUK/gitvid/internal/diff"
	"github.com/TimelordUK/gitvid/internal/encode"
	"github.com/TimelordUK/gitvid/internal/git"
	"github.com/TimelordUK/gitvid/internal/palette"
	"github.com/TimelordUK/gitvid/internal/render"
	"github.com/TimelordUK/gitvid/internal/source"
	"github.com/TimelordUK/gitvid/internal/theme"
	"github.com/TimelordUK/gitvid/internal/ui"
)

// Exit codes for gitvid.
const (
	// ExitSuccess indicates the video was written.
	ExitSuccess = 0

	// ExitFailure is used for errors with no better classification.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates a bad setting, theme or file type,
	// detected before any frame is rendered.
	ExitConfigError = 65

	// ExitInternalError indicates the diff and buffer disagreed.
	ExitInternalError = 70

	// ExitIOError indicates git or the encoder failed.
	ExitIOError = 74

	// ExitAborted indicates the user quit the progress view.
	ExitAborted = 130
)

var (
	// ErrUsage marks command-line mistakes
	ErrUsage = errors.New("usage")

	// ErrConfig marks config files that could not be read
	ErrConfig = errors.New("configuration error")
)

// ExitCode maps an error returned by the root command to a process
// exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ui.ErrAborted):
		return ExitAborted
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, render.ErrUnsupportedFileType),
		errors.Is(err, theme.ErrUnknownTheme),
		errors.Is(err, theme.ErrInvalidTheme),
		errors.Is(err, palette.ErrInvalidColor):
		return ExitConfigError
	case errors.Is(err, diff.ErrMalformedHunk),
		errors.Is(err, source.ErrIndexOutOfRange):
		return ExitInternalError
	case errors.Is(err, git.ErrNotRepository),
		errors.Is(err, git.ErrGitNotFound),
		errors.Is(err, git.ErrCommandFailed),
		errors.Is(err, encode.ErrEncoderFailed):
		return ExitIOError
	default:
		return ExitFailure
	}
}
