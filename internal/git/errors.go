package git

import "errors"

// Error types for git operations.
var (
	// ErrNotRepository indicates the path is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrCommandFailed indicates git exited non-zero.
	ErrCommandFailed = errors.New("git command failed")

	// ErrGitNotFound indicates the git binary is not on PATH.
	ErrGitNotFound = errors.New("git executable not found")
)
