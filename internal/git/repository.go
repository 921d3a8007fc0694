// Package git reads a single file's history by shelling out to git.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// fieldSep separates hash and subject in log output
const fieldSep = "\x1f"

// Commit is one revision that touched the tracked path
type Commit struct {
	Hash    string
	Subject string
}

// Short returns the abbreviated hash used in labels and progress
func (c Commit) Short() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// Label is the text drawn on frames for this commit
func (c Commit) Label() string {
	return c.Short() + " " + c.Subject
}

// Repository represents a git repository.
type Repository struct {
	path string
	bin  string
}

// Open verifies path is inside a git work tree
func Open(ctx context.Context, path string) (*Repository, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGitNotFound, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}

	r := &Repository{path: abs, bin: bin}
	if _, err := r.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
	}
	return r, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Commits lists commits touching path, oldest first
func (r *Repository) Commits(ctx context.Context, path string) ([]Commit, error) {
	out, err := r.git(ctx, "log", "--reverse", "--pretty=format:%H%x1f%s", "--", path)
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, line := range SplitLines(out) {
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, fieldSep)
		commits = append(commits, Commit{Hash: hash, Subject: subject})
	}
	return commits, nil
}

// Content returns the file's lines at rev
func (r *Repository) Content(ctx context.Context, rev, path string) ([]string, error) {
	out, err := r.git(ctx, "show", rev+":"+r.objectPath(path))
	if err != nil {
		return nil, err
	}
	return SplitLines(out), nil
}

// objectPath names path relative to the repository path, the same way
// log and diff read their pathspecs, rather than relative to the top
// of the work tree
func (r *Repository) objectPath(path string) string {
	if filepath.IsAbs(path) {
		if base, err := filepath.Abs(r.path); err == nil {
			if rel, err := filepath.Rel(base, path); err == nil {
				path = rel
			}
		}
	}
	return "./" + filepath.ToSlash(path)
}

// Diff returns the minimal unified diff of path between two revisions
func (r *Repository) Diff(ctx context.Context, from, to, path string) (string, error) {
	return r.git(ctx, "diff", "--minimal", from, to, "--", path)
}

// git executes a git command in the repository.
func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = r.path

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if msg == "" && !errors.As(err, &exitErr) {
			msg = err.Error()
		}
		return "", fmt.Errorf("%w: git %s: %s", ErrCommandFailed, strings.Join(args, " "), msg)
	}

	return stdout.String(), nil
}

// SplitLines splits on \n, \r\n and \r. A trailing line break does not
// produce an empty final line.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
