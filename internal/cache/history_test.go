package cache_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/gitvid/internal/cache"
	"github.com/TimelordUK/gitvid/internal/git"
)

type fakeSource struct {
	contents map[string][]string
	diff     string
	err      error
	calls    int
}

func (f *fakeSource) Commits(context.Context, string) ([]git.Commit, error) {
	f.calls++
	return []git.Commit{{Hash: "a"}, {Hash: "b"}}, nil
}

func (f *fakeSource) Content(_ context.Context, rev, _ string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.contents[rev], nil
}

func (f *fakeSource) Diff(context.Context, string, string, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.diff, nil
}

func openCache(t *testing.T, src cache.Source) (*cache.History, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "history.db")
	h, err := cache.Open(path, src)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h, path
}

func TestContentCached(t *testing.T) {
	t.Parallel()

	src := &fakeSource{contents: map[string][]string{
		"a":     {"one", "", "three"},
		"empty": {},
		"blank": {""},
	}}
	h, _ := openCache(t, src)
	ctx := context.Background()

	for _, rev := range []string{"a", "empty", "blank"} {
		first, err := h.Content(ctx, rev, "f.go")
		require.NoError(t, err)
		second, err := h.Content(ctx, rev, "f.go")
		require.NoError(t, err)

		assert.Equal(t, src.contents[rev], first, rev)
		assert.Equal(t, first, second, rev)
	}

	assert.Equal(t, 3, src.calls)
	assert.Equal(t, cache.Stats{Hits: 3, Misses: 3}, h.Stats())
}

func TestDiffCached(t *testing.T) {
	t.Parallel()

	src := &fakeSource{diff: "@@ -1 +1 @@\n-a\n+b\n"}
	h, _ := openCache(t, src)
	ctx := context.Background()

	for range 3 {
		d, err := h.Diff(ctx, "a", "b", "f.go")
		require.NoError(t, err)
		assert.Equal(t, src.diff, d)
	}
	assert.Equal(t, 1, src.calls)

	_, err := h.Diff(ctx, "b", "c", "f.go")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "different key misses")
}

func TestCachePersists(t *testing.T) {
	t.Parallel()

	src := &fakeSource{contents: map[string][]string{"a": {"x"}}}
	h, path := openCache(t, src)
	_, err := h.Content(context.Background(), "a", "f.go")
	require.NoError(t, err)
	require.NoError(t, h.Close())

	again := &fakeSource{}
	reopened, err := cache.Open(path, again)
	require.NoError(t, err)
	defer reopened.Close()

	lines, err := reopened.Content(context.Background(), "a", "f.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, lines)
	assert.Zero(t, again.calls)
}

func TestErrorsNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := &fakeSource{err: boom}
	h, _ := openCache(t, src)
	ctx := context.Background()

	_, err := h.Content(ctx, "a", "f.go")
	require.ErrorIs(t, err, boom)
	_, err = h.Diff(ctx, "a", "b", "f.go")
	require.ErrorIs(t, err, boom)

	src.err = nil
	src.diff = "ok"
	d, err := h.Diff(ctx, "a", "b", "f.go")
	require.NoError(t, err)
	assert.Equal(t, "ok", d)
}

func TestCommitsPassThrough(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	h, _ := openCache(t, src)

	for range 2 {
		commits, err := h.Commits(context.Background(), "f.go")
		require.NoError(t, err)
		assert.Len(t, commits, 2)
	}
	assert.Equal(t, 2, src.calls)
}
