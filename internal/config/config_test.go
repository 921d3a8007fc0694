package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/gitvid/internal/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gitvid.flv", cfg.Video.Output)
	assert.Equal(t, 60, cfg.Video.FPS)
	assert.Equal(t, "720p", cfg.Video.Size)
	assert.Equal(t, 90, cfg.Video.Quality)
	assert.Equal(t, 15, cfg.Render.Border)
	assert.Empty(t, cfg.Theme.Name, "highlighting is off by default")
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want config.Size
	}{
		{"720p", config.Size{Width: 1280, Height: 720}},
		{"1080P", config.Size{Width: 1920, Height: 1080}},
		{"4k", config.Size{Width: 4096, Height: 2304}},
		{"cga", config.Size{Width: 320, Height: 200}},
		{"640x360", config.Size{Width: 640, Height: 360}},
		{" 100X50 ", config.Size{Width: 100, Height: 50}},
	}

	for _, tc := range tests {
		got, err := config.ParseSize(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseSizeInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "huge", "x", "10x", "axb", "0x10", "-5x10", "10x10x10"} {
		_, err := config.ParseSize(in)
		require.ErrorIs(t, err, config.ErrInvalidSize, in)
		require.ErrorIs(t, err, config.ErrInvalid, in)
	}
}

func TestPresetsOrdered(t *testing.T) {
	t.Parallel()

	names := config.Presets()
	require.NotEmpty(t, names)
	assert.Equal(t, "8K", names[0])
	assert.Equal(t, "CGA", names[len(names)-1])
	assert.Contains(t, names, "720p")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"bad size", func(c *config.Config) { c.Video.Size = "big" }, config.ErrInvalidSize},
		{"zero fps", func(c *config.Config) { c.Video.FPS = 0 }, config.ErrInvalidFPS},
		{"quality too high", func(c *config.Config) { c.Video.Quality = 101 }, config.ErrInvalidQuality},
		{"quality zero", func(c *config.Config) { c.Video.Quality = 0 }, config.ErrInvalidQuality},
		{"negative border", func(c *config.Config) { c.Render.Border = -1 }, config.ErrInvalidBorder},
		{"border fills frame", func(c *config.Config) { c.Video.Size = "CGA"; c.Render.Border = 100 }, config.ErrInvalidBorder},
		{"progress mode", func(c *config.Config) { c.Render.Progress = "sometimes" }, config.ErrInvalidProgress},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[video]
fps = 30
size = "1080p"

[theme]
name = "monokai"

[cache]
enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Video.FPS)
	assert.Equal(t, "1080p", cfg.Video.Size)
	assert.Equal(t, "monokai", cfg.Theme.Name)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "libx264", cfg.Video.Codec, "untouched keys keep defaults")
	assert.Equal(t, 15, cfg.Render.Border)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := config.LoadFile(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[video\nfps = "), 0o644))
	_, err = config.LoadFile(bad)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.DefaultConfig()
	cfg.Theme.Name = "dracula"
	cfg.Video.Codec = "libx265"
	require.NoError(t, config.SaveTo(cfg, path))

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadUsesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "gitvid", "config.toml"), config.GetConfigPath())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg, "missing file gives defaults")

	saved := config.DefaultConfig()
	saved.Video.FPS = 24
	require.NoError(t, config.Save(saved))

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Video.FPS)
}

func TestCachePath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Cache.Path = "/tmp/x.db"
	p, err := cfg.CachePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", p)
}
