package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/TimelordUK/gitvid/internal/cache"
	"github.com/TimelordUK/gitvid/internal/config"
	"github.com/TimelordUK/gitvid/internal/encode"
	"github.com/TimelordUK/gitvid/internal/git"
	"github.com/TimelordUK/gitvid/internal/logging"
	"github.com/TimelordUK/gitvid/internal/palette"
	"github.com/TimelordUK/gitvid/internal/pipeline"
	"github.com/TimelordUK/gitvid/internal/render"
	"github.com/TimelordUK/gitvid/internal/theme"
	"github.com/TimelordUK/gitvid/internal/ui"
)

type renderFlags struct {
	out        string
	fps        int
	size       string
	style      string
	dryRun     bool
	quality    int
	codec      string
	ffmpeg     string
	border     int
	cache      string
	progress   string
	configPath string
	debug      bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	defaults := config.DefaultConfig()

	fl := cmd.Flags()
	fl.StringVarP(&f.out, "out", "o", defaults.Video.Output, "output video file")
	fl.IntVar(&f.fps, "fps", defaults.Video.FPS, "frames per second")
	fl.StringVar(&f.size, "size", defaults.Video.Size,
		"video resolution: WIDTHxHEIGHT or a preset (720p, 1080p, 4K, ... see 'gitvid sizes')")
	fl.StringVar(&f.style, "style", "", "syntax theme name or .xml/.yaml file (default: no highlighting)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "render frames without running ffmpeg")
	fl.IntVar(&f.quality, "quality", defaults.Video.Quality, "JPEG quality of frames sent to ffmpeg (1-100)")
	fl.StringVar(&f.codec, "codec", defaults.Video.Codec, "ffmpeg output video codec")
	fl.StringVar(&f.ffmpeg, "ffmpeg", defaults.Video.FFmpeg, "ffmpeg executable")
	fl.IntVar(&f.border, "border", defaults.Render.Border, "frame border in pixels")
	fl.StringVar(&f.cache, "cache", "", "cache git lookups in this SQLite database")

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.progress, "progress", defaults.Render.Progress, "progress display: auto, always, never")
	pf.StringVar(&f.configPath, "config", "", "path to config file (default "+config.GetConfigPath()+")")
	pf.BoolVar(&f.debug, "debug", false, "enable debug logging")
}

// resolveConfig layers defaults, the config file and explicitly set flags
func (f *renderFlags) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	changed := cmd.Flags().Changed
	if changed("out") {
		cfg.Video.Output = f.out
	}
	if changed("fps") {
		cfg.Video.FPS = f.fps
	}
	if changed("size") {
		cfg.Video.Size = f.size
	}
	if changed("style") {
		cfg.Theme.Name = f.style
	}
	if changed("quality") {
		cfg.Video.Quality = f.quality
	}
	if changed("codec") {
		cfg.Video.Codec = f.codec
	}
	if changed("ffmpeg") {
		cfg.Video.FFmpeg = f.ffmpeg
	}
	if changed("border") {
		cfg.Render.Border = f.border
	}
	if changed("cache") {
		cfg.Cache.Enabled = f.cache != ""
		cfg.Cache.Path = f.cache
	}
	if changed("progress") {
		cfg.Render.Progress = f.progress
	}
	if f.debug {
		cfg.Log.Level = "debug"
	}
	cfg.Video.DryRun = f.dryRun

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRender(cmd *cobra.Command, flags *renderFlags, repoPath, path string) error {
	cfg, err := flags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level)
	logging.SetDefault(logger)
	ctx := logging.WithLogger(cmd.Context(), logger)

	job, err := prepare(ctx, cfg, repoPath, path)
	if err != nil {
		return err
	}
	defer job.close(logger)

	res, err := job.run(ctx, cfg.Render.Progress, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	logger.Info("done",
		logging.FieldCommits, res.Commits,
		logging.FieldTransitions, res.Transitions,
		logging.FieldFrames, res.Frames,
		logging.FieldElapsed, res.Elapsed.Round(time.Millisecond),
		logging.FieldOutput, outputName(cfg),
	)
	return nil
}

func outputName(cfg *config.Config) string {
	if cfg.Video.DryRun {
		return "(dry run)"
	}
	return cfg.Video.Output
}

// job is a fully configured render, ready to run
type job struct {
	path     string
	pipeline *pipeline.Pipeline
	cache    *cache.History
}

// prepare resolves everything that can fail before the first frame:
// size, theme, lexer, repository and cache
func prepare(ctx context.Context, cfg *config.Config, repoPath, path string) (*job, error) {
	logger := logging.FromContext(ctx)

	size, err := config.ParseSize(cfg.Video.Size)
	if err != nil {
		return nil, err
	}

	table := palette.NewTable()
	highlight := cfg.Theme.Name != ""
	if highlight {
		desc, err := theme.Load(cfg.Theme.Name)
		if err != nil {
			return nil, err
		}
		if err := desc.Apply(table); err != nil {
			return nil, fmt.Errorf("theme %s: %w", cfg.Theme.Name, err)
		}
	}

	tokenizer, err := render.NewTokenizer(path, highlight)
	if err != nil {
		return nil, err
	}

	logger.Debug("render setup",
		logging.FieldSize, size,
		logging.FieldTheme, cfg.Theme.Name,
		logging.FieldLexer, tokenizer.LexerName(),
		logging.FieldFPS, cfg.Video.FPS,
		logging.FieldDryRun, cfg.Video.DryRun,
	)

	repo, err := git.Open(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	j := &job{path: path}
	var history pipeline.History = repo
	if cfg.Cache.Enabled {
		dbPath, err := cfg.CachePath()
		if err != nil {
			return nil, fmt.Errorf("%w: cache path: %w", ErrConfig, err)
		}
		j.cache, err = cache.Open(dbPath, repo)
		if err != nil {
			return nil, err
		}
		history = j.cache
		logger.Debug("history cache", logging.FieldCache, dbPath)
	}

	rasterizer := render.NewRasterizer(render.Options{
		Width:  size.Width,
		Height: size.Height,
		Border: cfg.Render.Border,
	}, table, tokenizer)

	j.pipeline = pipeline.New(pipeline.Config{
		Path:     path,
		History:  history,
		Renderer: rasterizer,
		Encoder:  encoderFor(cfg),
	})
	return j, nil
}

func encoderFor(cfg *config.Config) pipeline.OpenEncoder {
	if cfg.Video.DryRun {
		return func(context.Context) (encode.Encoder, error) {
			return encode.NewDiscard(), nil
		}
	}
	opts := encode.Options{
		Binary:  cfg.Video.FFmpeg,
		Output:  cfg.Video.Output,
		FPS:     cfg.Video.FPS,
		Codec:   cfg.Video.Codec,
		Quality: cfg.Video.Quality,
	}
	return func(ctx context.Context) (encode.Encoder, error) {
		return encode.StartFFmpeg(ctx, opts)
	}
}

func (j *job) run(ctx context.Context, progress string, out io.Writer) (pipeline.Result, error) {
	if ui.ShowProgress(progress, os.Stderr) {
		return ui.RunWithProgress(ctx, j.path, os.Stderr, func(ctx context.Context, obs pipeline.Observer) (pipeline.Result, error) {
			return j.pipeline.WithObserver(obs).Run(ctx)
		})
	}
	return j.pipeline.WithObserver(ui.NewLineReporter(out)).Run(ctx)
}

func (j *job) close(logger *log.Logger) {
	if j.cache == nil {
		return
	}
	stats := j.cache.Stats()
	logger.Debug("history cache", logging.FieldHits, stats.Hits, logging.FieldMisses, stats.Misses)
	if err := j.cache.Close(); err != nil {
		logger.Warn("closing cache", logging.FieldError, err)
	}
}
