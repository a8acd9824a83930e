package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-notes/internal/config"
	"github.com/ytget/yt-notes/internal/download"
	"github.com/ytget/yt-notes/internal/feed"
	"github.com/ytget/yt-notes/internal/logging"
	"github.com/ytget/yt-notes/internal/platform"
	"github.com/ytget/yt-notes/internal/storage"
	"github.com/ytget/yt-notes/internal/watch"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var errMissingURL = errors.New("URL required (or use --watch)")

const examples = `  yt-notes https://youtube.com/watch?v=abc123
  yt-notes https://youtube.com/playlist?list=PLxyz -o ./downloads
  yt-notes --audio https://youtube.com/watch?v=abc123
  yt-notes --notes-only https://youtube.com/watch?v=abc123
  yt-notes --watch "https://youtube.com/feeds/videos.xml?channel_id=UC123" -o ./auto`

// usageError marks command-line mistakes; they exit with ExitUsage
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

type cliOptions struct {
	output     string
	audio      bool
	notesOnly  bool
	verbose    bool
	quiet      bool
	watch      string
	interval   int
	configPath string
	statePath  string
}

// app wires the command to its collaborators. Nil collaborators get the
// production implementations.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	engine   download.Engine
	source   watch.Source
	expander download.PlaylistExpander
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) command() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           "yt-notes [url]",
		Short:         "YouTube downloader & notes CLI",
		Long:          "Downloads videos and turns chapter metadata into Markdown notes.",
		Example:       examples,
		Version:       version,
		Args:          maxOneArg,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, opts, args)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", config.DefaultOutputDirectory, "Output directory")
	flags.BoolVar(&opts.audio, "audio", false, "Download audio only")
	flags.BoolVar(&opts.notesOnly, "notes-only", false, "Extract notes without downloading")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Quiet mode (errors only, no progress)")
	flags.StringVar(&opts.watch, "watch", "", "Channel RSS URL for auto-download mode")
	flags.IntVar(&opts.interval, "interval", config.DefaultIntervalSeconds, "Watch poll interval (seconds)")
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML settings file")
	flags.StringVar(&opts.statePath, "state", "", "SQLite file that remembers watched entries across restarts")

	return cmd
}

func maxOneArg(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// execute runs the command and maps its outcome to an exit code
func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.command()
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprint(a.stderr, cmd.UsageString())
		return ExitUsage
	}
	return ExitFailure
}

func (a *app) run(cmd *cobra.Command, opts *cliOptions, args []string) error {
	settings, err := a.settings(cmd, opts)
	if err != nil {
		return err
	}

	if opts.watch == "" && len(args) == 0 {
		return &usageError{err: errMissingURL}
	}

	logger := logging.New(a.stderr, opts.verbose, opts.quiet)
	helper := log.NewHelper(logger)
	ctx := cmd.Context()

	if err := platform.CreateDirectoryIfNotExists(settings.OutputDirectory); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	engine, err := a.resolveEngine(ctx, settings)
	if err != nil {
		return err
	}

	svc := download.NewService(engine, settings, logger)
	if !opts.quiet {
		svc.SetUpdateCallback(newProgressPrinter(a.stderr).OnUpdate)
	}

	if opts.watch != "" {
		return a.watch(ctx, opts.watch, settings, svc, logger)
	}

	url := args[0]
	if a.expander != nil {
		svc.SetPlaylistExpander(a.expander)
	} else {
		svc.SetPlaylistExpander(platform.NewYTDLPParserService())
	}

	results, err := svc.FetchAll(ctx, url, download.Options{
		AudioOnly: settings.AudioOnly(),
		NotesOnly: opts.notesOnly,
	})
	if err != nil {
		// failures were logged by the service; the tool exits 0 on download errors
		helper.Debugf("fetch finished with errors: %v", err)
	}
	var elapsed time.Duration
	for _, r := range results {
		elapsed += r.Task.Elapsed()
	}
	helper.Debugf("processed %d video(s) from %s in %s", len(results), url, elapsed.Round(time.Millisecond))
	return nil
}

// settings loads the settings file and applies flags the user set explicitly
func (a *app) settings(cmd *cobra.Command, opts *cliOptions) (*config.Settings, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, &usageError{err: err}
		}
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		settings.OutputDirectory = opts.output
	}
	if opts.audio {
		settings.SetAudioOnly(true)
	}
	if flags.Changed("interval") {
		settings.IntervalSeconds = opts.interval
	}
	if flags.Changed("state") {
		settings.StateDB = opts.statePath
	}

	if err := settings.Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	return settings, nil
}

func (a *app) resolveEngine(ctx context.Context, settings *config.Settings) (download.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	engine := download.NewYTDLPEngine()
	if settings.AutoInstall {
		if err := engine.EnsureInstalled(ctx); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

func (a *app) watch(ctx context.Context, feedURL string, settings *config.Settings, fetcher download.Fetcher, logger log.Logger) error {
	source := a.source
	if source == nil {
		source = feed.NewSource(nil)
	}

	loopOpts := []watch.Option{
		watch.WithFetchOptions(download.Options{AudioOnly: settings.AudioOnly()}),
	}
	if settings.StateDB != "" {
		store, err := storage.OpenSQLiteSet(settings.StateDB)
		if err != nil {
			return fmt.Errorf("open state database: %w", err)
		}
		defer store.Close()
		loopOpts = append(loopOpts, watch.WithSeenStore(store))
	}

	loop := watch.New(feedURL, source, fetcher, settings.Interval(), logger, loopOpts...)
	err := loop.Run(ctx)
	switch {
	case errors.Is(err, feed.ErrParse), errors.Is(err, context.Canceled):
		// both end watch mode normally
		return nil
	default:
		return err
	}
}
