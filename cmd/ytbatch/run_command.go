package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ytbatch/internal/batch"
	"ytbatch/internal/config"
	"ytbatch/internal/logger"
	"ytbatch/internal/outcome"
	"ytbatch/internal/pipeline"
	"ytbatch/internal/planner"
	"ytbatch/internal/progress"
	"ytbatch/internal/results"
	"ytbatch/internal/store"
	"ytbatch/internal/tagger"
	"ytbatch/internal/web"
	"ytbatch/internal/ytdlp"
	"ytbatch/pkg/utils"
)

type runOptions struct {
	inline   string
	file     string
	dryRun   bool
	dbPath   string
	listen   string
	progress bool
	browser  string
	format   string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download every playlist of a batch document and store the results",
		Example: `  ytbatch run --file batch.json
  ytbatch run -n --json '[{"save_to":"/music","url":"https://www.youtube.com/playlist?list=...","album":{"author_name":"X","genre":"Jazz"}}]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, configPath, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			applyRunFlags(cmd, opts, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			requests, err := batch.Load(opts.inline, opts.file)
			if err != nil {
				return err
			}

			log := logger.NewWithWriters(cfg.Verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
			defer log.Close()
			setupFileLog(log, cfg)
			if configPath != "" {
				log.Debug("Loaded configuration from: %s", configPath)
			}

			return runBatch(cmd.Context(), cmd, cfg, requests, log)
		},
	}

	cmd.Flags().StringVar(&opts.inline, "json", "", "Batch document as an inline JSON array")
	cmd.Flags().StringVar(&opts.file, "file", "", "Path to a batch document")
	cmd.MarkFlagsMutuallyExclusive("json", "file")
	cmd.MarkFlagsOneRequired("json", "file")

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Plan every playlist without downloading or storing anything")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database for download results")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "Serve live run status on this address, e.g. localhost:8080")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a progress bar per playlist")
	cmd.Flags().StringVarP(&opts.browser, "browser", "b", "", "Browser to extract cookies from")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Audio format: wav, flac, mp3, m4a, opus, etc.")

	return cmd
}

// applyRunFlags overrides config values with the flags actually set
func applyRunFlags(cmd *cobra.Command, opts *runOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.DryRun = opts.dryRun
	}
	if flags.Changed("db") {
		cfg.DatabasePath = config.ExpandHome(opts.dbPath)
	}
	if flags.Changed("listen") {
		cfg.ListenAddr = opts.listen
	}
	if flags.Changed("progress") {
		cfg.ProgressBar = opts.progress
	}
	if flags.Changed("browser") {
		cfg.CookiesBrowser = opts.browser
	}
	if flags.Changed("format") {
		cfg.AudioFormat = opts.format
	}
}

// setupFileLog keeps a full log of non-verbose runs on disk
func setupFileLog(log *logger.Logger, cfg config.Config) {
	if cfg.Verbose {
		return
	}

	logDir := config.GetDefaultLogPath()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn("Failed to create log directory: %v", err)
		return
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("ytbatch_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	if err := log.SetFileLog(logFile); err != nil {
		log.Warn("Failed to setup file logging: %v", err)
		return
	}
	log.Debug("Logging to file: %s", logFile)
}

func runBatch(ctx context.Context, cmd *cobra.Command, cfg config.Config, requests []batch.PlaylistRequest, log *logger.Logger) error {
	hub := web.NewHub()
	log.Info("Run %s: %d playlists", hub.RunID(), len(requests))

	log.Debug("Checking dependencies...")
	if err := utils.CheckDependencies(cfg.YtdlpPath); err != nil {
		log.Warn("%v", err)
	}

	if cfg.ListenAddr != "" {
		stop := serveStatus(cfg.ListenAddr, hub, log)
		defer stop()
	}

	client := ytdlp.NewClient(cfg.YtdlpPath, ytdlp.DownloadOptions{
		Format:         cfg.Format,
		AudioFormat:    cfg.AudioFormat,
		AudioQuality:   cfg.AudioQuality,
		CookiesBrowser: cfg.CookiesBrowser,
		Verbose:        cfg.Verbose,
	})
	client.Stdout = cmd.OutOrStdout()
	client.Stderr = cmd.ErrOrStderr()

	p := pipeline.New(client, client, log)
	p.DryRun = cfg.DryRun
	if cfg.TagFiles {
		p.Tagger = tagger.New()
	}
	p.Hooks = runHooks(hub, log, cfg.ProgressBar && !cfg.Verbose && !cfg.DryRun)

	agg := p.Run(ctx, requests)
	summary := agg.Summary()
	hub.Finish(summary)

	if cfg.DryRun {
		log.Info("=== Dry run completed, nothing downloaded or stored ===")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(summary))
	if skipped := agg.SkippedPlaylists(); len(skipped) > 0 {
		fmt.Fprintln(out, renderSkipped(skipped))
	}

	if err := persist(ctx, cfg, agg.Records(), log); err != nil {
		return err
	}

	log.Info("=== Batch completed: %d of %d tracks downloaded ===", summary.Succeeded, summary.Total)
	return nil
}

// persist stores the records of the run. Failed rows are reported but only a
// store that cannot be opened or prepared is fatal.
func persist(ctx context.Context, cfg config.Config, records []results.Record, log *logger.Logger) error {
	st, err := store.Open(cfg.DatabasePath, store.Options{Atomic: cfg.AtomicPersist})
	if err != nil {
		return err
	}
	defer st.Close()

	log.Debug("Storing %d results in %s", len(records), st.Path())
	if _, err := pipeline.Persist(ctx, st, records, log); err != nil {
		var rowErr *store.RowError
		if !errors.As(err, &rowErr) {
			return err
		}
	}
	return nil
}

// runHooks feeds the live status hub and, when enabled, a progress bar per playlist
func runHooks(hub *web.Hub, log *logger.Logger, showBar bool) pipeline.Hooks {
	var bar *progress.Bar
	status := hub.Hooks()

	return pipeline.Hooks{
		OnPlaylistPlanned: func(album planner.AlbumContext) {
			status.OnPlaylistPlanned(album)
			if showBar {
				bar = progress.New(album.Name, len(album.Tracks))
				log.SetProgressBar(true)
			}
		},
		OnPlaylistSkipped: status.OnPlaylistSkipped,
		OnTrackDone: func(record results.Record) {
			status.OnTrackDone(record)
			if bar != nil {
				bar.Increment(outcome.IsSuccess(record.Outcome))
			}
		},
		OnPlaylistDone: func(planner.AlbumContext) {
			if bar != nil {
				bar.Finish()
				bar = nil
				log.SetProgressBar(false)
			}
		},
	}
}

// serveStatus starts the live status server and returns a function that stops it
func serveStatus(addr string, hub *web.Hub, log *logger.Logger) func() {
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     web.NewServer(hub, log).Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Live status on http://%s/api/results", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Status server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("Status server shutdown error: %v", err)
		}
	}
}
