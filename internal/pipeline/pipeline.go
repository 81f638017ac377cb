package pipeline

import (
	"context"
	"errors"
	"fmt"

	"ytbatch/internal/batch"
	"ytbatch/internal/downloader"
	"ytbatch/internal/logger"
	"ytbatch/internal/outcome"
	"ytbatch/internal/planner"
	"ytbatch/internal/results"
	"ytbatch/internal/store"
	"ytbatch/internal/ytdlp"
)

// Resolver lists the tracks of a playlist.
type Resolver interface {
	ListPlaylist(ctx context.Context, playlistURL string) (*ytdlp.Playlist, error)
}

// Tagger writes album context into a downloaded track.
type Tagger interface {
	TagTrack(album planner.AlbumContext, track planner.TrackRecord) error
}

// Sink stores the records of a finished run.
type Sink interface {
	Persist(ctx context.Context, records []results.Record) (int, error)
}

// Hooks are notified as the batch progresses. Every field is optional.
type Hooks struct {
	OnPlaylistPlanned func(album planner.AlbumContext)
	OnPlaylistSkipped func(failure results.PlaylistFailure)
	OnTrackDone       func(record results.Record)
	OnPlaylistDone    func(album planner.AlbumContext)
}

// Pipeline processes a batch one playlist and one track at a time
type Pipeline struct {
	Resolver Resolver
	Executor *downloader.Executor
	Tagger   Tagger // nil disables tagging
	Logger   *logger.Logger
	Hooks    Hooks
	DryRun   bool

	// prepareDir is swapped in tests; nil means planner.PrepareDir
	prepareDir func(planner.AlbumContext) error
}

// New creates a Pipeline over the given capabilities
func New(resolver Resolver, fetcher downloader.Fetcher, log *logger.Logger) *Pipeline {
	return &Pipeline{
		Resolver:   resolver,
		Executor:   downloader.New(fetcher, log),
		Logger:     log,
		prepareDir: planner.PrepareDir,
	}
}

// Run processes requests in order and returns the accumulated records.
// Failures of one playlist or one track never stop the batch.
func (p *Pipeline) Run(ctx context.Context, requests []batch.PlaylistRequest) *results.Aggregator {
	agg := results.NewAggregator()

	for i, req := range requests {
		p.Logger.Info("Processing playlist from: %s [%d/%d]", req.URL, i+1, len(requests))

		album, failure := p.planPlaylist(ctx, req)
		if failure != nil {
			p.Logger.Error("%s", outcome.Format(failure))
			agg.SkipPlaylist(req.URL, failure)
			if p.Hooks.OnPlaylistSkipped != nil {
				p.Hooks.OnPlaylistSkipped(results.PlaylistFailure{URL: req.URL, Outcome: failure})
			}
			continue
		}

		if p.DryRun {
			p.describe(album)
			continue
		}

		p.dispatch(ctx, album, agg)
	}

	return agg
}

// planPlaylist resolves, plans and prepares one playlist. A non-nil outcome
// means the playlist must not be dispatched.
func (p *Pipeline) planPlaylist(ctx context.Context, req batch.PlaylistRequest) (planner.AlbumContext, outcome.Outcome) {
	listing, err := p.Resolver.ListPlaylist(ctx, req.URL)
	if err != nil {
		return planner.AlbumContext{}, outcome.MetadataError{Message: err.Error()}
	}
	p.Logger.Success("Successfully fetched playlist info for: %s", req.URL)

	album := planner.Plan(req, *listing)
	if album.Skipped > 0 {
		p.Logger.Debug("Skipped %d entries without a URL or title", album.Skipped)
	}

	if p.DryRun {
		return album, nil
	}

	prepare := p.prepareDir
	if prepare == nil {
		prepare = planner.PrepareDir
	}
	if err := prepare(album); err != nil {
		return planner.AlbumContext{}, outcome.IOError{Message: err.Error()}
	}
	p.Logger.Info("Saving into: %s", album.Dir)
	return album, nil
}

func (p *Pipeline) dispatch(ctx context.Context, album planner.AlbumContext, agg *results.Aggregator) {
	if p.Hooks.OnPlaylistPlanned != nil {
		p.Hooks.OnPlaylistPlanned(album)
	}

	for _, track := range album.Tracks {
		o := p.Executor.Fetch(ctx, track, album.OutputTemplate(track))

		if outcome.IsSuccess(o) && p.Tagger != nil {
			if err := p.Tagger.TagTrack(album, track); err != nil {
				p.Logger.Warn("Could not tag %s: %v", track.Title, err)
			}
		}

		record := results.NewRecord(album, track, o)
		agg.Add(record)
		if p.Hooks.OnTrackDone != nil {
			p.Hooks.OnTrackDone(record)
		}
	}

	if p.Hooks.OnPlaylistDone != nil {
		p.Hooks.OnPlaylistDone(album)
	}
}

func (p *Pipeline) describe(album planner.AlbumContext) {
	p.Logger.Info("Album %q by %s (%s), %d tracks -> %s", album.Name, album.AuthorName, album.Genre, len(album.Tracks), album.Dir)
	for i, track := range album.Tracks {
		p.Logger.Info("[%d/%d] %s -> %s", i+1, len(album.Tracks), track.URL, album.OutputTemplate(track))
	}
}

// Persist writes every record in one pass. Row failures are logged one by
// one; the returned error is non-nil if any row or the store itself failed.
func Persist(ctx context.Context, sink Sink, records []results.Record, log *logger.Logger) (int, error) {
	inserted, err := sink.Persist(ctx, records)
	if err == nil {
		log.Success("Inserted %d download results", inserted)
		return inserted, nil
	}

	var rowErrs int
	for _, e := range unwrapAll(err) {
		var rowErr *store.RowError
		if errors.As(e, &rowErr) {
			rowErrs++
			log.Error("Failed to store result for %s: %v", rowErr.Record.SongURL, rowErr.Err)
			continue
		}
		log.Error("Failed to store results: %v", e)
	}
	log.Warn("Inserted %d of %d download results (%d rows failed)", inserted, len(records), rowErrs)
	return inserted, fmt.Errorf("persist results: %w", err)
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
