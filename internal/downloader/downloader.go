package downloader

import (
	"context"
	"errors"

	"ytbatch/internal/logger"
	"ytbatch/internal/outcome"
	"ytbatch/internal/planner"
)

// Fetcher downloads one source URL into an output template.
// An error exposing ExitCode() means the fetcher ran and failed; any other
// error means it could not be run at all.
type Fetcher interface {
	Download(ctx context.Context, url, outputTemplate string) error
}

type exitCoder interface {
	ExitCode() int
}

// Executor performs one download attempt per track and classifies the result
type Executor struct {
	Fetcher Fetcher
	Logger  *logger.Logger
}

// New creates a new Executor
func New(f Fetcher, log *logger.Logger) *Executor {
	return &Executor{
		Fetcher: f,
		Logger:  log,
	}
}

// Fetch attempts track once and returns its outcome. It blocks until the
// fetcher returns.
func (e *Executor) Fetch(ctx context.Context, track planner.TrackRecord, outputTemplate string) outcome.Outcome {
	e.Logger.Debug("Downloading %s -> %s", track.URL, outputTemplate)

	result := Classify(track.URL, e.Fetcher.Download(ctx, track.URL, outputTemplate))

	switch o := result.(type) {
	case outcome.Success:
		e.Logger.Success("Finished downloading: %s", track.URL)
	case outcome.MediaFetchError:
		e.Logger.Error("Error downloading: %s, Status code: %d", track.URL, o.ExitCode)
	case outcome.IOError:
		e.Logger.Error("Could not run the fetcher for %s: %s", track.URL, o.Message)
	}
	return result
}

// Classify maps a fetcher error to an outcome.
func Classify(url string, err error) outcome.Outcome {
	if err == nil {
		return outcome.Success{}
	}

	var coder exitCoder
	if errors.As(err, &coder) {
		return outcome.NewMediaFetchError(url, coder.ExitCode())
	}
	return outcome.IOError{Message: err.Error()}
}
