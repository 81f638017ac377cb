// Package results accumulates one record per dispatched track over a batch run.
package results

import (
	"sort"

	"ytbatch/internal/outcome"
	"ytbatch/internal/planner"
)

// Record is the final accounting of one track.
type Record struct {
	AlbumURL   string
	AlbumName  string
	SongName   string
	SongURL    string
	AuthorName string
	Genre      string
	Comment    string
	Outcome    outcome.Outcome
}

// NewRecord combines a track, its album and the attempt outcome.
func NewRecord(album planner.AlbumContext, track planner.TrackRecord, o outcome.Outcome) Record {
	return Record{
		AlbumURL:   album.URL,
		AlbumName:  album.Name,
		SongName:   track.Title,
		SongURL:    track.URL,
		AuthorName: track.AuthorName,
		Genre:      track.Genre,
		Comment:    track.Comment,
		Outcome:    o,
	}
}

// PlaylistFailure notes a playlist aborted before any of its tracks were dispatched.
type PlaylistFailure struct {
	URL     string
	Outcome outcome.Outcome
}

// Aggregator is the append-only sequence of records of one run. It is owned
// by the single control goroutine and is not safe for concurrent use.
type Aggregator struct {
	records []Record
	skipped []PlaylistFailure
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends one record.
func (a *Aggregator) Add(r Record) {
	a.records = append(a.records, r)
}

// SkipPlaylist notes a playlist that produced no records.
func (a *Aggregator) SkipPlaylist(url string, o outcome.Outcome) {
	a.skipped = append(a.skipped, PlaylistFailure{URL: url, Outcome: o})
}

// Records returns a copy of the records in processing order.
func (a *Aggregator) Records() []Record {
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// SkippedPlaylists returns a copy of the playlist failures in processing order.
func (a *Aggregator) SkippedPlaylists() []PlaylistFailure {
	out := make([]PlaylistFailure, len(a.skipped))
	copy(out, a.skipped)
	return out
}

// Len returns the number of records.
func (a *Aggregator) Len() int {
	return len(a.records)
}

// Summary counts the records of a run.
type Summary struct {
	Total            int
	Succeeded        int
	Failed           int
	ByTag            map[string]int
	SkippedPlaylists int
}

// Tags returns the outcome tags present in the summary, sorted.
func (s Summary) Tags() []string {
	tags := make([]string, 0, len(s.ByTag))
	for tag := range s.ByTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Summary computes the counts of the records added so far.
func (a *Aggregator) Summary() Summary {
	s := Summary{
		Total:            len(a.records),
		ByTag:            make(map[string]int),
		SkippedPlaylists: len(a.skipped),
	}
	for _, r := range a.records {
		tag := outcome.TagPending
		if r.Outcome != nil {
			tag = r.Outcome.Tag()
		}
		s.ByTag[tag]++
		if outcome.IsSuccess(r.Outcome) {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
