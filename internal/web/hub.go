package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ytbatch/internal/outcome"
	"ytbatch/internal/pipeline"
	"ytbatch/internal/planner"
	"ytbatch/internal/results"
)

// EventType names a batch progress event
type EventType string

const (
	EventPlaylistStarted EventType = "playlist_started"
	EventPlaylistSkipped EventType = "playlist_skipped"
	EventTrackFinished   EventType = "track_finished"
	EventBatchFinished   EventType = "batch_finished"
)

const timeLayout = "2006-01-02 15:04:05"

// RecordResponse is the wire form of one download result
type RecordResponse struct {
	AlbumURL   string `json:"album_url"`
	AlbumName  string `json:"album_name"`
	SongName   string `json:"song_name"`
	SongURL    string `json:"song_url"`
	Status     string `json:"status"`
	AuthorName string `json:"author_name"`
	Genre      string `json:"genre"`
	Comment    string `json:"comment"`
}

// SkippedResponse is the wire form of a playlist that produced no records
type SkippedResponse struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// SummaryResponse counts the records of a finished batch
type SummaryResponse struct {
	Total            int            `json:"total"`
	Succeeded        int            `json:"succeeded"`
	Failed           int            `json:"failed"`
	ByStatus         map[string]int `json:"by_status"`
	SkippedPlaylists int            `json:"skipped_playlists"`
}

// Event is one message on the websocket stream
type Event struct {
	Type     EventType        `json:"type"`
	RunID    string           `json:"run_id"`
	Time     string           `json:"time"`
	Playlist string           `json:"playlist,omitempty"`
	Album    string           `json:"album,omitempty"`
	Tracks   int              `json:"tracks,omitempty"`
	Record   *RecordResponse  `json:"record,omitempty"`
	Skipped  *SkippedResponse `json:"skipped,omitempty"`
	Summary  *SummaryResponse `json:"summary,omitempty"`
}

// Snapshot is the state of the run so far
type Snapshot struct {
	RunID     string            `json:"run_id"`
	StartedAt string            `json:"started_at"`
	Finished  bool              `json:"finished"`
	Records   []RecordResponse  `json:"records"`
	Skipped   []SkippedResponse `json:"skipped"`
	Summary   *SummaryResponse  `json:"summary,omitempty"`
}

// Hub keeps the live state of one batch run and fans events out to
// subscribers. Slow subscribers miss events rather than block the batch.
type Hub struct {
	runID     string
	startedAt time.Time

	mu        sync.RWMutex
	records   []RecordResponse
	skipped   []SkippedResponse
	summary   *SummaryResponse
	listeners []chan Event
}

// NewHub creates a hub with a fresh run ID
func NewHub() *Hub {
	return &Hub{
		runID:     uuid.NewString(),
		startedAt: time.Now(),
		records:   []RecordResponse{},
		skipped:   []SkippedResponse{},
	}
}

// RunID returns the UUID of this run
func (h *Hub) RunID() string {
	return h.runID
}

// Hooks returns pipeline hooks that publish into the hub
func (h *Hub) Hooks() pipeline.Hooks {
	return pipeline.Hooks{
		OnPlaylistPlanned: h.PlaylistStarted,
		OnPlaylistSkipped: h.PlaylistSkipped,
		OnTrackDone:       h.TrackFinished,
	}
}

// PlaylistStarted publishes the start of a playlist's dispatch
func (h *Hub) PlaylistStarted(album planner.AlbumContext) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.publish(Event{
		Type:     EventPlaylistStarted,
		Playlist: album.URL,
		Album:    album.Name,
		Tracks:   len(album.Tracks),
	})
}

// PlaylistSkipped publishes a playlist aborted before dispatch
func (h *Hub) PlaylistSkipped(failure results.PlaylistFailure) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := SkippedResponse{URL: failure.URL, Status: outcome.Format(failure.Outcome)}
	h.skipped = append(h.skipped, s)
	h.publish(Event{Type: EventPlaylistSkipped, Playlist: failure.URL, Skipped: &s})
}

// TrackFinished publishes one settled track
func (h *Hub) TrackFinished(record results.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r := toRecordResponse(record)
	h.records = append(h.records, r)
	h.publish(Event{Type: EventTrackFinished, Playlist: record.AlbumURL, Album: record.AlbumName, Record: &r})
}

// Finish publishes the end of the batch
func (h *Hub) Finish(summary results.Summary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := toSummaryResponse(summary)
	h.summary = &s
	h.publish(Event{Type: EventBatchFinished, Summary: &s})
}

// Snapshot returns a copy of the run state
func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := Snapshot{
		RunID:     h.runID,
		StartedAt: h.startedAt.Format(timeLayout),
		Finished:  h.summary != nil,
		Records:   append([]RecordResponse{}, h.records...),
		Skipped:   append([]SkippedResponse{}, h.skipped...),
	}
	if h.summary != nil {
		s := *h.summary
		snap.Summary = &s
	}
	return snap
}

// Subscribe registers a listener for events
func (h *Hub) Subscribe() <-chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 64)
	h.listeners = append(h.listeners, ch)
	return ch
}

// Unsubscribe removes a listener
func (h *Hub) Unsubscribe(ch <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, listener := range h.listeners {
		if listener == ch {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			close(listener)
			break
		}
	}
}

// publish must be called with mu held
func (h *Hub) publish(ev Event) {
	ev.RunID = h.runID
	ev.Time = time.Now().Format(timeLayout)
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

func toRecordResponse(r results.Record) RecordResponse {
	return RecordResponse{
		AlbumURL:   r.AlbumURL,
		AlbumName:  r.AlbumName,
		SongName:   r.SongName,
		SongURL:    r.SongURL,
		Status:     outcome.Format(r.Outcome),
		AuthorName: r.AuthorName,
		Genre:      r.Genre,
		Comment:    r.Comment,
	}
}

func toSummaryResponse(s results.Summary) SummaryResponse {
	byStatus := make(map[string]int, len(s.ByTag))
	for tag, n := range s.ByTag {
		byStatus[tag] = n
	}
	return SummaryResponse{
		Total:            s.Total,
		Succeeded:        s.Succeeded,
		Failed:           s.Failed,
		ByStatus:         byStatus,
		SkippedPlaylists: s.SkippedPlaylists,
	}
}
