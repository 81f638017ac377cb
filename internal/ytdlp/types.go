package ytdlp

// Playlist is the flat listing of a remote playlist. An empty Title means the
// source did not report one.
type Playlist struct {
	Title   string
	Entries []Entry
}

// Entry is one item of a flat listing. Fields the source left out, set to null
// or gave a non-string value are empty.
type Entry struct {
	URL   string
	Title string
}

// DownloadOptions fixes how every track is fetched.
type DownloadOptions struct {
	Format         string // stream selector, e.g. "bestaudio"
	AudioFormat    string // extraction target, e.g. "wav"
	AudioQuality   string // e.g. "160k"
	CookiesBrowser string // empty means no cookies
	Verbose        bool   // stream yt-dlp output to the console
}
