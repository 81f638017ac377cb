package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ytbatch/internal/outcome"
	"ytbatch/internal/results"
	"ytbatch/internal/store"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const maxCellWidth = 60

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    maxCellWidth,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSummary shows the per-status counts of a finished batch
func renderSummary(s results.Summary) string {
	rows := make([][]string, 0, len(s.ByTag)+2)
	for _, tag := range s.Tags() {
		rows = append(rows, []string{tag, strconv.Itoa(s.ByTag[tag])})
	}
	rows = append(rows, []string{"Skipped playlists", strconv.Itoa(s.SkippedPlaylists)})
	rows = append(rows, []string{"Total tracks", strconv.Itoa(s.Total)})
	return renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

// renderSkipped lists playlists that produced no records
func renderSkipped(skipped []results.PlaylistFailure) string {
	rows := make([][]string, 0, len(skipped))
	for _, f := range skipped {
		rows = append(rows, []string{f.URL, outcome.Format(f.Outcome)})
	}
	return renderTable([]string{"Playlist", "Reason"}, rows, nil)
}

// renderRows shows stored download results
func renderRows(rows []store.Row) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.FormatInt(r.ID, 10),
			r.AuthorName,
			r.AlbumName,
			r.SongName,
			outcome.Format(r.Outcome),
		})
	}
	return renderTable(
		[]string{"ID", "Author", "Album", "Song", "Status"},
		out,
		[]columnAlignment{alignRight},
	)
}
