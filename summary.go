package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"photo-archiver/internal/archiver"
)

// renderSummary formats the per-folder table followed by a one-line tally.
// The table is omitted when nothing was moved.
func renderSummary(s archiver.Summary, dryRun bool) string {
	var b strings.Builder

	if folders := s.FolderNames(); len(folders) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Folder", "Files"})
		for _, name := range folders {
			tw.AppendRow(table.Row{name, s.Folders[name]})
		}
		tw.AppendFooter(table.Row{"Total", s.Moved})
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
			{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
		})
		b.WriteString(tw.Render())
		b.WriteByte('\n')
	}

	verb := "Moved"
	if dryRun {
		verb = "Would move"
	}
	fmt.Fprintf(&b, "%s %d %s (%s); %d unmatched, %d skipped, %d visited\n",
		verb, s.Moved, plural(s.Moved, "file", "files"), humanize.Bytes(uint64(s.Bytes)),
		s.Unmatched, s.Skipped, s.Visited)
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
