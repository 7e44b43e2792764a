package presentation

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v2"

	"shootcopy/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

var upper = cases.Upper(language.Und)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintShoots renders the detected shoots as a table with one count column
// per extension found on the card.
func (p Printer) PrintShoots(shoots []domain.Photoshoot) {
	fmt.Fprintf(p.Writer, "Detected %d photoshoots:\n", len(shoots))
	if len(shoots) == 0 {
		return
	}

	exts := extensionColumns(shoots)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"#", "Start", "End"}
	for _, ext := range exts {
		header = append(header, extLabel(ext))
	}
	header = append(header, "Total")
	tw.AppendHeader(header)

	for i, shoot := range shoots {
		row := table.Row{
			i + 1,
			shoot.MinTimestamp().Format(timestampLayout),
			shoot.MaxTimestamp().Format(timestampLayout),
		}
		for _, ext := range exts {
			row = append(row, shoot.CountByExt(ext))
		}
		row = append(row, shoot.Len())
		tw.AppendRow(row)
	}

	columns := make([]table.ColumnConfig, 0, len(header))
	for i := range header {
		align := text.AlignRight
		if i == 1 || i == 2 {
			align = text.AlignLeft
		}
		columns = append(columns, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columns)

	fmt.Fprintln(p.Writer, tw.Render())
}

type shootListing struct {
	Index  int            `yaml:"index"`
	Start  string         `yaml:"start"`
	End    string         `yaml:"end"`
	Counts map[string]int `yaml:"counts"`
	Total  int            `yaml:"total"`
}

// PrintShootsYAML writes the shoots as a YAML list for scripting.
func (p Printer) PrintShootsYAML(shoots []domain.Photoshoot) error {
	listing := make([]shootListing, 0, len(shoots))
	for i, shoot := range shoots {
		counts := map[string]int{}
		for _, ext := range shoot.Extensions() {
			counts[extLabel(ext)] = shoot.CountByExt(ext)
		}
		listing = append(listing, shootListing{
			Index:  i + 1,
			Start:  shoot.MinTimestamp().Format(time.RFC3339),
			End:    shoot.MaxTimestamp().Format(time.RFC3339),
			Counts: counts,
			Total:  shoot.Len(),
		})
	}

	content, err := yaml.Marshal(listing)
	if err != nil {
		return fmt.Errorf("marshal shoots: %w", err)
	}
	_, err = p.Writer.Write(content)
	return err
}

// PrintSummary reports what a backup run did, including every failure.
func (p Printer) PrintSummary(summary domain.RunSummary) {
	fmt.Fprintln(p.Writer)
	for _, shoot := range summary.Shoots {
		line := fmt.Sprintf("Shoot %d: %d/%d files verified, %s in %s",
			shoot.Index,
			shoot.Verified,
			shoot.Files,
			humanize.Bytes(uint64(shoot.Bytes)),
			shoot.Elapsed.Round(time.Millisecond),
		)
		if p.Verbose {
			line += fmt.Sprintf(" [%s] -> %s", shoot.Strategy, shoot.Folder)
		}
		fmt.Fprintln(p.Writer, line)
		if shoot.Failures() > 0 {
			fmt.Fprintf(p.Writer, "  %d copy failures, %d checksum errors, %d mismatches\n",
				shoot.CopyFailures, shoot.ChecksumErrors, shoot.Mismatches)
		}
	}
	for _, aborted := range summary.Aborted {
		fmt.Fprintf(p.Writer, "Shoot %d aborted: %v\n", aborted.Index, aborted.Err)
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(p.Writer, "Skipped %d unreadable files on the card\n", summary.Skipped)
	}
	if len(summary.InvalidSelections) > 0 {
		fmt.Fprintf(p.Writer, "Ignored invalid shoot indices: %s\n", joinInts(summary.InvalidSelections))
	}

	fmt.Fprintln(p.Writer)
	if failures := summary.Failures(); failures > 0 {
		fmt.Fprintf(p.Writer, "Backup finished with %d failures (%d files, %s copied).\n",
			failures, summary.Processed(), humanize.Bytes(uint64(summary.Bytes())))
		return
	}
	fmt.Fprintf(p.Writer, "Backup completed! %d files, %s copied.\n",
		summary.Processed(), humanize.Bytes(uint64(summary.Bytes())))
}

func extensionColumns(shoots []domain.Photoshoot) []string {
	seen := map[string]bool{}
	for _, shoot := range shoots {
		for _, ext := range shoot.Extensions() {
			seen[ext] = true
		}
	}
	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func extLabel(ext string) string {
	if ext == "" {
		return "OTHER"
	}
	return upper.String(ext)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
