// Package report renders compound reports and digests as terminal or
// Markdown tables.
package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mikeboe/pharma-news/pkg/research"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode accepts "table" (or "ascii") and "markdown" (or "md").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "table", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return ASCII, fmt.Errorf("unknown table format %q", s)
	}
}

// DefaultColumnWidth wraps long summaries in ASCII mode.
const DefaultColumnWidth = 48

var reportHeader = table.Row{"Molecule", "Latest Summary", "MoA", "Regulatory News", "Clinical News", "Commercial News"}

func newWriter(m Mode) table.Writer {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
		w.Style().Options.SeparateRows = true
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// wrapColumns caps every column except the first at width in ASCII mode.
func wrapColumns(w table.Writer, m Mode, columns, width int) {
	if m != ASCII || width <= 0 {
		return
	}
	cfgs := make([]table.ColumnConfig, 0, columns-1)
	for n := 2; n <= columns; n++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, WidthMax: width})
	}
	w.SetColumnConfigs(cfgs)
}

// Table renders one row per compound in report column order.
func Table(reports []research.CompoundReport, m Mode, width int) string {
	w := newWriter(m)
	w.AppendHeader(reportHeader)
	for _, r := range reports {
		w.AppendRow(table.Row{r.Molecule, r.LatestSummary, r.MoA, r.RegulatoryNews, r.ClinicalNews, r.CommercialNews})
	}
	wrapColumns(w, m, len(reportHeader), width)
	return render(w, m)
}

// SourcesTable lists what happened to every news result of every compound.
func SourcesTable(reports []research.CompoundReport, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Molecule", "Title", "Link", "Category", "Status", "Error"})
	for _, r := range reports {
		for _, s := range r.Sources {
			w.AppendRow(table.Row{r.Molecule, s.Title, s.Link, string(s.Category), string(s.Status), s.Error})
		}
	}
	return render(w, m)
}

// DigestTable renders topic digest items.
func DigestTable(items []research.DigestItem, m Mode, width int) string {
	header := table.Row{"Title", "Link", "Snippet", "Summary", "Tags"}
	w := newWriter(m)
	w.AppendHeader(header)
	for _, it := range items {
		summary := it.Summary
		if it.Error != "" {
			summary = it.Error
		}
		w.AppendRow(table.Row{it.Title, it.Link, it.Snippet, summary, strings.Join(it.Tags, ", ")})
	}
	wrapColumns(w, m, len(header), width)
	return render(w, m)
}
