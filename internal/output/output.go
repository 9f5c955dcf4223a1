// Package output renders scoring results for the command line: score and
// signal tables for humans, JSON for machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/esglens/internal/esg"
)

// quotePreviewLength bounds evidence quotes in the signals table.
const quotePreviewLength = 80

// RenderJSON writes the full result as indented JSON.
func RenderJSON(w io.Writer, result *esg.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}

// RenderTables writes the human-readable report: scores, per-category
// signals, provenance summary, and the narrative.
func RenderTables(w io.Writer, result *esg.Result) {
	renderScores(w, result)
	renderSignals(w, result)
	renderProvenance(w, result)

	fmt.Fprintf(w, "\nNarrative:\n%s\n", result.Narrative)
	if result.Degraded {
		fmt.Fprintln(w, "\nNote: one or more external services were unavailable; treat this result as partial.")
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.DrawBorder = true

	return t
}

func renderScores(w io.Writer, result *esg.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Pillar", "Score"})
	t.AppendRow(table.Row{"Environmental", result.Scores.E})
	t.AppendRow(table.Row{"Social", result.Scores.S})
	t.AppendRow(table.Row{"Governance", result.Scores.G})
	t.AppendFooter(table.Row{"Total", result.Scores.Total})

	fmt.Fprintf(w, "\nESG Scores for %s (run %s):\n", result.RootURL, result.RunID)
	t.Render()
}

func renderSignals(w io.Writer, result *esg.Result) {
	rows := signalRows(result.Signals)
	if len(rows) == 0 {
		fmt.Fprintln(w, "\nNo ESG signals were extracted.")
		return
	}

	t := newTable(w)
	t.Style().Options.SeparateRows = true
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: quotePreviewLength},
	})
	t.AppendHeader(table.Row{"Pillar", "Category", "Polarity", "Strength", "Evidence"})
	for _, row := range rows {
		t.AppendRow(row)
	}

	fmt.Fprintf(w, "\nSignals:\n")
	t.Render()
}

// signalRows flattens the signal set into stable pillar/category order.
func signalRows(set esg.AggregatedSignalSet) []table.Row {
	var rows []table.Row

	for _, pillar := range esg.Pillars {
		signals := set[pillar]
		if len(signals) == 0 {
			continue
		}

		categories := make([]esg.Category, 0, len(signals))
		for category := range signals {
			categories = append(categories, category)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

		for _, category := range categories {
			signal := signals[category]
			rows = append(rows, table.Row{
				string(pillar),
				string(category),
				string(signal.Polarity),
				fmt.Sprintf("%.2f", signal.Strength),
				truncate(collapseWhitespace(signal.BestQuote), quotePreviewLength),
			})
		}
	}

	return rows
}

func renderProvenance(w io.Writer, result *esg.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Source", "Count"})
	t.AppendRow(table.Row{"Pages crawled", len(result.Provenance.CrawledURLs)})
	t.AppendRow(table.Row{"On-site PDFs", len(result.Provenance.OnsitePDFURLs)})
	t.AppendRow(table.Row{"External PDFs", len(result.Provenance.ExternalPDFURLs)})
	t.AppendRow(table.Row{"External pages", len(result.Provenance.ExternalHTMLURLs)})
	t.AppendRow(table.Row{"Search snippets", result.Provenance.SnippetCount})
	t.AppendFooter(table.Row{"Evidence items", len(result.Evidence)})

	fmt.Fprintf(w, "\nEvidence sources:\n")
	t.Render()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length-3] + "..."
}
