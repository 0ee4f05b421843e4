package cli

import (
	"fmt"
	"io"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/views"
)

// Renderer prints view models as plain text
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) section(title string) {
	fmt.Fprintf(r.out, "\n=== %s ===\n", title)
}

// Result prints a check result
func (r *Renderer) Result(view *views.ResultView) {
	r.section("Analysis Result")
	fmt.Fprintf(r.out, "%s\n", view.Title)
	if view.Kind == core.KindEmail {
		fmt.Fprintf(r.out, "Subject: %s\n", view.Subject)
		fmt.Fprintf(r.out, "From: %s\n", view.Sender)
	} else {
		fmt.Fprintf(r.out, "URL: %s\n", view.URL)
	}
	fmt.Fprintf(r.out, "%s\n", view.Confidence)
	fmt.Fprintf(r.out, "\n%s\n", view.Explanation)

	if len(view.AnalyzedURLs) > 0 {
		r.section("Detected URLs")
		for _, u := range view.AnalyzedURLs {
			fmt.Fprintf(r.out, "%-10s %s\n", u.Verdict, u.URL)
		}
	}

	if len(view.Features) > 0 {
		r.section("Key Detection Factors")
		for _, row := range view.Features {
			fmt.Fprintf(r.out, "%s: %s\n", row.Label, row.Value)
		}
	}
}

// History prints a loaded history tab
func (r *Renderer) History(state views.HistoryState) {
	if state.Tab == core.KindEmail {
		r.section("Email Check History")
	} else {
		r.section("URL Check History")
	}

	if state.Empty() {
		fmt.Fprintf(r.out, "%s\n", state.EmptyText)
		return
	}

	for _, row := range state.Rows {
		if state.Tab == core.KindEmail {
			fmt.Fprintf(r.out, "%s  %-10s %-6s %s <%s>\n", row.Date, row.Verdict, row.Confidence, row.Primary, row.Secondary)
		} else {
			fmt.Fprintf(r.out, "%s  %-10s %-6s %s\n", row.Date, row.Verdict, row.Confidence, row.Primary)
		}
	}
}

// Dashboard prints the statistics overview
func (r *Renderer) Dashboard(d *views.Dashboard) {
	for _, panel := range []views.CategoryPanel{d.URLs, d.Emails} {
		r.section(panel.Title)
		for _, tile := range panel.Tiles {
			fmt.Fprintf(r.out, "%s: %s\n", tile.Label, tile.Value)
		}
		if panel.Chart == nil {
			fmt.Fprintf(r.out, "%s\n", panel.NoDataText)
		}
	}

	r.section("Recent URL Checks")
	if len(d.Recent) == 0 {
		fmt.Fprintf(r.out, "%s\n", d.RecentEmptyText)
		return
	}
	for _, row := range d.Recent {
		fmt.Fprintf(r.out, "%s  %-10s %s\n", row.Date, row.Status, row.URL)
	}
}

// Error prints a failure message
func (r *Renderer) Error(message string) {
	fmt.Fprintf(r.out, "Error: %s\n", message)
}
