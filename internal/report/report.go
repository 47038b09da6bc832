// Package report renders evaluation outcomes as markdown and HTML for the
// report server and documentation.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"fairbench/app"
	"fairbench/ports"
)

// Markdown renders an evaluation report and recent run history as markdown.
func Markdown(report *app.EvalReport, history []ports.RunRecord) string {
	var b strings.Builder

	b.WriteString("# Fairness evaluation report\n\n")
	if report != nil {
		fmt.Fprintf(&b, "Dataset: `%s` (computed %s)\n\n", report.Dataset, report.ComputedAt.Format(time.RFC3339))
		b.WriteString("| Metric | Score | Elapsed |\n")
		b.WriteString("| --- | --- | --- |\n")
		fmt.Fprintf(&b, "| FTU | %.4f | %s |\n", report.FTU, report.FTUElapsed.Round(time.Millisecond))
		fmt.Fprintf(&b, "| Demographic parity | %.4f | %s |\n\n", report.DemographicParity, report.ParityElapsed.Round(time.Millisecond))
	} else {
		b.WriteString("No evaluation has been computed yet.\n\n")
	}

	if len(history) > 0 {
		b.WriteString("## Recent runs\n\n")
		b.WriteString("| Kind | Subject | Score | Passed | Elapsed |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, run := range history {
			fmt.Fprintf(&b, "| %s | %s | %.4f | %t | %s |\n",
				run.Kind, run.Subject, run.Score, run.Passed, run.Elapsed.Round(time.Millisecond))
		}
	}
	return b.String()
}

// HTML renders the markdown report as a standalone HTML fragment.
func HTML(report *app.EvalReport, history []ports.RunRecord) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(report, history)), p, renderer)
}
