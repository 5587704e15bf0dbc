package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

const timeRound = 10 * time.Millisecond

// printReport renders the run outcome. On a terminal the markdown report is
// rendered with glamour and a colored verdict line; piped output stays plain
// markdown.
func printReport(w io.Writer, result *domain.OptimizationResult) error {
	md := buildReport(result)

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		_, err := fmt.Fprint(w, md)
		return err
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		_, err := fmt.Fprint(w, md)
		return err
	}
	out, err := renderer.Render(md)
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	fmt.Fprintln(w, verdictLine(result))
	return nil
}

// verdictLine is the one-line colored summary under the report.
func verdictLine(result *domain.OptimizationResult) termenv.Style {
	p := termenv.ColorProfile()
	improvement := result.ImprovementPct()
	switch {
	case result.Degraded:
		return termenv.String("  ~ degraded run: no usable baseline, values are unnormalized").Foreground(p.Color("#fbbf24"))
	case improvement > 0:
		return termenv.String(fmt.Sprintf("  + improved %.2f%% over the baseline", improvement)).Foreground(p.Color("#34d399"))
	default:
		return termenv.String("  = no improvement found over the baseline").Foreground(p.Color("#94a3b8"))
	}
}

func buildReport(result *domain.OptimizationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Optimization Report\n\n")
	if result.RunID != "" {
		fmt.Fprintf(&b, "Run `%s` ", result.RunID)
	}
	fmt.Fprintf(&b, "for class **%s**, maximizing **%s**.\n\n", result.Class, result.Metric)

	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Best metric | %.2f |\n", result.BestMetric)
	fmt.Fprintf(&b, "| Baseline | %.2f |\n", result.Baseline)
	fmt.Fprintf(&b, "| Improvement | %.2f%% |\n", result.ImprovementPct())
	fmt.Fprintf(&b, "| Iterations | %d |\n", result.Iterations)
	fmt.Fprintf(&b, "| Accepted moves | %d |\n", result.Accepted)
	fmt.Fprintf(&b, "| Stop reason | %s |\n", result.Reason)
	fmt.Fprintf(&b, "| %s | |\n", result.Budget)
	fmt.Fprintf(&b, "| Elapsed | %s |\n\n", result.Elapsed.Round(timeRound))

	ids := result.Allocation.IDs()
	fmt.Fprintf(&b, "## Allocation (%d nodes)\n\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&b, "- %d\n", id)
	}
	b.WriteString("\n")
	return b.String()
}
