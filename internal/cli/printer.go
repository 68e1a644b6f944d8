// Package cli renders refresh cycles as formatted tables on a plain
// terminal: one dump per cycle, with inline warnings under the affected
// tables. It is the non-interactive counterpart of internal/tui.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"kubemon/internal/snapshot"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})
	headerStyle = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8B6508", Dark: "#F4BF4F"})
)

// Printer writes cycle dumps to Out. With ClearScreen set it repaints in
// place instead of scrolling, for live (interval > 0) runs on a TTY.
type Printer struct {
	Out         io.Writer
	ClearScreen bool
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out}
}

// PrintCycle renders one complete cycle: a timestamp header and the three
// tables. Kinds that failed this cycle render their warning instead of rows;
// the healthy tables still print in full.
func (p *Printer) PrintCycle(c snapshot.Cycle) {
	if p.ClearScreen {
		fmt.Fprint(p.Out, "\033[2J\033[H")
	}
	fmt.Fprintln(p.Out, titleStyle.Render(fmt.Sprintf("Kubernetes Dashboard - %s", c.Taken.Format(time.DateTime))))
	fmt.Fprintln(p.Out)

	p.printSection(string(snapshot.KindPod)+"s", snapshot.PodColumns, podCells(c.Pods), c.WarningsFor(snapshot.KindPod))
	p.printSection(string(snapshot.KindNode)+"s", snapshot.NodeColumns, nodeCells(c.Nodes), c.WarningsFor(snapshot.KindNode))
	p.printSection(string(snapshot.KindService)+"s", snapshot.ServiceColumns, serviceCells(c.Services), c.WarningsFor(snapshot.KindService))
}

func (p *Printer) printSection(title string, columns []string, rows [][]string, warns []snapshot.Warning) {
	fmt.Fprintln(p.Out, titleStyle.Render(title))
	if len(rows) == 0 && len(warns) == 0 {
		fmt.Fprintln(p.Out, "  (none)")
	} else if len(rows) > 0 {
		fmt.Fprintln(p.Out, renderTable(columns, rows))
	}
	for _, w := range warns {
		fmt.Fprintln(p.Out, warnStyle.Render(fmt.Sprintf("  WARN %v", w.Err)))
	}
	fmt.Fprintln(p.Out)
}

func renderTable(columns []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

func podCells(rows []snapshot.PodRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return out
}

func nodeCells(rows []snapshot.NodeRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return out
}

func serviceCells(rows []snapshot.ServiceRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return out
}
