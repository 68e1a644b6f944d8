// Package tui implements the interactive terminal dashboard: three tabbed
// tables (Pods, Nodes, Services) refreshed from the snapshot loop, a pod log
// overlay, and clipboard copy of the selected resource name.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"kubemon/internal/snapshot"
	"kubemon/pkg/logging"
)

const (
	// logTailLines is how many trailing log lines the overlay requests.
	logTailLines = 200

	// maxOverlayEvents caps the events section of the log overlay.
	maxOverlayEvents = 10

	toastDuration = 2 * time.Second
)

// LogProvider fetches container logs and pod events for the log overlay.
// Both the live cluster client and the mock source satisfy it.
type LogProvider interface {
	PodLogs(ctx context.Context, namespace, name string, tailLines int64) (string, error)
	PodEvents(ctx context.Context, namespace, name string) ([]snapshot.PodEvent, error)
}

// Tab indices, in display order.
const (
	tabPods = iota
	tabNodes
	tabServices
	tabCount
)

var tabKinds = [tabCount]snapshot.Kind{tabPods: snapshot.KindPod, tabNodes: snapshot.KindNode, tabServices: snapshot.KindService}

// Messages handled by the model.
type (
	// cycleMsg carries one completed refresh cycle into the program.
	cycleMsg struct {
		cycle snapshot.Cycle
	}

	// podLogsMsg is the result of a log-and-events fetch for the overlay.
	podLogsMsg struct {
		namespace string
		name      string
		logs      string
		events    []snapshot.PodEvent
		err       error
	}

	clearToastMsg struct{}
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	keys keyMap
	help help.Model

	tables    [tabCount]table.Model
	activeTab int

	cycle     snapshot.Cycle
	haveCycle bool

	namespace   string
	contextName string

	logs          LogProvider
	showLogs      bool
	logView       viewport.Model
	logTitle      string
	logRaw        string
	logEvents     []snapshot.PodEvent
	logErrorsOnly bool

	toast string

	width  int
	height int
	ready  bool
}

// NewModel creates the dashboard model. logs may be nil, in which case the
// log overlay binding is disabled.
func NewModel(namespace, contextName string, logs LogProvider) Model {
	m := Model{
		keys:        defaultKeyMap(),
		help:        help.New(),
		namespace:   namespace,
		contextName: contextName,
		logs:        logs,
	}

	styles := tableStyles()
	columns := [tabCount][]string{tabPods: snapshot.PodColumns, tabNodes: snapshot.NodeColumns, tabServices: snapshot.ServiceColumns}
	for i := range m.tables {
		m.tables[i] = table.New(
			table.WithColumns(layoutColumns(columns[i], tabWeights[i], 80)),
			table.WithFocused(true),
			table.WithStyles(styles),
		)
	}
	return m
}

// Init implements tea.Model. Cycles arrive from outside via Program.Send, so
// there is nothing to kick off here.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case cycleMsg:
		m.cycle = msg.cycle
		m.haveCycle = true
		m.applyCycle()
		return m, nil

	case podLogsMsg:
		if msg.err != nil {
			m.toast = fmt.Sprintf("logs for %s failed: %v", msg.name, msg.err)
			return m, clearToastCmd()
		}
		m.logTitle = fmt.Sprintf("Logs: %s/%s (last %d lines)", msg.namespace, msg.name, logTailLines)
		m.logRaw = msg.logs
		m.logEvents = msg.events
		m.logErrorsOnly = false
		m.renderLogContent()
		m.showLogs = true
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case tea.KeyMsg:
		if m.showLogs {
			return m.updateLogOverlay(msg)
		}
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.Pods):
		m.activeTab = tabPods
		return m, nil

	case key.Matches(msg, m.keys.Nodes):
		m.activeTab = tabNodes
		return m, nil

	case key.Matches(msg, m.keys.Services):
		m.activeTab = tabServices
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		return m.openLogs()

	case key.Matches(msg, m.keys.CopyName):
		return m.copySelectedName()
	}

	var cmd tea.Cmd
	m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
	return m, cmd
}

func (m Model) updateLogOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if msg.String() == "q" {
			m.showLogs = false
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Logs):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.ErrorsOnly):
		m.logErrorsOnly = !m.logErrorsOnly
		m.renderLogContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// errorKeywords select log lines for the errors-only view.
var errorKeywords = []string{"error", "failed", "exception", "panic", "fatal", "warn"}

// renderLogContent fills the overlay viewport from the stored logs and
// events, either in full or filtered down to error-ish lines and
// Warning/Error events.
func (m *Model) renderLogContent() {
	var b strings.Builder

	if m.logErrorsOnly {
		var errorLines []string
		for _, line := range strings.Split(m.logRaw, "\n") {
			lower := strings.ToLower(line)
			for _, kw := range errorKeywords {
				if strings.Contains(lower, kw) {
					errorLines = append(errorLines, line)
					break
				}
			}
		}
		var errorEvents []snapshot.PodEvent
		for _, ev := range m.logEvents {
			if ev.Type == "Warning" || ev.Type == "Error" {
				errorEvents = append(errorEvents, ev)
			}
		}
		if len(errorLines) == 0 && len(errorEvents) == 0 {
			m.logView.SetContent("No errors found in recent logs")
			m.logView.GotoTop()
			return
		}
		if len(errorLines) > 0 {
			b.WriteString("=== ERROR LOGS ===\n")
			b.WriteString(strings.Join(errorLines, "\n"))
			b.WriteString("\n\n")
		}
		writeEventSection(&b, "=== ERROR EVENTS ===", errorEvents)
		m.logView.SetContent(b.String())
		m.logView.GotoTop()
		return
	}

	b.WriteString("=== LOGS ===\n")
	if strings.TrimSpace(m.logRaw) == "" {
		b.WriteString("(no log output)\n")
	} else {
		b.WriteString(m.logRaw)
	}
	b.WriteString("\n")
	writeEventSection(&b, "=== EVENTS ===", m.logEvents)
	m.logView.SetContent(b.String())
	m.logView.GotoBottom()
}

func writeEventSection(b *strings.Builder, title string, events []snapshot.PodEvent) {
	if len(events) == 0 {
		return
	}
	if len(events) > maxOverlayEvents {
		events = events[len(events)-maxOverlayEvents:]
	}
	b.WriteString(title)
	b.WriteString("\n")
	for _, ev := range events {
		when := "Unknown"
		if !ev.Time.IsZero() {
			when = ev.Time.Format(time.DateTime)
		}
		count := ""
		if ev.Count > 1 {
			count = fmt.Sprintf(" (x%d)", ev.Count)
		}
		fmt.Fprintf(b, "[%s] %s: %s%s - %s\n", when, ev.Type, ev.Reason, count, ev.Message)
	}
}

// openLogs starts a log fetch for the selected pod. Only meaningful on the
// Pods tab.
func (m Model) openLogs() (tea.Model, tea.Cmd) {
	if m.activeTab != tabPods || m.logs == nil {
		return m, nil
	}
	row := m.tables[tabPods].SelectedRow()
	if row == nil {
		return m, nil
	}
	name, namespace := row[0], row[1]
	m.toast = fmt.Sprintf("fetching logs for %s...", name)
	return m, tea.Batch(m.fetchLogsCmd(namespace, name), clearToastCmd())
}

func (m Model) fetchLogsCmd(namespace, name string) tea.Cmd {
	provider := m.logs
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), snapshot.DefaultFetchTimeout)
		defer cancel()
		logs, err := provider.PodLogs(ctx, namespace, name, logTailLines)
		if err != nil {
			return podLogsMsg{namespace: namespace, name: name, err: err}
		}
		// Events are garnish; a failed event fetch never blocks the logs.
		events, err := provider.PodEvents(ctx, namespace, name)
		if err != nil {
			logging.Warn("tui", "event fetch for %s/%s failed: %v", namespace, name, err)
			events = nil
		}
		return podLogsMsg{namespace: namespace, name: name, logs: logs, events: events}
	}
}

// copySelectedName puts the selected resource name on the system clipboard.
func (m Model) copySelectedName() (tea.Model, tea.Cmd) {
	row := m.tables[m.activeTab].SelectedRow()
	if row == nil {
		return m, nil
	}
	name := row[0]
	if err := clipboard.WriteAll(name); err != nil {
		m.toast = fmt.Sprintf("copy failed: %v", err)
	} else {
		m.toast = fmt.Sprintf("copied %q", name)
	}
	return m, clearToastCmd()
}

func clearToastCmd() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

// applyCycle replaces every table's rows with the latest cycle, keeping each
// cursor on the same index where possible.
func (m *Model) applyCycle() {
	m.setRows(tabPods, podTableRows(m.cycle.Pods))
	m.setRows(tabNodes, nodeTableRows(m.cycle.Nodes))
	m.setRows(tabServices, serviceTableRows(m.cycle.Services))
}

func (m *Model) setRows(tab int, rows []table.Row) {
	cursor := m.tables[tab].Cursor()
	m.tables[tab].SetRows(rows)
	if len(rows) == 0 {
		return
	}
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.tables[tab].SetCursor(cursor)
}

func podTableRows(rows []snapshot.PodRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row(r.Cells()))
	}
	return out
}

func nodeTableRows(rows []snapshot.NodeRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row(r.Cells()))
	}
	return out
}

func serviceTableRows(rows []snapshot.ServiceRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row(r.Cells()))
	}
	return out
}

// Relative column widths per tab, matching the column order in
// internal/snapshot.
var tabWeights = [tabCount][]int{
	tabPods:     {5, 3, 1, 2, 1, 1, 3},
	tabNodes:    {4, 2, 3, 1, 2},
	tabServices: {4, 3, 2, 2, 2, 3, 1},
}

// layoutColumns distributes the available width over the columns by weight,
// never narrower than the column title.
func layoutColumns(titles []string, weights []int, width int) []table.Column {
	total := 0
	for _, w := range weights {
		total += w
	}
	// Each cell carries one space of padding per side; the border eats two
	// more columns.
	avail := width - 2*len(titles) - 2
	if avail < total {
		avail = total
	}

	columns := make([]table.Column, len(titles))
	for i, title := range titles {
		w := avail * weights[i] / total
		if w < len(title) {
			w = len(title)
		}
		columns[i] = table.Column{Title: title, Width: w}
	}
	return columns
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#444444"}).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}).
		Background(lipgloss.AdaptiveColor{Light: "#0000CC", Dark: "#58A6FF"}).
		Bold(true)
	return s
}

// chromeRows is the number of non-table lines in the main view: header, tab
// bar, banner slot, status line, and the table border.
const chromeRows = 7

func (m *Model) resize() {
	tableHeight := m.height - chromeRows
	if tableHeight < 3 {
		tableHeight = 3
	}
	columns := [tabCount][]string{tabPods: snapshot.PodColumns, tabNodes: snapshot.NodeColumns, tabServices: snapshot.ServiceColumns}
	for i := range m.tables {
		m.tables[i].SetColumns(layoutColumns(columns[i], tabWeights[i], m.width))
		m.tables[i].SetHeight(tableHeight)
	}

	overlayHeight := m.height - 3
	if overlayHeight < 3 {
		overlayHeight = 3
	}
	if m.logView.Width == 0 {
		m.logView = viewport.New(m.width, overlayHeight)
	} else {
		m.logView.Width = m.width
		m.logView.Height = overlayHeight
	}

	m.help.Width = m.width
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showLogs {
		return m.logOverlayView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.tabBarView())
	b.WriteString("\n")
	b.WriteString(m.bannerView())
	b.WriteString("\n")
	b.WriteString(tableBorderStyle.Render(m.tables[m.activeTab].View()))
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return appStyle.Render(b.String())
}

func (m Model) headerView() string {
	refreshed := "-"
	if m.haveCycle {
		refreshed = m.cycle.Taken.Format("15:04:05")
	}
	header := fmt.Sprintf("kubemon  context: %s  namespace: %s  refreshed: %s", m.contextName, m.namespace, refreshed)
	return headerStyle.Render(runewidth.Truncate(header, m.width-2, "…"))
}

func (m Model) tabBarView() string {
	counts := [tabCount]int{
		tabPods:     len(m.cycle.Pods),
		tabNodes:    len(m.cycle.Nodes),
		tabServices: len(m.cycle.Services),
	}
	labels := make([]string, 0, tabCount)
	for i, kind := range tabKinds {
		label := fmt.Sprintf("%ss (%d)", kind, counts[i])
		if i == m.activeTab {
			labels = append(labels, tabActiveStyle.Render(label))
		} else {
			labels = append(labels, tabInactiveStyle.Render(label))
		}
	}
	return " " + strings.Join(labels, "  |  ")
}

// bannerView renders the active tab's fetch warnings, or an empty slot so the
// layout does not jump between cycles.
func (m Model) bannerView() string {
	warns := m.cycle.WarningsFor(tabKinds[m.activeTab])
	if len(warns) == 0 {
		return ""
	}
	parts := make([]string, 0, len(warns))
	for _, w := range warns {
		parts = append(parts, fmt.Sprintf("WARN %v", w.Err))
	}
	return warnBannerStyle.Render(runewidth.Truncate(" "+strings.Join(parts, "; "), m.width-2, "…"))
}

func (m Model) statusView() string {
	if m.toast != "" {
		return toastStyle.Render(" " + runewidth.Truncate(m.toast, m.width-2, "…"))
	}
	return m.help.View(m.keys)
}

func (m Model) logOverlayView() string {
	var b strings.Builder
	b.WriteString(overlayTitleStyle.Render(runewidth.Truncate(m.logTitle, m.width-2, "…")))
	b.WriteString("\n")
	b.WriteString(m.logView.View())
	b.WriteString("\n")
	footer := " esc back • ↑/↓ scroll • e errors only • q close"
	if m.logErrorsOnly {
		footer = " esc back • ↑/↓ scroll • e show all • q close"
	}
	b.WriteString(tabInactiveStyle.Render(footer))
	return b.String()
}
