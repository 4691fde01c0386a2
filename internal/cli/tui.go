package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/graph"
	"github.com/matzehuels/querygraph/pkg/layout"
)

// List styles
var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	tabActive     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactive   = lipgloss.NewStyle().Foreground(colorGray)
	pathMarkStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// Tabs of the browser.
const (
	tabNodes = iota
	tabEdges
)

// autoLayoutMsg asks for a redraw after the editor's automatic layout
// changed state.
type autoLayoutMsg bool

// =============================================================================
// BrowseModel - Interactive graph editing
// =============================================================================

// BrowseModel is the bubbletea model for walking and editing a graph.
type BrowseModel struct {
	ed     *editor.Editor
	output string // where "w" writes the graph; empty disables writing
	weight string // weight property for path search

	tab    int
	rows   []browseRow
	Cursor int
	Offset int
	Height int

	status   string
	quitting bool
}

type browseRow struct {
	id    string
	cells []string
	color string
}

// NewBrowseModel creates a browser over ed.
func NewBrowseModel(ed *editor.Editor, output, weight string) BrowseModel {
	m := BrowseModel{ed: ed, output: output, weight: weight, Height: 15}
	m.reload()
	m.selectCurrent()
	return m
}

func (m *BrowseModel) reload() {
	snap := m.ed.Snapshot()
	m.rows = m.rows[:0]
	if m.tab == tabNodes {
		for _, n := range snap.Nodes {
			m.rows = append(m.rows, browseRow{
				id:    n.ID,
				color: n.Color,
				cells: []string{n.ID, strings.Join(n.Labels, ":"), strconv.Itoa(n.Properties.Len())},
			})
		}
	} else {
		for _, e := range snap.Edges {
			m.rows = append(m.rows, browseRow{
				id:    e.ID,
				cells: []string{e.ID, strings.Join(e.Types, "|"), e.SourceID + " " + iconArrow + " " + e.TargetID},
			})
		}
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(len(m.rows)-1, 0)
	}
	if m.Offset > m.Cursor {
		m.Offset = m.Cursor
	}
}

func (m *BrowseModel) current() (string, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return "", false
	}
	return m.rows[m.Cursor].id, true
}

func (m *BrowseModel) selectCurrent() {
	id, ok := m.current()
	if !ok {
		m.ed.ClearSelection()
		return
	}
	if m.tab == tabNodes {
		m.ed.SelectVertex(id)
	} else {
		m.ed.SelectEdge(id)
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case autoLayoutMsg:
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m BrowseModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
			m.selectCurrent()
		}
	case "down", "j":
		if m.Cursor < len(m.rows)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
			m.selectCurrent()
		}
	case "tab":
		m.tab = (m.tab + 1) % 2
		m.Cursor, m.Offset = 0, 0
		m.ed.SelectTab(m.tab)
		m.reload()
		m.selectCurrent()
	case "d", "delete":
		m.status = m.deleteCurrent()
	case "u":
		m.status = outcome(m.ed.Undo(), "undone", "nothing to undo")
		m.reload()
		m.selectCurrent()
	case "r":
		m.status = outcome(m.ed.Redo(), "redone", "nothing to redo")
		m.reload()
		m.selectCurrent()
	case "s":
		m.ed.SetShortestMode(!m.ed.ShortestMode())
		m.status = outcome(m.ed.ShortestMode(), "path mode: pick start and end with enter", "path mode off")
	case "enter":
		m.status = m.pick()
	case "l":
		m.status = m.cycleLayout()
	case "w":
		m.status = m.write()
	}
	return m, nil
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func (m *BrowseModel) deleteCurrent() string {
	id, ok := m.current()
	if !ok {
		return "nothing selected"
	}
	var deleted bool
	if m.tab == tabNodes {
		deleted = m.ed.DeleteSelected()
	} else {
		deleted = m.ed.DeleteEdge(id)
	}
	m.reload()
	m.selectCurrent()
	return outcome(deleted, "deleted "+id, "could not delete "+id)
}

func (m *BrowseModel) pick() string {
	if m.tab != tabNodes || !m.ed.ShortestMode() {
		return "press s on the nodes tab to pick a path"
	}
	id, ok := m.current()
	if !ok || !m.ed.PickPathVertex(id) {
		return "nothing selected"
	}
	if m.ed.PathEnd() == "" {
		if cands := m.ed.PathCandidates(); len(cands) > 0 {
			return "start " + id + "; weight candidates: " + strings.Join(cands, ", ")
		}
		return "start " + id
	}
	if !m.ed.RunShortestPath(m.weight) {
		return "no path from " + m.ed.PathStart() + " to " + id
	}
	return fmt.Sprintf("%s (weight %g)", m.ed.PathSummary(), m.ed.LastPath().TotalWeight)
}

func (m *BrowseModel) cycleLayout() string {
	all := layout.Strategies()
	next := all[(int(m.ed.LayoutStrategy())+1)%len(all)]
	if err := m.ed.SetLayoutStrategy(next); err != nil {
		return err.Error()
	}
	return "layout " + next.String()
}

func (m *BrowseModel) write() string {
	if m.output == "" {
		return "start with --output to enable writing"
	}
	if err := graph.WriteGraphFile(m.ed.Snapshot(), m.output); err != nil {
		return err.Error()
	}
	return "wrote " + m.output
}

func (m BrowseModel) pathMembers() map[string]bool {
	nodes, edges := m.ed.PathIDs(m.ed.LastPath())
	set := make(map[string]bool, len(nodes)+len(edges))
	for _, id := range append(nodes, edges...) {
		set[id] = true
	}
	return set
}

func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	tabs := []string{"Nodes", "Edges"}
	for i, t := range tabs {
		if i == m.tab {
			b.WriteString(tabActive.Render(t))
		} else {
			b.WriteString(tabInactive.Render(t))
		}
		b.WriteString("  ")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("layout %s · auto %s · undo %s",
		m.ed.LayoutStrategy(), outcome(m.ed.AutomaticLayout(), "on", "off"), outcome(m.ed.CanUndo(), "yes", "no"))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  tab switch  d delete  u/r undo/redo  s path mode  ⏎ pick  l layout  w write  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	onPath := m.pathMembers()

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if onPath[r.id] {
			mark = pathMarkStyle.Render("*")
		}
		rows = append(rows, append([]string{cursor, swatch(r.color) + mark}, r.cells...))
	}

	headers := []string{"", "", "ID", "Labels", "Props"}
	if m.tab == tabEdges {
		headers = []string{"", "", "ID", "Types", "Endpoints"}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.rows)), len(m.rows))))
	if m.status != "" {
		b.WriteString("  " + StyleHighlight.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}
