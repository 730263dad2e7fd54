// Package ui is the interactive terminal frontend: a ranked people list, an
// insights grid, and a rendered daily report.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/orgnet/pkg/analysis"
	"github.com/Dicklesworthstone/orgnet/pkg/insights"
)

type viewTab int

const (
	tabRankings viewTab = iota
	tabInsights
	tabReport
	tabCount
)

func (t viewTab) String() string {
	switch t {
	case tabRankings:
		return "Rankings"
	case tabInsights:
		return "Insights"
	case tabReport:
		return "Report"
	default:
		return "?"
	}
}

// Model is the root bubbletea model.
type Model struct {
	graph    *analysis.Graph
	reporter *insights.Reporter

	tab      viewTab
	people   list.Model
	grid     InsightsModel
	daily    *insights.DailyReport
	silos    *insights.SiloReport
	reportMD string

	width    int
	height   int
	status   string
	rendered string
}

// NewModel builds the UI from an analyzed graph. Analysis runs up front; the
// event loop itself never blocks on computation.
func NewModel(gr *analysis.Graph, rep *insights.Reporter) Model {
	daily := rep.Daily()
	silos := rep.Silos()

	items := rankingItems(gr, rep.Weights)
	l := list.New(items, PersonDelegate{}, 0, 0)
	l.Title = "People by influence"
	l.SetShowStatusBar(false)
	l.Styles.Title = titleStyle

	return Model{
		graph:    gr,
		reporter: rep,
		people:   l,
		grid:     NewInsightsModel(daily, silos),
		daily:    daily,
		silos:    silos,
		reportMD: daily.Markdown() + "\n" + silos.Markdown(),
	}
}

func rankingItems(gr *analysis.Graph, weights analysis.InfluenceWeights) []list.Item {
	metrics, err := gr.Centrality()
	if err != nil {
		return nil
	}
	scores, err := gr.InfluenceScores(weights)
	if err != nil {
		return nil
	}

	ids := gr.Order()
	sort.SliceStable(ids, func(i, j int) bool {
		if scores[ids[i]] == scores[ids[j]] {
			return ids[i] < ids[j]
		}
		return scores[ids[i]] > scores[ids[j]]
	})

	items := make([]list.Item, 0, len(ids))
	for rank, id := range ids {
		p, _ := gr.Person(id)
		items = append(items, PersonItem{
			Person:    p,
			Metrics:   metrics[id],
			Influence: scores[id],
			Rank:      rank + 1,
		})
	}
	return items
}

// SnapshotMsg carries a freshly rebuilt graph into the running UI (sent by
// the data source watcher).
type SnapshotMsg struct {
	Graph *analysis.Graph
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.graph = msg.Graph
		m.reporter.Graph = msg.Graph
		m.daily = m.reporter.Daily()
		m.silos = m.reporter.Silos()
		m.grid = NewInsightsModel(m.daily, m.silos)
		m.grid.SetSize(m.width, m.height-3)
		m.reportMD = m.daily.Markdown() + "\n" + m.silos.Markdown()
		m.rendered = renderMarkdown(m.reportMD, m.width-2)
		m.people.SetItems(rankingItems(m.graph, m.reporter.Weights))
		m.status = "data source changed; view refreshed"
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.people.SetSize(msg.Width, msg.Height-3)
		m.grid.SetSize(msg.Width, msg.Height-3)
		m.rendered = renderMarkdown(m.reportMD, msg.Width-2)
		return m, nil

	case tea.KeyMsg:
		// While the list filter is active, keys belong to it.
		if m.tab == tabRankings && m.people.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.tab = (m.tab + 1) % tabCount
			m.status = ""
			return m, nil
		case "shift+tab":
			m.tab = (m.tab + tabCount - 1) % tabCount
			m.status = ""
			return m, nil
		case "y":
			if m.tab == tabReport {
				if err := clipboard.WriteAll(m.reportMD); err != nil {
					m.status = fmt.Sprintf("copy failed: %v", err)
				} else {
					m.status = "report copied to clipboard"
				}
				return m, nil
			}
		}
	}

	if m.tab == tabRankings {
		var cmd tea.Cmd
		m.people, cmd = m.people.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch m.tab {
	case tabRankings:
		body = m.people.View()
	case tabInsights:
		body = m.grid.View()
	case tabReport:
		body = m.reportView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.tabBar(), body, m.statusBar())
}

func (m Model) reportView() string {
	if m.rendered != "" {
		return m.rendered
	}
	return m.reportMD
}

// renderMarkdown runs the report through glamour; on any renderer failure the
// raw markdown is still readable.
func renderMarkdown(md string, width int) string {
	if width < 20 {
		width = 78
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m Model) tabBar() string {
	var tabs []string
	for t := viewTab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	return strings.Join(tabs, "")
}

func (m Model) statusBar() string {
	if m.status != "" {
		return statusBarStyle.Render(m.status)
	}
	hint := "tab: switch view • q: quit"
	if m.tab == tabReport {
		hint = "y: copy report • " + hint
	}
	return statusBarStyle.Render(hint)
}
