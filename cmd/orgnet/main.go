package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/orgnet/internal/datasource"
	"github.com/Dicklesworthstone/orgnet/pkg/analysis"
	"github.com/Dicklesworthstone/orgnet/pkg/config"
	"github.com/Dicklesworthstone/orgnet/pkg/insights"
	"github.com/Dicklesworthstone/orgnet/pkg/store"
	"github.com/Dicklesworthstone/orgnet/pkg/ui"
	"github.com/Dicklesworthstone/orgnet/pkg/version"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Path to config file (default: $ORGNET_CONFIG)")
	dbPath := flag.String("db", "", "Path to SQLite database (default: $ORGNET_DB or ./orgnet.db)")
	baseURL := flag.String("url", "", "HTTP entity store base URL (default: $ORGNET_URL)")
	apiKey := flag.String("api-key", "", "Bearer token for the HTTP store")

	daily := flag.Bool("daily", false, "Print the daily insight report and exit")
	silos := flag.Bool("silos", false, "Print the silo analysis report and exit")
	recommend := flag.String("recommend", "", "Print connection recommendations for a person (empty = pick interactively)")
	limit := flag.Int("limit", 5, "Maximum recommendations with --recommend")
	orgChart := flag.String("org-chart", "", "Print the org chart, optionally filtered to a department")
	influential := flag.Int("influential", 0, "Print the top N influential people and exit")
	robotInsights := flag.Bool("robot-insights", false, "Output network analysis as JSON for automation")
	noWatch := flag.Bool("no-watch", false, "Disable live data source watching in the TUI")
	flag.Parse()

	if *help {
		fmt.Println("Usage: orgnet [options]")
		fmt.Println("\nWorkplace network analysis: influence rankings, silo detection,")
		fmt.Println("org charts, and connection recommendations from a people graph.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("orgnet %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *dbPath != "" {
		cfg.Source.DBPath = *dbPath
	}
	if *baseURL != "" {
		cfg.Source.URL = *baseURL
	}
	if *apiKey != "" {
		cfg.Source.APIKey = *apiKey
	}

	sources := datasource.Discover(datasource.DiscoveryOptions{
		DBPath:       cfg.Source.DBPath,
		HTTPEndpoint: cfg.Source.URL,
		HTTPAPIKey:   cfg.Source.APIKey,
	})
	if len(sources) == 0 {
		fmt.Fprintln(os.Stderr, "No data source found. Point me at one with --db or --url.")
		os.Exit(1)
	}

	source, st, closeStore, err := openFirstValid(sources)
	if err != nil {
		fatal(err)
	}
	defer closeStore()

	refresher := &datasource.Refresher{
		Store:                     st,
		IncludeInteractionWeights: cfg.IncludeInteractionWeights,
	}
	snap, err := refresher.Refresh(context.Background())
	if err != nil {
		fatal(err)
	}

	reporter := insights.NewReporter(snap.Graph)
	reporter.Health = cfg.Thresholds.Health
	reporter.Silo = cfg.Thresholds.Silo
	reporter.Weights = cfg.Thresholds.Influence

	switch {
	case *robotInsights:
		runRobotInsights(snap, cfg)
	case *daily:
		printMarkdown(reporter.Daily().Markdown())
	case *silos:
		printMarkdown(reporter.Silos().Markdown())
	case flagPassed("recommend"):
		runRecommend(reporter, snap.Graph, *recommend, *limit)
	case flagPassed("org-chart"):
		runOrgChart(snap.Directed, *orgChart)
	case *influential > 0:
		runInfluential(snap.Graph, cfg.Thresholds.Influence, *influential)
	default:
		runTUI(snap, reporter, refresher, source, *noWatch)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

// openFirstValid validates sources in priority order and opens the first
// usable one.
func openFirstValid(sources []datasource.DataSource) (datasource.DataSource, store.EntityStore, func(), error) {
	var lastErr error
	for _, src := range sources {
		if err := datasource.Validate(&src, datasource.ValidationOptions{CountPeople: true}); err != nil {
			lastErr = err
			continue
		}
		st, closeFn, err := src.Open()
		if err != nil {
			lastErr = err
			continue
		}
		return src, st, func() { _ = closeFn() }, nil
	}
	return datasource.DataSource{}, nil, nil, fmt.Errorf("no usable data source: %w", lastErr)
}

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// printMarkdown renders through glamour when stdout is a terminal and falls
// back to raw markdown otherwise (pipes, redirects).
func printMarkdown(md string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(termWidth()-2),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// robotReport is the machine-readable aggregate for --robot-insights.
type robotReport struct {
	Metrics     map[string]analysis.Metrics         `json:"metrics"`
	Influential []analysis.ScoredPerson             `json:"influential"`
	Communities [][]string                          `json:"communities"`
	Departments map[string]analysis.DepartmentStats `json:"departments"`
	Bridges     []analysis.ScoredPerson             `json:"bridges"`
	Density     float64                             `json:"density"`
	HealthScore float64                             `json:"healthScore"`
	OrgChart    *analysis.OrgChart                  `json:"orgChart,omitempty"`
}

func runRobotInsights(snap *datasource.Snapshot, cfg config.Config) {
	gr := snap.Graph
	report := robotReport{}
	var err error

	if report.Metrics, err = gr.Centrality(); err != nil {
		fatal(err)
	}
	if report.Influential, err = gr.InfluentialPeople(50, cfg.Thresholds.Influence); err != nil {
		fatal(err)
	}
	if report.Communities, err = gr.Communities(); err != nil {
		fatal(err)
	}
	if report.Departments, err = gr.DepartmentConnectivity(); err != nil {
		fatal(err)
	}
	if report.Bridges, err = gr.BridgePeople(50); err != nil {
		fatal(err)
	}
	if report.Density, err = gr.NetworkDensity(); err != nil {
		fatal(err)
	}
	if report.HealthScore, err = gr.HealthScore(cfg.Thresholds.Health); err != nil {
		fatal(err)
	}
	// The org chart is best-effort: a cyclic reporting line should not kill
	// the rest of the output.
	if chart, err := analysis.BuildOrgChart(snap.Directed); err == nil {
		report.OrgChart = chart
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fatal(err)
	}
}

func runRecommend(reporter *insights.Reporter, gr *analysis.Graph, personID string, limit int) {
	if personID == "" {
		ids := gr.Order()
		if len(ids) == 0 {
			fmt.Fprintln(os.Stderr, "No people in the network.")
			os.Exit(1)
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Who are the recommendations for?").
				Options(huh.NewOptions(ids...)...).
				Value(&personID),
		))
		if err := form.Run(); err != nil {
			fatal(err)
		}
	}

	rep, err := reporter.Recommendations(personID, limit)
	if err != nil {
		fatal(err)
	}
	printMarkdown(rep.Markdown())
}

func runOrgChart(dg *analysis.DirectedGraph, department string) {
	chart, err := analysis.BuildOrgChart(dg)
	if err != nil {
		fatal(err)
	}
	if department != "" {
		chart = chart.FilterByDepartment(department)
	}
	if len(chart.Roots) == 0 {
		fmt.Println("No reporting structure found.")
		return
	}

	var b strings.Builder
	for _, root := range chart.Roots {
		writeOrgNode(&b, root, 0)
	}
	fmt.Printf("Org chart (%d people)\n\n%s", chart.Count(), b.String())
}

func writeOrgNode(b *strings.Builder, n *analysis.OrgNode, depth int) {
	indent := strings.Repeat("  ", depth)
	label := n.ID
	if n.Role != "" {
		label += " · " + n.Role
	}
	fmt.Fprintf(b, "%s%s (%s)\n", indent, label, n.Department)
	for _, r := range n.DirectReports {
		writeOrgNode(b, r, depth+1)
	}
}

func runInfluential(gr *analysis.Graph, weights analysis.InfluenceWeights, n int) {
	top, err := gr.InfluentialPeople(n, weights)
	if err != nil {
		fatal(err)
	}
	for i, p := range top {
		fmt.Printf("%2d. %-30s %.3f\n", i+1, p.ID, p.Score)
	}
}

func runTUI(snap *datasource.Snapshot, reporter *insights.Reporter, refresher *datasource.Refresher, source datasource.DataSource, noWatch bool) {
	m := ui.NewModel(snap.Graph, reporter)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if !noWatch {
		w, err := datasource.NewWatcher(source, func(datasource.DataSource) {
			fresh, err := refresher.Refresh(context.Background())
			if err != nil {
				return // keep showing the last good snapshot
			}
			p.Send(ui.SnapshotMsg{Graph: fresh.Graph})
		}, datasource.WatchOptions{})
		if err == nil {
			w.Start()
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}
