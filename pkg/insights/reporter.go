// Package insights composes analysis results into human-readable reports.
// Composition is deliberately forgiving: one failing sub-computation degrades
// its section to a placeholder instead of aborting the whole report.
package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/Dicklesworthstone/orgnet/pkg/analysis"
	"github.com/Dicklesworthstone/orgnet/pkg/model"
)

// Suggestion thresholds on whole-network density.
const (
	sparseDensity = 0.05
	denseDensity  = 0.2
)

const (
	topInfluencers   = 3
	topBridges       = 3
	maxIsolatedNamed = 2
)

// Reporter builds reports from an already-constructed collaboration graph.
// The zero thresholds are replaced by the package defaults; Logger and Now
// are optional.
type Reporter struct {
	Graph   *analysis.Graph
	Health  analysis.HealthConfig
	Silo    analysis.SiloConfig
	Weights analysis.InfluenceWeights

	// Now supplies report timestamps; defaults to time.Now.
	Now func() time.Time
	// Logger receives diagnostic messages for degraded sections.
	Logger func(string)
}

// NewReporter returns a Reporter over gr with default thresholds.
func NewReporter(gr *analysis.Graph) *Reporter {
	return &Reporter{
		Graph:   gr,
		Health:  analysis.DefaultHealthConfig,
		Silo:    analysis.DefaultSiloConfig,
		Weights: analysis.DefaultInfluenceWeights,
	}
}

func (r *Reporter) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reporter) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger(fmt.Sprintf(format, args...))
	}
}

// DepartmentSpotlight is the most internally cohesive department.
type DepartmentSpotlight struct {
	Department string  `json:"department"`
	Cohesion   float64 `json:"cohesion"`
}

// DailyReport is the composed daily snapshot. Sections that failed carry a
// non-empty *Err message and zero-valued data; the rest of the report is
// still populated.
type DailyReport struct {
	GeneratedAt time.Time `json:"generatedAt"`

	People      int     `json:"people"`
	Connections int     `json:"connections"`
	Density     float64 `json:"density"`
	OverviewErr string  `json:"overviewErr,omitempty"`

	Influencers    []analysis.ScoredPerson `json:"influencers"`
	InfluencersErr string                  `json:"influencersErr,omitempty"`

	Spotlight    *DepartmentSpotlight `json:"spotlight,omitempty"`
	SpotlightErr string               `json:"spotlightErr,omitempty"`

	HealthScore float64 `json:"healthScore"`
	HealthErr   string  `json:"healthErr,omitempty"`

	Suggestions []string `json:"suggestions"`
}

// Daily composes the daily insight report. Every section degrades
// independently.
func (r *Reporter) Daily() *DailyReport {
	rep := &DailyReport{GeneratedAt: r.now()}

	density, err := r.Graph.NetworkDensity()
	if err != nil {
		rep.OverviewErr = err.Error()
		r.logf("daily report: overview: %v", err)
	} else {
		rep.People = r.Graph.NumNodes()
		rep.Connections = r.Graph.NumEdges()
		rep.Density = density
	}

	influencers, err := r.Graph.InfluentialPeople(topInfluencers, r.Weights)
	if err != nil {
		rep.InfluencersErr = err.Error()
		r.logf("daily report: influencers: %v", err)
	} else {
		rep.Influencers = influencers
	}

	deptStats, deptErr := r.Graph.DepartmentConnectivity()
	if deptErr != nil {
		rep.SpotlightErr = deptErr.Error()
		r.logf("daily report: department spotlight: %v", deptErr)
	} else if spot := mostCohesive(deptStats); spot != nil {
		rep.Spotlight = spot
	}

	health, err := r.Graph.HealthScore(r.Health)
	if err != nil {
		rep.HealthErr = err.Error()
		r.logf("daily report: health: %v", err)
	} else {
		rep.HealthScore = health
	}

	rep.Suggestions = r.networkSuggestions(density, deptStats)
	return rep
}

// mostCohesive picks the department with the highest internal density,
// ties broken by name.
func mostCohesive(stats map[string]analysis.DepartmentStats) *DepartmentSpotlight {
	var best *DepartmentSpotlight
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := stats[name]
		if best == nil || s.InternalDensity > best.Cohesion {
			best = &DepartmentSpotlight{Department: name, Cohesion: s.InternalDensity}
		}
	}
	return best
}

// networkSuggestions turns the current network shape into a few actionable
// notes. Degraded inputs just shrink the list.
func (r *Reporter) networkSuggestions(density float64, deptStats map[string]analysis.DepartmentStats) []string {
	var out []string

	switch {
	case density > 0 && density < sparseDensity:
		out = append(out, "Consider organizing cross-team social events to increase connections")
	case density > denseDensity:
		out = append(out, "Network is highly connected; focus on quality over quantity in relationships")
	}

	if deptStats != nil {
		isolated, _ := analysis.SiloClassification(deptStats, r.Silo)
		if len(isolated) > 0 {
			names := make([]string, 0, maxIsolatedNamed)
			for _, s := range isolated {
				names = append(names, s.Department)
				if len(names) == maxIsolatedNamed {
					break
				}
			}
			out = append(out, fmt.Sprintf("Encourage %s to participate in cross-team projects", joinNames(names)))
		}
	}

	if bridges, err := r.Graph.BridgePeople(1); err == nil && len(bridges) > 0 && bridges[0].Score > 0 {
		out = append(out, fmt.Sprintf("Ensure %s has adequate support as a key connector", bridges[0].ID))
	}

	if len(out) == 0 {
		out = append(out, "Network appears healthy; maintain current collaboration patterns")
	}
	return out
}

// SiloReport is the composed organizational silo analysis.
type SiloReport struct {
	GeneratedAt time.Time `json:"generatedAt"`

	CommunityCount int    `json:"communityCount"`
	GroupSizes     []int  `json:"groupSizes"`
	CommunitiesErr string `json:"communitiesErr,omitempty"`

	Isolated       []analysis.DepartmentStats `json:"isolated"`
	WellConnected  []analysis.DepartmentStats `json:"wellConnected"`
	DepartmentsErr string                     `json:"departmentsErr,omitempty"`

	Bridges    []analysis.ScoredPerson `json:"bridges"`
	BridgesErr string                  `json:"bridgesErr,omitempty"`

	Suggestions []string `json:"suggestions"`
}

// Silos composes the silo analysis report.
func (r *Reporter) Silos() *SiloReport {
	rep := &SiloReport{GeneratedAt: r.now()}

	comms, err := r.Graph.Communities()
	if err != nil {
		rep.CommunitiesErr = err.Error()
		r.logf("silo report: communities: %v", err)
	} else {
		rep.CommunityCount = len(comms)
		rep.GroupSizes = make([]int, 0, len(comms))
		for _, c := range comms {
			rep.GroupSizes = append(rep.GroupSizes, len(c))
		}
	}

	deptStats, err := r.Graph.DepartmentConnectivity()
	if err != nil {
		rep.DepartmentsErr = err.Error()
		r.logf("silo report: departments: %v", err)
	} else {
		rep.Isolated, rep.WellConnected = analysis.SiloClassification(deptStats, r.Silo)
	}

	bridges, err := r.Graph.BridgePeople(topBridges)
	if err != nil {
		rep.BridgesErr = err.Error()
		r.logf("silo report: bridges: %v", err)
	} else {
		rep.Bridges = bridges
	}

	rep.Suggestions = siloSuggestions(rep.Isolated)
	return rep
}

func siloSuggestions(isolated []analysis.DepartmentStats) []string {
	if len(isolated) == 0 {
		return []string{"No significant silos detected; cross-department connectivity looks good"}
	}
	out := make([]string, 0, len(isolated)+1)
	for _, s := range isolated {
		out = append(out, fmt.Sprintf("Organize joint projects between %s and other departments", s.Department))
	}
	out = append(out, "Consider rotating team members across departments for knowledge sharing")
	return out
}

// RecommendedPerson is one suggestion enriched with directory attributes for
// display.
type RecommendedPerson struct {
	analysis.Recommendation
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

// RecommendationReport is the composed per-person connection report.
type RecommendationReport struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Person      model.Person        `json:"person"`
	Suggestions []RecommendedPerson `json:"suggestions"`
}

// Recommendations builds the connection report for personID. Unlike the
// aggregate reports, an unknown person is a hard error: there is nothing
// sensible to degrade to.
func (r *Reporter) Recommendations(personID string, limit int) (*RecommendationReport, error) {
	recs, err := r.Graph.RecommendConnections(personID, limit)
	if err != nil {
		return nil, err
	}
	person, _ := r.Graph.Person(personID)

	rep := &RecommendationReport{
		GeneratedAt: r.now(),
		Person:      person,
		Suggestions: make([]RecommendedPerson, 0, len(recs)),
	}
	for _, rec := range recs {
		rp := RecommendedPerson{Recommendation: rec}
		if p, ok := r.Graph.Person(rec.PersonID); ok {
			rp.Role = p.Role
			rp.Department = p.DepartmentOrUnknown()
		}
		rep.Suggestions = append(rep.Suggestions, rp)
	}
	return rep, nil
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return names[0] + " and " + names[1]
	}
}
