package analysis

import "sort"

// DepartmentStats describes how cohesive a department is internally and how
// well it connects outward. ExternalConnections counts one per member-side
// adjacency check, so a cross-department edge contributes once to each of
// the two departments involved — consistent across all departments.
type DepartmentStats struct {
	Department           string   `json:"department"`
	MemberCount          int      `json:"memberCount"`
	InternalConnections  int      `json:"internalConnections"`
	ExternalConnections  int      `json:"externalConnections"`
	InternalDensity      float64  `json:"internalDensity"`
	AvgExternalPerPerson float64  `json:"avgExternalConnectionsPerPerson"`
	Members              []string `json:"members"`
}

// ExternalRatio is external connections per member, the quantity the silo
// thresholds apply to.
func (s DepartmentStats) ExternalRatio() float64 {
	if s.MemberCount < 1 {
		return 0
	}
	return float64(s.ExternalConnections) / float64(s.MemberCount)
}

// HealthConfig carries the tunable assumptions behind the network health
// score. The defaults treat a density around 0.1 and roughly two external
// connections per person per department as "ideal"; both are policy, not
// derived facts.
type HealthConfig struct {
	IdealDensity       float64 `yaml:"ideal_density" json:"idealDensity"`
	IdealExternalRatio float64 `yaml:"ideal_external_ratio" json:"idealExternalRatio"`
	DensityWeight      float64 `yaml:"density_weight" json:"densityWeight"`
	ConnectivityWeight float64 `yaml:"connectivity_weight" json:"connectivityWeight"`
}

// DefaultHealthConfig is the standard tuning.
var DefaultHealthConfig = HealthConfig{
	IdealDensity:       0.1,
	IdealExternalRatio: 2.0,
	DensityWeight:      0.6,
	ConnectivityWeight: 0.4,
}

// DepartmentConnectivity computes per-department connectivity stats.
// Departments with fewer than two members are skipped (no meaningful
// density). People without a department land in the "Unknown" bucket.
func (gr *Graph) DepartmentConnectivity() (map[string]DepartmentStats, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}

	byDept := make(map[string][]string)
	for _, id := range gr.order {
		p := gr.people[id]
		dept := p.DepartmentOrUnknown()
		byDept[dept] = append(byDept[dept], id)
	}

	out := make(map[string]DepartmentStats, len(byDept))
	for dept, members := range byDept {
		if len(members) < 2 {
			continue
		}
		memberSet := make(map[string]bool, len(members))
		for _, m := range members {
			memberSet[m] = true
		}

		internal := 0
		external := 0
		for _, m := range members {
			for _, nbr := range gr.Neighbors(m) {
				if memberSet[nbr] {
					internal++ // counted from both endpoints; halved below
				} else {
					external++
				}
			}
		}
		internal /= 2

		n := len(members)
		possible := n * (n - 1) / 2
		density := 0.0
		if possible > 0 {
			density = float64(internal) / float64(possible)
		}

		sorted := append([]string(nil), members...)
		sort.Strings(sorted)
		out[dept] = DepartmentStats{
			Department:           dept,
			MemberCount:          n,
			InternalConnections:  internal,
			ExternalConnections:  external,
			InternalDensity:      density,
			AvgExternalPerPerson: float64(external) / float64(n),
			Members:              sorted,
		}
	}
	return out, nil
}

// NetworkDensity is the whole-graph density 2E/(V(V-1)); 0 for graphs with
// fewer than two nodes.
func (gr *Graph) NetworkDensity() (float64, error) {
	if gr == nil {
		return 0, ErrNotBuilt
	}
	v := gr.NumNodes()
	if v < 2 {
		return 0, nil
	}
	return 2 * float64(gr.NumEdges()) / float64(v*(v-1)), nil
}

// HealthScore blends overall density and average cross-department
// connectivity into a [0,1] score using the supplied tuning.
func (gr *Graph) HealthScore(cfg HealthConfig) (float64, error) {
	density, err := gr.NetworkDensity()
	if err != nil {
		return 0, err
	}
	deptStats, err := gr.DepartmentConnectivity()
	if err != nil {
		return 0, err
	}

	densityScore := clamp01(density / cfg.IdealDensity)

	connectivityScore := 0.0
	if len(deptStats) > 0 {
		var sum float64
		for _, stats := range deptStats {
			sum += stats.ExternalRatio()
		}
		avg := sum / float64(len(deptStats))
		connectivityScore = clamp01(avg / cfg.IdealExternalRatio)
	}

	return cfg.DensityWeight*densityScore + cfg.ConnectivityWeight*connectivityScore, nil
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
