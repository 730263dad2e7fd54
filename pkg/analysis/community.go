package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/topo"
)

// SiloConfig holds the policy thresholds for classifying department
// isolation by external-connections-per-member ratio.
type SiloConfig struct {
	// IsolatedRatio: below this a department is flagged as potentially
	// isolated.
	IsolatedRatio float64 `yaml:"isolated_ratio" json:"isolatedRatio"`
	// ConnectedRatio: above this a department counts as well-connected.
	ConnectedRatio float64 `yaml:"connected_ratio" json:"connectedRatio"`
}

// DefaultSiloConfig is the standard policy.
var DefaultSiloConfig = SiloConfig{IsolatedRatio: 0.5, ConnectedRatio: 2.0}

// BrokerConfig tunes the knowledge-broker heuristic. A broker must be
// adjacent to at least MinSpecialistLinks specialists and carry betweenness
// above MinBetweenness. The heuristic flags plausible brokers; it is not a
// proof of brokerage.
type BrokerConfig struct {
	MinSpecialistLinks int     `yaml:"min_specialist_links" json:"minSpecialistLinks"`
	MinBetweenness     float64 `yaml:"min_betweenness" json:"minBetweenness"`
	MaxBrokers         int     `yaml:"max_brokers" json:"maxBrokers"`
}

// DefaultBrokerConfig is the standard tuning.
var DefaultBrokerConfig = BrokerConfig{MinSpecialistLinks: 2, MinBetweenness: 0.1, MaxBrokers: 5}

// Communities returns the connected components of the collaboration graph,
// the proxy used for organizational silos. The result partitions the node
// set: every person appears in exactly one community, ids sorted within a
// community, communities ordered by size descending then first id.
func (gr *Graph) Communities() ([][]string, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	if gr.NumNodes() == 0 {
		return [][]string{}, nil
	}

	components := topo.ConnectedComponents(gr.g)
	out := make([][]string, 0, len(components))
	for _, comp := range components {
		ids := make([]string, 0, len(comp))
		for _, n := range comp {
			ids = append(ids, gr.nodeToID[n.ID()])
		}
		sort.Strings(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) == len(out[j]) {
			return out[i][0] < out[j][0]
		}
		return len(out[i]) > len(out[j])
	})
	return out, nil
}

// BridgePeople ranks people by betweenness centrality — the ones whose
// removal would disconnect or stretch paths between clusters.
func (gr *Graph) BridgePeople(topN int) ([]ScoredPerson, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	return rankScores(gr.betweennessCentrality(), topN), nil
}

// Specialists returns everyone whose expertise matches area
// (case-insensitive substring), sorted by id.
func (gr *Graph) Specialists(area string) ([]string, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	var out []string
	for _, id := range gr.order {
		p := gr.people[id]
		if p.HasExpertise(area) {
			out = append(out, id)
		}
	}
	return out, nil
}

// KnowledgeBrokers finds non-specialists who bridge the specialists of an
// expertise area to the rest of the network: adjacent to at least
// cfg.MinSpecialistLinks specialists with betweenness above
// cfg.MinBetweenness, ranked by betweenness descending.
func (gr *Graph) KnowledgeBrokers(area string, cfg BrokerConfig) ([]ScoredPerson, error) {
	specialists, err := gr.Specialists(area)
	if err != nil {
		return nil, err
	}
	if len(specialists) == 0 {
		return []ScoredPerson{}, nil
	}
	specialistSet := make(map[string]bool, len(specialists))
	for _, id := range specialists {
		specialistSet[id] = true
	}

	betweenness := gr.betweennessCentrality()
	qualifying := make(map[string]float64)
	for _, id := range gr.order {
		if specialistSet[id] {
			continue
		}
		links := 0
		for _, nbr := range gr.Neighbors(id) {
			if specialistSet[nbr] {
				links++
			}
		}
		if links >= cfg.MinSpecialistLinks && betweenness[id] > cfg.MinBetweenness {
			qualifying[id] = betweenness[id]
		}
	}
	return rankScores(qualifying, cfg.MaxBrokers), nil
}

// ExpertiseClusters groups people by expertise area. With a non-empty area
// the result has at most that one key, populated by case-insensitive
// substring match; otherwise every declared area becomes a cluster. Members
// are sorted by id.
func (gr *Graph) ExpertiseClusters(area string) (map[string][]string, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	clusters := make(map[string][]string)
	if area != "" {
		members, err := gr.Specialists(area)
		if err != nil {
			return nil, err
		}
		if len(members) > 0 {
			clusters[area] = members
		}
		return clusters, nil
	}
	for _, id := range gr.order {
		p := gr.people[id]
		for _, skill := range p.ExpertiseAreas {
			clusters[skill] = append(clusters[skill], id)
		}
	}
	return clusters, nil
}

// SiloClassification splits departments into potentially-isolated and
// well-connected buckets per the configured ratio thresholds. Isolated
// departments are ordered most-isolated first; well-connected ones
// most-connected first.
func SiloClassification(stats map[string]DepartmentStats, cfg SiloConfig) (isolated, wellConnected []DepartmentStats) {
	for _, s := range stats {
		ratio := s.ExternalRatio()
		switch {
		case ratio < cfg.IsolatedRatio:
			isolated = append(isolated, s)
		case ratio > cfg.ConnectedRatio:
			wellConnected = append(wellConnected, s)
		}
	}
	sort.Slice(isolated, func(i, j int) bool {
		if isolated[i].ExternalRatio() == isolated[j].ExternalRatio() {
			return isolated[i].Department < isolated[j].Department
		}
		return isolated[i].ExternalRatio() < isolated[j].ExternalRatio()
	})
	sort.Slice(wellConnected, func(i, j int) bool {
		if wellConnected[i].ExternalRatio() == wellConnected[j].ExternalRatio() {
			return wellConnected[i].Department < wellConnected[j].Department
		}
		return wellConnected[i].ExternalRatio() > wellConnected[j].ExternalRatio()
	})
	return isolated, wellConnected
}
