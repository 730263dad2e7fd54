package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/network"
)

// Metrics holds the per-person centrality measures for one snapshot. All
// centrality values are normalized to [0,1].
type Metrics struct {
	PersonID              string  `json:"personId"`
	DegreeCentrality      float64 `json:"degreeCentrality"`
	BetweennessCentrality float64 `json:"betweennessCentrality"`
	ClosenessCentrality   float64 `json:"closenessCentrality"`
	EigenvectorCentrality float64 `json:"eigenvectorCentrality"`
	TotalConnections      int     `json:"totalConnections"`
	GraphSize             int     `json:"graphSize"`
}

// InfluenceWeights blends three centrality measures into one influence
// score. The default favors betweenness (brokers) over raw popularity:
// someone who connects otherwise-separate clusters outranks someone who is
// merely well connected inside one.
type InfluenceWeights struct {
	Degree      float64 `yaml:"degree" json:"degree"`
	Betweenness float64 `yaml:"betweenness" json:"betweenness"`
	Eigenvector float64 `yaml:"eigenvector" json:"eigenvector"`
}

// DefaultInfluenceWeights is the standard blend.
var DefaultInfluenceWeights = InfluenceWeights{Degree: 0.3, Betweenness: 0.4, Eigenvector: 0.3}

// eigenvector iteration bounds. Power iteration on a disconnected or
// near-bipartite graph can converge slowly; the cap keeps the computation
// bounded and the last iterate is still finite and usable.
const (
	eigenMaxIter = 1000
	eigenTol     = 1e-6
)

// ScoredPerson pairs a person id with a ranking score.
type ScoredPerson struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Centrality computes Metrics for every person in the snapshot. An empty
// graph yields an empty map. A nil handle yields ErrNotBuilt.
func (gr *Graph) Centrality() (map[string]Metrics, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	n := gr.NumNodes()
	out := make(map[string]Metrics, n)
	if n == 0 {
		return out, nil
	}

	degree := gr.degreeCentrality()
	betweenness := gr.betweennessCentrality()
	closeness := gr.closenessCentrality()
	eigenvector := gr.eigenvectorCentrality()

	for _, id := range gr.order {
		out[id] = Metrics{
			PersonID:              id,
			DegreeCentrality:      degree[id],
			BetweennessCentrality: betweenness[id],
			ClosenessCentrality:   closeness[id],
			EigenvectorCentrality: eigenvector[id],
			TotalConnections:      gr.Degree(id),
			GraphSize:             n,
		}
	}
	return out, nil
}

// CentralityFor computes Metrics for a single person. Unknown ids yield a
// *NotFoundError.
func (gr *Graph) CentralityFor(id string) (Metrics, error) {
	if gr == nil {
		return Metrics{}, ErrNotBuilt
	}
	if !gr.Has(id) {
		return Metrics{}, &NotFoundError{ID: id}
	}
	all, err := gr.Centrality()
	if err != nil {
		return Metrics{}, err
	}
	return all[id], nil
}

// degreeCentrality is the fraction of all other nodes each node is directly
// connected to.
func (gr *Graph) degreeCentrality() map[string]float64 {
	n := gr.NumNodes()
	out := make(map[string]float64, n)
	if n < 2 {
		for _, id := range gr.order {
			out[id] = 0
		}
		return out
	}
	denom := float64(n - 1)
	for _, id := range gr.order {
		out[id] = float64(gr.Degree(id)) / denom
	}
	return out
}

// betweennessCentrality runs Brandes' algorithm and normalizes to [0,1].
// gonum accumulates over ordered (s,t) pairs, so dividing by (n-1)(n-2)
// yields the standard undirected normalization.
func (gr *Graph) betweennessCentrality() map[string]float64 {
	n := gr.NumNodes()
	out := make(map[string]float64, n)
	for _, id := range gr.order {
		out[id] = 0
	}
	if n < 3 {
		return out
	}

	raw := network.Betweenness(gr.g)
	norm := float64((n - 1) * (n - 2))
	for nodeID, score := range raw {
		out[gr.nodeToID[nodeID]] = score / norm
	}
	return out
}

// closenessCentrality computes normalized closeness with component-size
// scaling: ((r-1)/sum_d) * ((r-1)/(n-1)) where r is the number of nodes
// reachable from the source. Isolated nodes get 0.
func (gr *Graph) closenessCentrality() map[string]float64 {
	n := gr.NumNodes()
	out := make(map[string]float64, n)
	if n < 2 {
		for _, id := range gr.order {
			out[id] = 0
		}
		return out
	}

	for _, id := range gr.order {
		dists := gr.bfsDistances(id)
		reachable := len(dists) // includes the source at distance 0
		if reachable < 2 {
			out[id] = 0
			continue
		}
		var sum float64
		for _, d := range dists {
			sum += float64(d)
		}
		frac := float64(reachable-1) / sum
		out[id] = frac * float64(reachable-1) / float64(n-1)
	}
	return out
}

// bfsDistances returns hop counts from src to every reachable node,
// including src itself at 0.
func (gr *Graph) bfsDistances(src string) map[string]int {
	dist := map[string]int{src: 0}
	queue := []string{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		n := gr.idToNode[cur]
		for it := gr.g.From(n); it.Next(); {
			next := gr.nodeToID[it.Node().ID()]
			if _, seen := dist[next]; !seen {
				dist[next] = dist[cur] + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}

// eigenvectorCentrality runs bounded power iteration on (A+I). The identity
// term damps oscillation on bipartite components. If the iteration budget
// runs out the last iterate is returned; the result is always finite, and
// degenerate graphs (no edges) yield zeros.
func (gr *Graph) eigenvectorCentrality() map[string]float64 {
	n := gr.NumNodes()
	out := make(map[string]float64, n)
	for _, id := range gr.order {
		out[id] = 0
	}
	if n == 0 || gr.NumEdges() == 0 {
		return out
	}

	x := make(map[string]float64, n)
	for _, id := range gr.order {
		x[id] = 1.0 / float64(n)
	}

	for iter := 0; iter < eigenMaxIter; iter++ {
		xlast := x
		x = make(map[string]float64, n)
		for id, v := range xlast {
			x[id] = v
		}
		for _, id := range gr.order {
			for _, nbr := range gr.Neighbors(id) {
				x[nbr] += xlast[id]
			}
		}

		var norm float64
		for _, v := range x {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return out
		}
		var delta float64
		for id := range x {
			x[id] /= norm
			delta += math.Abs(x[id] - xlast[id])
		}
		if delta < float64(n)*eigenTol {
			break
		}
	}

	for id, v := range x {
		out[id] = v
	}
	return out
}

// InfluenceScores computes the blended influence score for every person.
func (gr *Graph) InfluenceScores(w InfluenceWeights) (map[string]float64, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	degree := gr.degreeCentrality()
	betweenness := gr.betweennessCentrality()
	eigenvector := gr.eigenvectorCentrality()

	scores := make(map[string]float64, gr.NumNodes())
	for _, id := range gr.order {
		scores[id] = w.Degree*degree[id] + w.Betweenness*betweenness[id] + w.Eigenvector*eigenvector[id]
	}
	return scores, nil
}

// InfluentialPeople returns the topN people by influence score, score
// descending with id ascending as the tie-break.
func (gr *Graph) InfluentialPeople(topN int, w InfluenceWeights) ([]ScoredPerson, error) {
	scores, err := gr.InfluenceScores(w)
	if err != nil {
		return nil, err
	}
	return rankScores(scores, topN), nil
}

// rankScores orders a score map by value descending, id ascending, and
// truncates to limit (limit <= 0 means all).
func rankScores(m map[string]float64, limit int) []ScoredPerson {
	ranked := make([]ScoredPerson, 0, len(m))
	for id, score := range m {
		ranked = append(ranked, ScoredPerson{ID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].ID < ranked[j].ID
		}
		return ranked[i].Score > ranked[j].Score
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
