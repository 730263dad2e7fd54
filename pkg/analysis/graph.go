// Package analysis is the network analysis engine: it turns an entity-store
// snapshot into in-memory graphs and runs centrality, connectivity,
// community, hierarchy, and recommendation computations over them.
//
// A Graph is built once per snapshot and never mutated afterwards, so any
// number of analysis calls can safely share one handle. Rebuilding means
// calling BuildGraph again and dropping the old handle.
package analysis

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/Dicklesworthstone/orgnet/pkg/model"
	"github.com/Dicklesworthstone/orgnet/pkg/store"
)

// EdgeAttrs carries the per-edge attribute channels. Strength is the
// relationship weight; InteractionWeight is the optional second channel
// derived from logged interaction counts (0 when the build did not request
// interaction weighting).
type EdgeAttrs struct {
	Kind              model.RelationshipKind
	Strength          float64
	Context           string
	InteractionWeight float64
}

// edgeKey is an unordered pair of person ids (A < B lexically).
type edgeKey struct {
	A, B string
}

func keyFor(a, b string) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{A: a, B: b}
}

// Graph is an immutable snapshot of the undirected collaboration network.
type Graph struct {
	g        *simple.WeightedUndirectedGraph
	idToNode map[string]int64
	nodeToID map[int64]string
	people   map[string]model.Person
	order    []string // all ids, sorted; deterministic iteration order
	attrs    map[edgeKey]EdgeAttrs
}

// BuildGraph pulls a full snapshot from the entity store and materializes
// the collaboration graph. Queries run sequentially (edges need node
// identities); any store failure propagates and no partial graph escapes.
// When includeInteractionWeights is set, a second per-edge weight channel is
// computed from logged interaction counts.
func BuildGraph(ctx context.Context, st store.EntityStore, includeInteractionWeights bool) (*Graph, error) {
	people, err := st.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := st.ListCollaborationEdges(ctx)
	if err != nil {
		return nil, err
	}

	var counts map[string]int
	if includeInteractionWeights {
		counts, err = st.InteractionCounts(ctx)
		if err != nil {
			return nil, err
		}
	}

	gr := &Graph{
		g:        simple.NewWeightedUndirectedGraph(0, 0),
		idToNode: make(map[string]int64, len(people)),
		nodeToID: make(map[int64]string, len(people)),
		people:   make(map[string]model.Person, len(people)),
		attrs:    make(map[edgeKey]EdgeAttrs, len(edges)),
	}

	for _, p := range people {
		gr.addPerson(p)
	}

	for _, e := range edges {
		u, okU := gr.idToNode[e.FromID]
		v, okV := gr.idToNode[e.ToID]
		if !okU || !okV || u == v {
			// Edge references someone outside the snapshot; drop it rather
			// than invent an attribute-less node.
			continue
		}
		attrs := EdgeAttrs{
			Kind:     e.Kind,
			Strength: e.EffectiveStrength(),
			Context:  e.Context,
		}
		if includeInteractionWeights {
			attrs.InteractionWeight = interactionWeight(counts[e.FromID], counts[e.ToID])
		}
		// Parallel semantic edges collapse to one graph edge; the last
		// record's attributes win, matching the snapshot ingest order.
		gr.attrs[keyFor(e.FromID, e.ToID)] = attrs
		gr.g.SetWeightedEdge(gr.g.NewWeightedEdge(gr.g.Node(u), gr.g.Node(v), attrs.Strength))
	}

	sort.Strings(gr.order)
	return gr, nil
}

func (gr *Graph) addPerson(p model.Person) {
	if _, exists := gr.idToNode[p.ID]; exists {
		return
	}
	n := gr.g.NewNode()
	gr.g.AddNode(n)
	gr.idToNode[p.ID] = n.ID()
	gr.nodeToID[n.ID()] = p.ID
	gr.people[p.ID] = p
	gr.order = append(gr.order, p.ID)
}

// interactionWeight is the average of the two endpoints' interaction counts,
// defaulting to 1.0 when neither endpoint has any logged interactions.
func interactionWeight(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1.0
	}
	return float64(a+b) / 2
}

// NumNodes returns the number of people in the snapshot.
func (gr *Graph) NumNodes() int { return len(gr.order) }

// NumEdges returns the number of collapsed collaboration edges.
func (gr *Graph) NumEdges() int { return len(gr.attrs) }

// Order returns all person ids in sorted order. The slice is a copy; callers
// may reorder it freely.
func (gr *Graph) Order() []string { return append([]string(nil), gr.order...) }

// Has reports whether the person exists in the snapshot.
func (gr *Graph) Has(id string) bool {
	_, ok := gr.idToNode[id]
	return ok
}

// Person returns the attribute record for id.
func (gr *Graph) Person(id string) (model.Person, bool) {
	p, ok := gr.people[id]
	return p, ok
}

// Edge returns the attribute channels for the unordered pair (a, b).
func (gr *Graph) Edge(a, b string) (EdgeAttrs, bool) {
	attrs, ok := gr.attrs[keyFor(a, b)]
	return attrs, ok
}

// Degree returns the number of direct connections for id (0 for unknown
// ids).
func (gr *Graph) Degree(id string) int {
	n, ok := gr.idToNode[id]
	if !ok {
		return 0
	}
	return gr.g.From(n).Len()
}

// Neighbors returns the ids directly connected to id, sorted.
func (gr *Graph) Neighbors(id string) []string {
	n, ok := gr.idToNode[id]
	if !ok {
		return nil
	}
	it := gr.g.From(n)
	out := make([]string, 0, it.Len())
	for it.Next() {
		out = append(out, gr.nodeToID[it.Node().ID()])
	}
	sort.Strings(out)
	return out
}

// Connected reports whether a and b share a collaboration edge.
func (gr *Graph) Connected(a, b string) bool {
	_, ok := gr.attrs[keyFor(a, b)]
	return ok
}

// DirectedGraph is an immutable snapshot of the reporting network, with
// edges oriented report -> manager. It is used only for hierarchy
// reconstruction.
type DirectedGraph struct {
	g        *simple.DirectedGraph
	idToNode map[string]int64
	nodeToID map[int64]string
	people   map[string]model.Person
	order    []string
}

// BuildDirectedGraph pulls people and reporting edges from the entity store
// and materializes the directed reporting graph. A person has at most one
// outgoing reporting edge; a later conflicting record replaces the earlier
// manager.
func BuildDirectedGraph(ctx context.Context, st store.EntityStore) (*DirectedGraph, error) {
	people, err := st.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := st.ListReportingEdges(ctx)
	if err != nil {
		return nil, err
	}

	dg := &DirectedGraph{
		g:        simple.NewDirectedGraph(),
		idToNode: make(map[string]int64, len(people)),
		nodeToID: make(map[int64]string, len(people)),
		people:   make(map[string]model.Person, len(people)),
	}

	for _, p := range people {
		if _, exists := dg.idToNode[p.ID]; exists {
			continue
		}
		n := dg.g.NewNode()
		dg.g.AddNode(n)
		dg.idToNode[p.ID] = n.ID()
		dg.nodeToID[n.ID()] = p.ID
		dg.people[p.ID] = p
		dg.order = append(dg.order, p.ID)
	}

	for _, e := range edges {
		report, okU := dg.idToNode[e.FromID]
		manager, okV := dg.idToNode[e.ToID]
		if !okU || !okV || report == manager {
			continue
		}
		// One manager per report: replace any previous outgoing edge.
		var stale []int64
		for prev := dg.g.From(report); prev.Next(); {
			stale = append(stale, prev.Node().ID())
		}
		for _, id := range stale {
			dg.g.RemoveEdge(report, id)
		}
		dg.g.SetEdge(dg.g.NewEdge(dg.g.Node(report), dg.g.Node(manager)))
	}

	sort.Strings(dg.order)
	return dg, nil
}

// NumNodes returns the number of people in the snapshot.
func (dg *DirectedGraph) NumNodes() int { return len(dg.order) }

// Order returns all person ids in sorted order.
func (dg *DirectedGraph) Order() []string { return dg.order }

// Person returns the attribute record for id.
func (dg *DirectedGraph) Person(id string) (model.Person, bool) {
	p, ok := dg.people[id]
	return p, ok
}

// ManagerOf returns the id the given person reports to, or "" if none.
func (dg *DirectedGraph) ManagerOf(id string) string {
	n, ok := dg.idToNode[id]
	if !ok {
		return ""
	}
	it := dg.g.From(n)
	if it.Next() {
		return dg.nodeToID[it.Node().ID()]
	}
	return ""
}

// DirectReports returns the ids reporting directly to id, sorted.
func (dg *DirectedGraph) DirectReports(id string) []string {
	n, ok := dg.idToNode[id]
	if !ok {
		return nil
	}
	it := dg.g.To(n)
	out := make([]string, 0, it.Len())
	for it.Next() {
		out = append(out, dg.nodeToID[it.Node().ID()])
	}
	sort.Strings(out)
	return out
}

// ReportingChain walks upward from id to the top of the hierarchy,
// returning the managers in order. The walk is bounded by the node count so
// a cyclic reporting line cannot loop forever.
func (dg *DirectedGraph) ReportingChain(id string) []string {
	var chain []string
	seen := map[string]bool{id: true}
	cur := dg.ManagerOf(id)
	for cur != "" && !seen[cur] && len(chain) < dg.NumNodes() {
		chain = append(chain, cur)
		seen[cur] = true
		cur = dg.ManagerOf(cur)
	}
	return chain
}
