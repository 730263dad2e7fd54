package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/Dicklesworthstone/orgnet/pkg/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCentralityEmptyGraph(t *testing.T) {
	gr := buildFixtureGraph(t, nil, nil)
	metrics, err := gr.Centrality()
	if err != nil {
		t.Fatalf("Centrality() error: %v", err)
	}
	if len(metrics) != 0 {
		t.Errorf("expected empty map, got %d entries", len(metrics))
	}
}

func TestCentralitySingleNode(t *testing.T) {
	gr := buildFixtureGraph(t, []model.Person{{ID: "solo"}}, nil)
	metrics, err := gr.Centrality()
	if err != nil {
		t.Fatalf("Centrality() error: %v", err)
	}
	m, ok := metrics["solo"]
	if !ok {
		t.Fatal("solo missing from metrics")
	}
	if m.DegreeCentrality != 0 || m.BetweennessCentrality != 0 || m.ClosenessCentrality != 0 || m.EigenvectorCentrality != 0 {
		t.Errorf("single node should have all-zero centrality: %+v", m)
	}
	if m.GraphSize != 1 || m.TotalConnections != 0 {
		t.Errorf("unexpected size/connections: %+v", m)
	}
}

func TestCentralityChainScenario(t *testing.T) {
	// A-B, B-C, D isolated.
	gr := chainGraph(t)
	metrics, err := gr.Centrality()
	if err != nil {
		t.Fatalf("Centrality() error: %v", err)
	}
	if len(metrics) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(metrics))
	}

	d := metrics["D"]
	if d.DegreeCentrality != 0 || d.BetweennessCentrality != 0 || d.ClosenessCentrality != 0 {
		t.Errorf("isolated D should be all zeros: %+v", d)
	}

	b := metrics["B"]
	// Degree: 2 of 3 others.
	if !almostEqual(b.DegreeCentrality, 2.0/3.0) {
		t.Errorf("B degree = %v, want 2/3", b.DegreeCentrality)
	}
	// Betweenness: B sits on the single A-C shortest path; normalized by
	// (n-1)(n-2)/2 pairs = 3 → 1/3.
	if !almostEqual(b.BetweennessCentrality, 1.0/3.0) {
		t.Errorf("B betweenness = %v, want 1/3", b.BetweennessCentrality)
	}
	// Closeness with component scaling: ((3-1)/2) * ((3-1)/(4-1)) = 2/3.
	if !almostEqual(b.ClosenessCentrality, 2.0/3.0) {
		t.Errorf("B closeness = %v, want 2/3", b.ClosenessCentrality)
	}
	// Endpoints carry no betweenness.
	if metrics["A"].BetweennessCentrality != 0 || metrics["C"].BetweennessCentrality != 0 {
		t.Error("chain endpoints should have zero betweenness")
	}
	if b.TotalConnections != 2 || b.GraphSize != 4 {
		t.Errorf("B connections/size = %d/%d, want 2/4", b.TotalConnections, b.GraphSize)
	}
}

func TestCentralityRanges(t *testing.T) {
	// Star: hub connected to 4 spokes.
	people := []model.Person{{ID: "hub"}}
	var edges []model.Relationship
	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		people = append(people, model.Person{ID: id})
		edges = append(edges, model.Relationship{FromID: "hub", ToID: id, Kind: model.KindColleague})
	}
	gr := buildFixtureGraph(t, people, edges)

	metrics, err := gr.Centrality()
	if err != nil {
		t.Fatal(err)
	}
	for id, m := range metrics {
		for name, v := range map[string]float64{
			"degree":      m.DegreeCentrality,
			"betweenness": m.BetweennessCentrality,
			"closeness":   m.ClosenessCentrality,
			"eigenvector": m.EigenvectorCentrality,
		} {
			if v < 0 || v > 1 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s %s = %v out of [0,1]", id, name, v)
			}
		}
	}

	hub := metrics["hub"]
	if !almostEqual(hub.DegreeCentrality, 1.0) {
		t.Errorf("hub degree = %v, want 1.0", hub.DegreeCentrality)
	}
	if !almostEqual(hub.BetweennessCentrality, 1.0) {
		t.Errorf("hub betweenness = %v, want 1.0", hub.BetweennessCentrality)
	}
	if hub.EigenvectorCentrality <= metrics["s1"].EigenvectorCentrality {
		t.Error("hub eigenvector should exceed a spoke's")
	}
}

func TestCentralityForNotFound(t *testing.T) {
	gr := chainGraph(t)
	_, err := gr.CentralityFor("nobody")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error %v is not a *NotFoundError", err)
	}
	if nf.ID != "nobody" {
		t.Errorf("NotFoundError.ID = %q, want nobody", nf.ID)
	}

	m, err := gr.CentralityFor("B")
	if err != nil {
		t.Fatalf("CentralityFor(B) error: %v", err)
	}
	if m.PersonID != "B" {
		t.Errorf("metrics for %q, want B", m.PersonID)
	}
}

func TestInfluentialPeople(t *testing.T) {
	gr := chainGraph(t)
	top, err := gr.InfluentialPeople(2, DefaultInfluenceWeights)
	if err != nil {
		t.Fatalf("InfluentialPeople() error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 results, got %d", len(top))
	}
	if top[0].ID != "B" {
		t.Errorf("top influencer = %q, want B", top[0].ID)
	}
	if top[0].Score <= top[1].Score {
		t.Errorf("ranking not descending: %v", top)
	}
}

func TestInfluentialPeopleTieBreakByID(t *testing.T) {
	// A-B edge only: A and B are symmetric, so the tie breaks on id.
	gr := buildFixtureGraph(t,
		[]model.Person{{ID: "zed"}, {ID: "amy"}},
		[]model.Relationship{{FromID: "zed", ToID: "amy", Kind: model.KindColleague}})

	top, err := gr.InfluentialPeople(2, DefaultInfluenceWeights)
	if err != nil {
		t.Fatal(err)
	}
	if top[0].ID != "amy" || top[1].ID != "zed" {
		t.Errorf("tie-break order = [%s %s], want [amy zed]", top[0].ID, top[1].ID)
	}
}

func TestInfluenceMonotoneInWeights(t *testing.T) {
	gr := chainGraph(t)

	base, err := gr.InfluenceScores(DefaultInfluenceWeights)
	if err != nil {
		t.Fatal(err)
	}
	// Raising the betweenness weight cannot lower B's score: B carries all
	// the betweenness in the chain.
	boosted, err := gr.InfluenceScores(InfluenceWeights{Degree: 0.3, Betweenness: 0.8, Eigenvector: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if boosted["B"] < base["B"] {
		t.Errorf("B score fell from %v to %v when betweenness weight rose", base["B"], boosted["B"])
	}
	// D's degree, betweenness, and closeness are exactly zero; only a tiny
	// power-iteration residue can leak into the eigenvector term.
	if base["D"] > 1e-6 || boosted["D"] > 1e-6 {
		t.Errorf("isolated D should score ~0, got %v / %v", base["D"], boosted["D"])
	}
}
