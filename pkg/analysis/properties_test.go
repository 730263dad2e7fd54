package analysis

import (
	"context"
	"fmt"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/Dicklesworthstone/orgnet/pkg/model"
	"github.com/Dicklesworthstone/orgnet/pkg/store"
)

var departments = []string{"Eng", "Sales", "Legal", "Support"}

// drawGraph generates a random collaboration graph with up to 12 people and
// arbitrary edges among them.
func drawGraph(t *rapid.T) *Graph {
	n := rapid.IntRange(1, 12).Draw(t, "people")
	people := make([]model.Person, n)
	ids := make([]string, n)
	for i := range people {
		ids[i] = fmt.Sprintf("p%02d", i)
		people[i] = model.Person{
			ID:         ids[i],
			Department: rapid.SampledFrom(departments).Draw(t, "dept"),
		}
	}

	edgeCount := rapid.IntRange(0, n*2).Draw(t, "edges")
	edges := make([]model.Relationship, 0, edgeCount)
	for i := 0; i < edgeCount; i++ {
		from := rapid.SampledFrom(ids).Draw(t, "from")
		to := rapid.SampledFrom(ids).Draw(t, "to")
		if from == to {
			continue
		}
		edges = append(edges, model.Relationship{FromID: from, ToID: to, Kind: model.KindColleague})
	}
	gr, err := BuildGraph(context.Background(), &store.Fixture{People: people, Edges: edges}, false)
	if err != nil {
		t.Fatalf("BuildGraph() error: %v", err)
	}
	return gr
}

func TestCommunitiesPartitionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gr := drawGraph(t)
		comms, err := gr.Communities()
		if err != nil {
			t.Fatal(err)
		}
		seen := make(map[string]int)
		for _, c := range comms {
			if len(c) == 0 {
				t.Fatal("empty community")
			}
			for _, id := range c {
				seen[id]++
			}
		}
		if len(seen) != gr.NumNodes() {
			t.Fatalf("communities cover %d of %d nodes", len(seen), gr.NumNodes())
		}
		for id, count := range seen {
			if count != 1 {
				t.Fatalf("%s appears in %d communities", id, count)
			}
		}
		// Size-descending order.
		for i := 1; i < len(comms); i++ {
			if len(comms[i-1]) < len(comms[i]) {
				t.Fatalf("communities not size-descending: %v", comms)
			}
		}
	})
}

func TestCentralityBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gr := drawGraph(t)
		metrics, err := gr.Centrality()
		if err != nil {
			t.Fatal(err)
		}
		if len(metrics) != gr.NumNodes() {
			t.Fatalf("metrics for %d of %d nodes", len(metrics), gr.NumNodes())
		}
		for id, m := range metrics {
			for name, v := range map[string]float64{
				"degree":      m.DegreeCentrality,
				"betweenness": m.BetweennessCentrality,
				"closeness":   m.ClosenessCentrality,
				"eigenvector": m.EigenvectorCentrality,
			} {
				if v < 0 || v > 1+1e-9 || math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%s %s = %v out of [0,1]", id, name, v)
				}
			}
		}
	})
}

func TestDepartmentDensityBoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gr := drawGraph(t)
		stats, err := gr.DepartmentConnectivity()
		if err != nil {
			t.Fatal(err)
		}
		for dept, s := range stats {
			if s.MemberCount < 2 {
				t.Fatalf("%s has %d members; singletons must be skipped", dept, s.MemberCount)
			}
			if s.InternalDensity < 0 || s.InternalDensity > 1 {
				t.Fatalf("%s density = %v out of [0,1]", dept, s.InternalDensity)
			}
			if s.AvgExternalPerPerson < 0 {
				t.Fatalf("%s avg external = %v negative", dept, s.AvgExternalPerPerson)
			}
		}
		health, err := gr.HealthScore(DefaultHealthConfig)
		if err != nil {
			t.Fatal(err)
		}
		if health < 0 || health > 1 {
			t.Fatalf("health score %v out of [0,1]", health)
		}
	})
}

func TestRecommendationInvariantsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gr := drawGraph(t)
		personID := rapid.SampledFrom(gr.Order()).Draw(t, "person")
		limit := rapid.IntRange(1, 8).Draw(t, "limit")

		recs, err := gr.RecommendConnections(personID, limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) > limit {
			t.Fatalf("%d recommendations over limit %d", len(recs), limit)
		}
		connected := make(map[string]bool)
		for _, nbr := range gr.Neighbors(personID) {
			connected[nbr] = true
		}
		seen := make(map[string]bool)
		lastPriority := math.MaxInt
		for _, rec := range recs {
			if rec.PersonID == personID {
				t.Fatal("recommended self")
			}
			if connected[rec.PersonID] {
				t.Fatalf("recommended existing connection %s", rec.PersonID)
			}
			if seen[rec.PersonID] {
				t.Fatalf("duplicate recommendation %s", rec.PersonID)
			}
			seen[rec.PersonID] = true
			if rec.Priority > lastPriority {
				t.Fatalf("priorities not descending: %v", recs)
			}
			lastPriority = rec.Priority
		}
	})
}

func TestInfluenceRankingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gr := drawGraph(t)
		top, err := gr.InfluentialPeople(gr.NumNodes(), DefaultInfluenceWeights)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(top); i++ {
			prev, cur := top[i-1], top[i]
			if prev.Score < cur.Score {
				t.Fatalf("scores not descending at %d: %v", i, top)
			}
			if prev.Score == cur.Score && prev.ID > cur.ID {
				t.Fatalf("tie not broken by id at %d: %v", i, top)
			}
		}
	})
}
