package analysis

import (
	"testing"

	"github.com/Dicklesworthstone/orgnet/pkg/model"
)

// deptGraph: Eng = {A, B} fully connected, each also linked to X in Sales.
// Y is a second Sales member with no edges.
func deptGraph(t *testing.T) *Graph {
	t.Helper()
	return buildFixtureGraph(t,
		[]model.Person{
			{ID: "A", Department: "Eng"},
			{ID: "B", Department: "Eng"},
			{ID: "X", Department: "Sales"},
			{ID: "Y", Department: "Sales"},
		},
		[]model.Relationship{
			{FromID: "A", ToID: "B", Kind: model.KindColleague},
			{FromID: "A", ToID: "X", Kind: model.KindCollaborator},
			{FromID: "B", ToID: "X", Kind: model.KindCollaborator},
		})
}

func TestDepartmentConnectivity(t *testing.T) {
	stats, err := deptGraph(t).DepartmentConnectivity()
	if err != nil {
		t.Fatalf("DepartmentConnectivity() error: %v", err)
	}

	eng, ok := stats["Eng"]
	if !ok {
		t.Fatal("Eng missing from stats")
	}
	if eng.MemberCount != 2 || eng.InternalConnections != 1 || eng.ExternalConnections != 2 {
		t.Errorf("Eng stats = %+v, want 2 members, 1 internal, 2 external", eng)
	}
	if eng.InternalDensity != 1.0 {
		t.Errorf("Eng density = %v, want 1.0", eng.InternalDensity)
	}
	if eng.AvgExternalPerPerson != 1.0 {
		t.Errorf("Eng avg external = %v, want 1.0", eng.AvgExternalPerPerson)
	}
	if len(eng.Members) != 2 || eng.Members[0] != "A" || eng.Members[1] != "B" {
		t.Errorf("Eng members = %v, want [A B]", eng.Members)
	}

	// Cross-department edges count once per side, so Sales sees the same
	// two edges from X's perspective.
	sales := stats["Sales"]
	if sales.InternalConnections != 0 || sales.ExternalConnections != 2 {
		t.Errorf("Sales stats = %+v, want 0 internal, 2 external", sales)
	}
	if sales.InternalDensity != 0 {
		t.Errorf("Sales density = %v, want 0", sales.InternalDensity)
	}
}

func TestDepartmentConnectivitySkipsSingletons(t *testing.T) {
	gr := buildFixtureGraph(t,
		[]model.Person{
			{ID: "A", Department: "Eng"},
			{ID: "B", Department: "Eng"},
			{ID: "C", Department: "Legal"},
		},
		[]model.Relationship{{FromID: "A", ToID: "C", Kind: model.KindColleague}})

	stats, err := gr.DepartmentConnectivity()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stats["Legal"]; ok {
		t.Error("single-member Legal should be skipped")
	}
	if _, ok := stats["Eng"]; !ok {
		t.Error("Eng should be present")
	}
}

func TestDepartmentConnectivityUnknownBucket(t *testing.T) {
	gr := buildFixtureGraph(t,
		[]model.Person{{ID: "A"}, {ID: "B"}},
		[]model.Relationship{{FromID: "A", ToID: "B", Kind: model.KindColleague}})

	stats, err := gr.DepartmentConnectivity()
	if err != nil {
		t.Fatal(err)
	}
	unk, ok := stats[model.UnknownDepartment]
	if !ok {
		t.Fatalf("missing %q bucket: %v", model.UnknownDepartment, stats)
	}
	if unk.MemberCount != 2 || unk.InternalConnections != 1 {
		t.Errorf("Unknown stats = %+v", unk)
	}
}

func TestNetworkDensity(t *testing.T) {
	gr := deptGraph(t)
	density, err := gr.NetworkDensity()
	if err != nil {
		t.Fatal(err)
	}
	// 3 edges over C(4,2)=6 pairs.
	if !almostEqual(density, 0.5) {
		t.Errorf("density = %v, want 0.5", density)
	}

	empty := buildFixtureGraph(t, nil, nil)
	density, err = empty.NetworkDensity()
	if err != nil || density != 0 {
		t.Errorf("empty graph density = %v, %v, want 0, nil", density, err)
	}
}

func TestHealthScore(t *testing.T) {
	gr := deptGraph(t)
	score, err := gr.HealthScore(DefaultHealthConfig)
	if err != nil {
		t.Fatal(err)
	}
	// density 0.5 saturates the density term; both departments average 1.0
	// external per person against an ideal of 2.0.
	want := 0.6*1.0 + 0.4*0.5
	if !almostEqual(score, want) {
		t.Errorf("health score = %v, want %v", score, want)
	}
	if score < 0 || score > 1 {
		t.Errorf("health score %v out of [0,1]", score)
	}
}

func TestHealthScoreEmptyGraph(t *testing.T) {
	gr := buildFixtureGraph(t, nil, nil)
	score, err := gr.HealthScore(DefaultHealthConfig)
	if err != nil {
		t.Fatal(err)
	}
	if score != 0 {
		t.Errorf("empty graph health = %v, want 0", score)
	}
}
