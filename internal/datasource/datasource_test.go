package datasource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Dicklesworthstone/orgnet/pkg/config"
	"github.com/Dicklesworthstone/orgnet/pkg/model"
	"github.com/Dicklesworthstone/orgnet/pkg/store"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "team.db")
	db, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, p := range []model.Person{
		{ID: "alice", Department: "Eng"},
		{ID: "bob", Department: "Eng"},
	} {
		if err := db.AddPerson(ctx, p); err != nil {
			t.Fatalf("AddPerson(%s) error: %v", p.ID, err)
		}
	}
	if err := db.AddRelationship(ctx, model.Relationship{
		FromID: "alice", ToID: "bob", Kind: model.KindColleague,
	}); err != nil {
		t.Fatalf("AddRelationship() error: %v", err)
	}
	return path
}

func TestDiscoverExplicitDB(t *testing.T) {
	path := newTestDB(t)
	sources := Discover(DiscoveryOptions{DBPath: path})
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want 1: %v", len(sources), sources)
	}
	s := sources[0]
	if s.Type != SourceTypeSQLite || s.Path != path {
		t.Errorf("source = %+v", s)
	}
	if s.Valid {
		t.Error("discovery must not mark sources valid")
	}
}

func TestDiscoverEnvAndPriority(t *testing.T) {
	path := newTestDB(t)
	t.Setenv(config.EnvDB, path)
	t.Setenv(config.EnvURL, "http://graph.internal/")

	sources := Discover(DiscoveryOptions{})
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2: %v", len(sources), sources)
	}
	// Local database first.
	if sources[0].Type != SourceTypeSQLite || sources[1].Type != SourceTypeHTTP {
		t.Errorf("priority order wrong: %v", sources)
	}
	if sources[1].Path != "http://graph.internal" {
		t.Errorf("url = %q, want trailing slash trimmed", sources[1].Path)
	}
}

func TestDiscoverNothing(t *testing.T) {
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvURL, "")
	t.Chdir(t.TempDir())

	if sources := Discover(DiscoveryOptions{}); len(sources) != 0 {
		t.Errorf("sources = %v, want none", sources)
	}
}

func TestValidateSQLite(t *testing.T) {
	path := newTestDB(t)
	src := DataSource{Type: SourceTypeSQLite, Path: path}
	if err := Validate(&src, ValidationOptions{CountPeople: true}); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !src.Valid || src.PersonCount != 2 {
		t.Errorf("source after validation = %+v", src)
	}
}

func TestValidateMissingDB(t *testing.T) {
	src := DataSource{Type: SourceTypeSQLite, Path: filepath.Join(t.TempDir(), "nope", "x.db")}
	if err := Validate(&src, ValidationOptions{}); err == nil {
		t.Fatal("expected validation failure")
	}
	if src.Valid {
		t.Error("failed validation must not mark the source valid")
	}
}

func TestSourceOpen(t *testing.T) {
	path := newTestDB(t)
	src := DataSource{Type: SourceTypeSQLite, Path: path}
	st, closeFn, err := src.Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer closeFn()

	people, err := st.ListPeople(context.Background())
	if err != nil {
		t.Fatalf("ListPeople() error: %v", err)
	}
	if len(people) != 2 {
		t.Errorf("got %d people, want 2", len(people))
	}
}

func TestRefresher(t *testing.T) {
	st := &store.Fixture{
		People: []model.Person{{ID: "a"}, {ID: "b"}},
		Edges:  []model.Relationship{{FromID: "a", ToID: "b", Kind: model.KindColleague}},
	}
	r := &Refresher{Store: st}

	if r.Current() != nil {
		t.Error("Current() before first refresh should be nil")
	}

	snap, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if snap.Graph.NumNodes() != 2 || snap.Graph.NumEdges() != 1 {
		t.Errorf("snapshot graph = %d/%d", snap.Graph.NumNodes(), snap.Graph.NumEdges())
	}
	if snap.Directed == nil {
		t.Error("snapshot should carry the reporting graph")
	}
	if r.Current() != snap {
		t.Error("Refresh should install the snapshot as current")
	}
}

func TestRefresherPropagatesError(t *testing.T) {
	boom := errors.New("store down")
	r := &Refresher{Store: &store.Fixture{Err: boom}}
	if _, err := r.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("error %v does not wrap the cause", err)
	}
	if r.Current() != nil {
		t.Error("failed refresh must not install a snapshot")
	}
}

func TestRefresherConcurrent(t *testing.T) {
	st := &store.Fixture{People: []model.Person{{ID: "a"}}}
	r := &Refresher{Store: st}

	const callers = 8
	var wg sync.WaitGroup
	snaps := make([]*Snapshot, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := r.Refresh(context.Background())
			if err != nil {
				t.Errorf("Refresh() error: %v", err)
				return
			}
			snaps[i] = snap
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if snaps[i] == nil {
			t.Fatalf("caller %d got no snapshot", i)
		}
	}
}

func TestWatcherFileChange(t *testing.T) {
	path := newTestDB(t)

	changed := make(chan DataSource, 1)
	w, err := NewWatcher(
		DataSource{Type: SourceTypeSQLite, Path: path},
		func(s DataSource) {
			select {
			case changed <- s:
			default:
			}
		},
		WatchOptions{Debounce: 50 * time.Millisecond},
	)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	w.Start()
	defer w.Stop()

	// Give the watch a moment to become active, then touch the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("overwritten"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-changed:
		if s.Path != path {
			t.Errorf("callback source = %+v", s)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification within 3s")
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	path := newTestDB(t)
	w, err := NewWatcher(DataSource{Type: SourceTypeSQLite, Path: path}, nil, WatchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	w.Stop()
	w.Stop() // second stop must not panic
}
