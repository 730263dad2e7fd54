package datasource

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Dicklesworthstone/orgnet/pkg/analysis"
	"github.com/Dicklesworthstone/orgnet/pkg/store"
)

// Snapshot is one built pair of graphs.
type Snapshot struct {
	Graph    *analysis.Graph
	Directed *analysis.DirectedGraph
}

// Refresher rebuilds the graph snapshot on demand, collapsing concurrent
// rebuild requests (watcher events, UI refreshes) into a single build.
type Refresher struct {
	// Store supplies the entity snapshot.
	Store store.EntityStore
	// IncludeInteractionWeights enables the interaction edge channel.
	IncludeInteractionWeights bool

	group singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
}

// Current returns the most recent snapshot, or nil before the first Refresh.
func (r *Refresher) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Refresh builds a fresh snapshot and installs it as current. Callers racing
// on the same Refresher share one build and one result.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	v, err, _ := r.group.Do("rebuild", func() (any, error) {
		gr, err := analysis.BuildGraph(ctx, r.Store, r.IncludeInteractionWeights)
		if err != nil {
			return nil, err
		}
		dg, err := analysis.BuildDirectedGraph(ctx, r.Store)
		if err != nil {
			return nil, err
		}
		snap := &Snapshot{Graph: gr, Directed: dg}
		r.mu.Lock()
		r.current = snap
		r.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}
