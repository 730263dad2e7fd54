// Package store defines the narrow data-access surface the analysis engine
// consumes, plus a SQLite-backed implementation. The engine never queries a
// store mid-analysis: it pulls a full snapshot at graph-build time and works
// in memory from there.
package store

import (
	"context"

	"github.com/Dicklesworthstone/orgnet/pkg/model"
)

// EntityStore supplies the raw snapshot for graph construction. Any backend
// (SQLite, a directory service over HTTP, a test fixture) can sit behind it.
type EntityStore interface {
	// ListPeople returns every person in the store.
	ListPeople(ctx context.Context) ([]model.Person, error)

	// ListCollaborationEdges returns all non-reporting relationships.
	ListCollaborationEdges(ctx context.Context) ([]model.Relationship, error)

	// ListReportingEdges returns relationships that express a reporting
	// line, oriented report -> manager.
	ListReportingEdges(ctx context.Context) ([]model.Relationship, error)

	// InteractionCounts returns the number of logged interactions per
	// person id. People with no interactions may be absent from the map.
	InteractionCounts(ctx context.Context) (map[string]int, error)

	// FindPersonByID returns a single person or ErrNotFound.
	FindPersonByID(ctx context.Context, id string) (model.Person, error)
}

// Fixture is an in-memory EntityStore for tests and demos.
type Fixture struct {
	People       []model.Person
	Edges        []model.Relationship
	Reporting    []model.Relationship
	Interactions map[string]int

	// Err, when set, is returned from every call. Lets tests exercise the
	// DataSourceError propagation path.
	Err error
}

var _ EntityStore = (*Fixture)(nil)

func (f *Fixture) ListPeople(context.Context) ([]model.Person, error) {
	if f.Err != nil {
		return nil, &DataSourceError{Op: "list people", Err: f.Err}
	}
	return f.People, nil
}

func (f *Fixture) ListCollaborationEdges(context.Context) ([]model.Relationship, error) {
	if f.Err != nil {
		return nil, &DataSourceError{Op: "list collaboration edges", Err: f.Err}
	}
	return f.Edges, nil
}

func (f *Fixture) ListReportingEdges(context.Context) ([]model.Relationship, error) {
	if f.Err != nil {
		return nil, &DataSourceError{Op: "list reporting edges", Err: f.Err}
	}
	return f.Reporting, nil
}

func (f *Fixture) InteractionCounts(context.Context) (map[string]int, error) {
	if f.Err != nil {
		return nil, &DataSourceError{Op: "interaction counts", Err: f.Err}
	}
	return f.Interactions, nil
}

func (f *Fixture) FindPersonByID(_ context.Context, id string) (model.Person, error) {
	if f.Err != nil {
		return model.Person{}, &DataSourceError{Op: "find person", Err: f.Err}
	}
	for _, p := range f.People {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Person{}, ErrNotFound
}
