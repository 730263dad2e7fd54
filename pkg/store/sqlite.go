package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/Dicklesworthstone/orgnet/pkg/model"
)

// schema is applied on open. Expertise areas are stored as a JSON array so
// the column survives commas in skill names.
const schema = `
CREATE TABLE IF NOT EXISTS people (
	id         TEXT PRIMARY KEY,
	role       TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	expertise  TEXT NOT NULL DEFAULT '[]',
	manager_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS relationships (
	from_id  TEXT NOT NULL,
	to_id    TEXT NOT NULL,
	kind     TEXT NOT NULL,
	strength REAL NOT NULL DEFAULT 0,
	context  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (from_id, to_id, kind)
);

CREATE TABLE IF NOT EXISTS interactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	with_id     TEXT NOT NULL,
	type        TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_relationships_kind ON relationships(kind);
CREATE INDEX IF NOT EXISTS idx_interactions_with ON interactions(with_id);
`

// SQLite is an EntityStore backed by a local SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ EntityStore = (*SQLite)(nil)

// OpenSQLite opens (creating if necessary) the database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &DataSourceError{Op: "open", Err: err}
	}
	// modernc's driver is not safe for concurrent writes on one connection
	// pool against the same file; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &DataSourceError{Op: "apply schema", Err: err}
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// AddPerson inserts or replaces a person record.
func (s *SQLite) AddPerson(ctx context.Context, p model.Person) error {
	if err := p.Validate(); err != nil {
		return err
	}
	expertise, err := json.Marshal(p.ExpertiseAreas)
	if err != nil {
		return &DataSourceError{Op: "encode expertise", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO people (id, role, department, expertise, manager_id)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   role = excluded.role,
		   department = excluded.department,
		   expertise = excluded.expertise,
		   manager_id = excluded.manager_id`,
		p.ID, p.Role, p.Department, string(expertise), p.ManagerID)
	if err != nil {
		return &DataSourceError{Op: "add person", Err: err}
	}
	return nil
}

// AddRelationship inserts or replaces a relationship row. Parallel semantic
// edges between the same pair are allowed as long as the kind differs; the
// graph builder collapses them to one graph edge.
func (s *SQLite) AddRelationship(ctx context.Context, r model.Relationship) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO relationships (from_id, to_id, kind, strength, context)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(from_id, to_id, kind) DO UPDATE SET
		   strength = excluded.strength,
		   context = excluded.context`,
		r.FromID, r.ToID, string(r.Kind), r.Strength, r.Context)
	if err != nil {
		return &DataSourceError{Op: "add relationship", Err: err}
	}
	return nil
}

// LogInteraction appends an interaction row. A zero OccurredAt is stamped
// with the current time.
func (s *SQLite) LogInteraction(ctx context.Context, in model.Interaction) error {
	if strings.TrimSpace(in.WithID) == "" {
		return fmt.Errorf("interaction has empty person id")
	}
	at := in.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (with_id, type, occurred_at) VALUES (?, ?, ?)`,
		in.WithID, in.Type, at)
	if err != nil {
		return &DataSourceError{Op: "log interaction", Err: err}
	}
	return nil
}

func (s *SQLite) ListPeople(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, department, expertise, manager_id FROM people ORDER BY id`)
	if err != nil {
		return nil, &DataSourceError{Op: "list people", Err: err}
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, &DataSourceError{Op: "list people", Err: err}
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataSourceError{Op: "list people", Err: err}
	}
	return people, nil
}

func (s *SQLite) ListCollaborationEdges(ctx context.Context) ([]model.Relationship, error) {
	return s.listRelationships(ctx, "list collaboration edges",
		`SELECT from_id, to_id, kind, strength, context
		 FROM relationships WHERE kind != ? ORDER BY from_id, to_id`, string(model.KindManager))
}

func (s *SQLite) ListReportingEdges(ctx context.Context) ([]model.Relationship, error) {
	return s.listRelationships(ctx, "list reporting edges",
		`SELECT from_id, to_id, kind, strength, context
		 FROM relationships WHERE kind = ? ORDER BY from_id, to_id`, string(model.KindManager))
}

func (s *SQLite) listRelationships(ctx context.Context, op, query string, args ...any) ([]model.Relationship, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &DataSourceError{Op: op, Err: err}
	}
	defer rows.Close()

	var rels []model.Relationship
	for rows.Next() {
		var r model.Relationship
		var kind string
		if err := rows.Scan(&r.FromID, &r.ToID, &kind, &r.Strength, &r.Context); err != nil {
			return nil, &DataSourceError{Op: op, Err: err}
		}
		r.Kind = model.ParseKind(kind)
		rels = append(rels, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataSourceError{Op: op, Err: err}
	}
	return rels, nil
}

func (s *SQLite) InteractionCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT with_id, COUNT(*) FROM interactions GROUP BY with_id`)
	if err != nil {
		return nil, &DataSourceError{Op: "interaction counts", Err: err}
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, &DataSourceError{Op: "interaction counts", Err: err}
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &DataSourceError{Op: "interaction counts", Err: err}
	}
	return counts, nil
}

func (s *SQLite) FindPersonByID(ctx context.Context, id string) (model.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, role, department, expertise, manager_id FROM people WHERE id = ?`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return model.Person{}, ErrNotFound
	}
	if err != nil {
		return model.Person{}, &DataSourceError{Op: "find person", Err: err}
	}
	return p, nil
}

// PeopleByDepartment returns everyone in the given department, ordered by id.
func (s *SQLite) PeopleByDepartment(ctx context.Context, department string) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, department, expertise, manager_id
		 FROM people WHERE department = ? ORDER BY id`, department)
	if err != nil {
		return nil, &DataSourceError{Op: "people by department", Err: err}
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, &DataSourceError{Op: "people by department", Err: err}
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataSourceError{Op: "people by department", Err: err}
	}
	return people, nil
}

// FindExperts returns up to limit people whose expertise contains area
// (case-insensitive substring), optionally restricted to a department.
// Matching happens in Go because expertise is a JSON column.
func (s *SQLite) FindExperts(ctx context.Context, area, department string, limit int) ([]model.Person, error) {
	people, err := s.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	var experts []model.Person
	for i := range people {
		p := people[i]
		if department != "" && p.Department != department {
			continue
		}
		if p.HasExpertise(area) {
			experts = append(experts, p)
			if limit > 0 && len(experts) >= limit {
				break
			}
		}
	}
	return experts, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (model.Person, error) {
	var p model.Person
	var expertise string
	if err := row.Scan(&p.ID, &p.Role, &p.Department, &expertise, &p.ManagerID); err != nil {
		return model.Person{}, err
	}
	if expertise != "" && expertise != "[]" && expertise != "null" {
		if err := json.Unmarshal([]byte(expertise), &p.ExpertiseAreas); err != nil {
			return model.Person{}, fmt.Errorf("person %s: invalid expertise %q: %w", p.ID, expertise, err)
		}
	}
	return p, nil
}
