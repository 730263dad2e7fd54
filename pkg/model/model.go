// Package model defines the records the rest of orgnet operates on: people,
// the work relationships between them, and logged interactions. These are
// plain data types; graph semantics live in pkg/analysis.
package model

import (
	"fmt"
	"strings"
	"time"
)

// RelationshipKind classifies a work relationship between two people.
type RelationshipKind string

const (
	KindManager      RelationshipKind = "manager"
	KindDirectReport RelationshipKind = "direct_report"
	KindColleague    RelationshipKind = "colleague"
	KindClient       RelationshipKind = "client"
	KindVendor       RelationshipKind = "vendor"
	KindCollaborator RelationshipKind = "collaborator"
	KindMentor       RelationshipKind = "mentor"
	KindMentee       RelationshipKind = "mentee"
)

// knownKinds is the closed set used by ParseKind; unknown strings pass
// through lowercased so new kinds coming from a newer directory service
// don't break older binaries.
var knownKinds = map[string]RelationshipKind{
	"manager":       KindManager,
	"direct_report": KindDirectReport,
	"colleague":     KindColleague,
	"client":        KindClient,
	"vendor":        KindVendor,
	"collaborator":  KindCollaborator,
	"mentor":        KindMentor,
	"mentee":        KindMentee,
}

// ParseKind normalizes a relationship kind string. Unknown values are
// lowercased and kept as-is rather than rejected.
func ParseKind(s string) RelationshipKind {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := knownKinds[s]; ok {
		return k
	}
	return RelationshipKind(s)
}

// Reporting reports whether this kind expresses a reporting line. Only
// manager-kind edges feed the directed reporting graph.
func (k RelationshipKind) Reporting() bool {
	return k == KindManager
}

// UnknownDepartment is the sentinel bucket for people without a department,
// so department-level aggregation never drops nodes.
const UnknownDepartment = "Unknown"

// Person is a node in the workplace graph. ID is the stable key (a name or
// directory identifier); everything else is attribute data.
type Person struct {
	ID             string         `json:"id"`
	Role           string         `json:"role,omitempty"`
	Department     string         `json:"department,omitempty"`
	ExpertiseAreas []string       `json:"expertiseAreas,omitempty"`
	ManagerID      string         `json:"managerId,omitempty"`
	Attributes     map[string]any `json:"attributes,omitempty"` // escape hatch for unmodeled extras
}

// Validate checks the minimal structural requirements for a person record.
func (p *Person) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("person has empty id")
	}
	return nil
}

// DepartmentOrUnknown returns the department bucket, falling back to the
// sentinel so aggregation is total.
func (p *Person) DepartmentOrUnknown() string {
	if strings.TrimSpace(p.Department) == "" {
		return UnknownDepartment
	}
	return p.Department
}

// HasExpertise reports whether any expertise area contains the query as a
// case-insensitive substring. Matches the directory's loose search behavior.
func (p *Person) HasExpertise(area string) bool {
	if area == "" {
		return false
	}
	area = strings.ToLower(area)
	for _, e := range p.ExpertiseAreas {
		if strings.Contains(strings.ToLower(e), area) {
			return true
		}
	}
	return false
}

// Relationship is an edge record between two people. Collaboration analysis
// treats it as undirected; only manager-kind rows are oriented
// (FromID = report, ToID = manager).
type Relationship struct {
	FromID   string           `json:"fromId"`
	ToID     string           `json:"toId"`
	Kind     RelationshipKind `json:"kind"`
	Strength float64          `json:"strength,omitempty"` // [0,1], 0 means "unset"
	Context  string           `json:"context,omitempty"`
}

// Validate checks endpoint ids and the strength range.
func (r *Relationship) Validate() error {
	if strings.TrimSpace(r.FromID) == "" || strings.TrimSpace(r.ToID) == "" {
		return fmt.Errorf("relationship has empty endpoint (%q -> %q)", r.FromID, r.ToID)
	}
	if r.FromID == r.ToID {
		return fmt.Errorf("relationship is a self-loop on %q", r.FromID)
	}
	if r.Strength < 0 || r.Strength > 1 {
		return fmt.Errorf("relationship %s -> %s strength %v out of [0,1]", r.FromID, r.ToID, r.Strength)
	}
	return nil
}

// EffectiveStrength returns the strength weight, defaulting to 1.0 when the
// record left it unset.
func (r *Relationship) EffectiveStrength() float64 {
	if r.Strength == 0 {
		return 1.0
	}
	return r.Strength
}

// Interaction is a single logged contact with a person. The analysis layer
// only consumes per-person counts; timestamps are kept for the store.
type Interaction struct {
	WithID     string    `json:"withId"`
	Type       string    `json:"type,omitempty"`
	OccurredAt time.Time `json:"occurredAt,omitempty"`
}
