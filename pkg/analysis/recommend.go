package analysis

import (
	"fmt"
	"sort"
)

// Recommendation priorities, higher wins. Same-department colleagues beat
// shared-expertise matches beat friend-of-friend bridges.
const (
	PrioritySameDepartment  = 3
	PrioritySharedExpertise = 2
	PrioritySecondDegree    = 1
)

// expertsPerSkill bounds how many candidates each expertise tag contributes
// before moving to the next tag, mirroring the directory's top-matches
// search.
const expertsPerSkill = 3

// Recommendation is one suggested connection for a person.
type Recommendation struct {
	PersonID string `json:"personId"`
	Reason   string `json:"reason"`
	Priority int    `json:"priority"`
	// Via names the shared connection for second-degree suggestions.
	Via string `json:"via,omitempty"`
}

// RecommendConnections produces up to limit ranked, deduplicated connection
// suggestions for personID. An unknown requester yields a *NotFoundError.
// No candidates yields an empty, non-nil slice.
func (gr *Graph) RecommendConnections(personID string, limit int) ([]Recommendation, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	requester, ok := gr.Person(personID)
	if !ok {
		return nil, &NotFoundError{ID: personID}
	}
	if limit <= 0 {
		limit = 5
	}

	connected := make(map[string]bool)
	connected[personID] = true // never recommend self
	directs := gr.Neighbors(personID)
	for _, id := range directs {
		connected[id] = true
	}

	var candidates []Recommendation

	// Priority 3: same-department colleagues not yet connected.
	dept := requester.DepartmentOrUnknown()
	for _, id := range gr.order {
		if len(candidates) >= limit {
			break
		}
		if connected[id] {
			continue
		}
		if p := gr.people[id]; p.DepartmentOrUnknown() == dept {
			candidates = append(candidates, Recommendation{
				PersonID: id,
				Reason:   fmt.Sprintf("Same department (%s)", dept),
				Priority: PrioritySameDepartment,
			})
		}
	}

	// Priority 2: shared expertise, a few matches per tag.
	for _, skill := range requester.ExpertiseAreas {
		if len(candidates) >= limit {
			break
		}
		matched := 0
		for _, id := range gr.order {
			if len(candidates) >= limit || matched >= expertsPerSkill {
				break
			}
			if connected[id] {
				continue
			}
			if p := gr.people[id]; p.HasExpertise(skill) {
				candidates = append(candidates, Recommendation{
					PersonID: id,
					Reason:   fmt.Sprintf("Shared expertise in %s", skill),
					Priority: PrioritySharedExpertise,
				})
				matched++
			}
		}
	}

	// Priority 1: second-degree connections through an existing one.
	for _, via := range directs {
		if len(candidates) >= limit {
			break
		}
		for _, id := range gr.Neighbors(via) {
			if len(candidates) >= limit {
				break
			}
			if connected[id] {
				continue
			}
			candidates = append(candidates, Recommendation{
				PersonID: id,
				Reason:   fmt.Sprintf("Connected through %s", via),
				Priority: PrioritySecondDegree,
				Via:      via,
			})
		}
	}

	// Sort by priority descending (stable: in-stage order is preserved),
	// then dedup keeping the first occurrence.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	seen := make(map[string]bool, len(candidates))
	out := make([]Recommendation, 0, limit)
	for _, c := range candidates {
		if seen[c.PersonID] {
			continue
		}
		seen[c.PersonID] = true
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
