package analysis

// OrgNode is one person in the reconstructed hierarchy. Leaves have an
// empty DirectReports slice, never nil, so renderers can recurse without
// nil checks.
type OrgNode struct {
	ID            string     `json:"id"`
	Role          string     `json:"role,omitempty"`
	Department    string     `json:"department,omitempty"`
	DirectReports []*OrgNode `json:"directReports"`
}

// Count returns the number of people in this subtree, including the root.
func (n *OrgNode) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, r := range n.DirectReports {
		total += r.Count()
	}
	return total
}

// OrgChart is the full reconstructed hierarchy: one tree per top-level
// manager, ordered by manager id.
type OrgChart struct {
	Roots []*OrgNode `json:"roots"`
}

// Count returns the total number of people reachable from the top-level
// managers.
func (c *OrgChart) Count() int {
	total := 0
	for _, r := range c.Roots {
		total += r.Count()
	}
	return total
}

// BuildOrgChart reconstructs the hierarchy from the reporting graph.
// A manager is any node with at least one incoming reporting edge; top-level
// managers additionally report to nobody. Each traversal carries a visited
// set, so a cyclic reporting line yields a *CycleError instead of infinite
// recursion.
func BuildOrgChart(dg *DirectedGraph) (*OrgChart, error) {
	if dg == nil {
		return nil, ErrNotBuilt
	}

	chart := &OrgChart{Roots: []*OrgNode{}}
	for _, id := range dg.order {
		if len(dg.DirectReports(id)) == 0 {
			continue // not a manager
		}
		if dg.ManagerOf(id) != "" {
			continue // mid-level; reached through their own manager
		}
		root, err := buildSubtree(dg, id, map[string]bool{}, []string{})
		if err != nil {
			return nil, err
		}
		chart.Roots = append(chart.Roots, root)
	}
	return chart, nil
}

func buildSubtree(dg *DirectedGraph, id string, visited map[string]bool, path []string) (*OrgNode, error) {
	if visited[id] {
		return nil, &CycleError{Path: append(append([]string{}, path...), id)}
	}
	visited[id] = true
	path = append(path, id)

	p, _ := dg.Person(id)
	node := &OrgNode{
		ID:            id,
		Role:          p.Role,
		Department:    p.DepartmentOrUnknown(),
		DirectReports: []*OrgNode{},
	}
	for _, report := range dg.DirectReports(id) {
		child, err := buildSubtree(dg, report, visited, path)
		if err != nil {
			return nil, err
		}
		node.DirectReports = append(node.DirectReports, child)
	}
	return node, nil
}

// FilterByDepartment prunes the chart to subtrees containing the given
// department: a node is kept when its own department matches or any
// descendant's does, preserving the connecting structure above matches.
func (c *OrgChart) FilterByDepartment(department string) *OrgChart {
	filtered := &OrgChart{Roots: []*OrgNode{}}
	for _, r := range c.Roots {
		if kept := filterNode(r, department); kept != nil {
			filtered.Roots = append(filtered.Roots, kept)
		}
	}
	return filtered
}

func filterNode(n *OrgNode, department string) *OrgNode {
	var kept []*OrgNode
	for _, r := range n.DirectReports {
		if k := filterNode(r, department); k != nil {
			kept = append(kept, k)
		}
	}
	if n.Department != department && len(kept) == 0 {
		return nil
	}
	if kept == nil {
		kept = []*OrgNode{}
	}
	return &OrgNode{
		ID:            n.ID,
		Role:          n.Role,
		Department:    n.Department,
		DirectReports: kept,
	}
}
