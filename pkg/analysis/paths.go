package analysis

import "sort"

// Path search bounds: simple-path enumeration is exponential in the worst
// case, so the walk is cut off at a fixed hop count and result count.
const (
	pathCutoff   = 4
	maxPaths     = 3
	maxPathQueue = 10000
)

// CollaborationPaths returns up to three short collaboration paths between
// two people, shortest first. Unknown or mutually unreachable endpoints
// yield an empty result, not an error.
func (gr *Graph) CollaborationPaths(from, to string) ([][]string, error) {
	if gr == nil {
		return nil, ErrNotBuilt
	}
	if !gr.Has(from) || !gr.Has(to) || from == to {
		return [][]string{}, nil
	}

	paths := gr.simplePaths(from, to, pathCutoff)
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) == len(paths[j]) {
			return lexLess(paths[i], paths[j])
		}
		return len(paths[i]) < len(paths[j])
	})
	if len(paths) > maxPaths {
		paths = paths[:maxPaths]
	}
	if paths == nil {
		paths = [][]string{}
	}
	return paths, nil
}

// simplePaths enumerates simple paths from src to dst with at most cutoff
// edges, via iterative DFS. The visit queue is bounded as a safety valve on
// dense graphs.
func (gr *Graph) simplePaths(src, dst string, cutoff int) [][]string {
	var out [][]string
	stack := [][]string{{src}}
	steps := 0

	for len(stack) > 0 && steps < maxPathQueue {
		steps++
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur := path[len(path)-1]

		if cur == dst {
			out = append(out, path)
			continue
		}
		if len(path) > cutoff {
			continue
		}
		onPath := make(map[string]bool, len(path))
		for _, id := range path {
			onPath[id] = true
		}
		for _, nbr := range gr.Neighbors(cur) {
			if onPath[nbr] {
				continue
			}
			next := append(append([]string{}, path...), nbr)
			stack = append(stack, next)
		}
	}
	return out
}

func lexLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
