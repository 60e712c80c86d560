package cluster

import (
	"math"
	"slices"
	"strconv"
)

// IDs names count nodes n0, n1, ...
func IDs(count int) []string {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = "n" + strconv.Itoa(i)
	}
	return ids
}

// Topology maps each node to its neighbours.
type Topology map[string][]string

func (t Topology) link(a, b string) {
	if a == b || slices.Contains(t[a], b) {
		return
	}
	t[a] = append(t[a], b)
	t[b] = append(t[b], a)
}

func empty(ids []string) Topology {
	t := make(Topology, len(ids))
	for _, id := range ids {
		t[id] = []string{}
	}
	return t
}

// Line links each node to the next.
func Line(ids []string) Topology {
	t := empty(ids)
	for i := 1; i < len(ids); i++ {
		t.link(ids[i-1], ids[i])
	}
	return t
}

// Ring is a Line whose ends are joined.
func Ring(ids []string) Topology {
	t := Line(ids)
	if len(ids) > 2 {
		t.link(ids[len(ids)-1], ids[0])
	}
	return t
}

// Grid lays the nodes out row by row on a square grid and links horizontal
// and vertical neighbours.
func Grid(ids []string) Topology {
	t := empty(ids)
	side := int(math.Ceil(math.Sqrt(float64(len(ids)))))
	for i := range ids {
		if (i+1)%side != 0 && i+1 < len(ids) {
			t.link(ids[i], ids[i+1])
		}
		if i+side < len(ids) {
			t.link(ids[i], ids[i+side])
		}
	}
	return t
}

// Tree links every node to its parent in a tree with the given fan-out.
func Tree(ids []string, fanout int) Topology {
	t := empty(ids)
	if fanout < 1 {
		fanout = 1
	}
	for i := 1; i < len(ids); i++ {
		t.link(ids[(i-1)/fanout], ids[i])
	}
	return t
}

// Total links every pair of nodes.
func Total(ids []string) Topology {
	t := empty(ids)
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			t.link(ids[i], ids[j])
		}
	}
	return t
}

// Named builds one of the topologies above by name: line, ring, grid, total,
// tree2, tree3 or tree4. It reports false for an unknown name.
func Named(name string, ids []string) (Topology, bool) {
	switch name {
	case "line":
		return Line(ids), true
	case "ring":
		return Ring(ids), true
	case "grid":
		return Grid(ids), true
	case "total":
		return Total(ids), true
	case "tree2":
		return Tree(ids, 2), true
	case "tree3":
		return Tree(ids, 3), true
	case "tree4":
		return Tree(ids, 4), true
	}
	return nil, false
}
