package gossip

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// informed is the set of nodes a wave has already reached.
type informed struct {
	ids mapset.Set[string]
}

func newInformed(ids ...string) informed {
	return informed{ids: mapset.NewThreadUnsafeSet(ids...)}
}

func (i informed) has(id string) bool { return i.ids.Contains(id) }

// with returns a copy of i extended by ids.
func (i informed) with(ids ...string) informed {
	out := i.ids.Clone()
	out.Append(ids...)
	return informed{ids: out}
}

// sorted returns the members in ascending order, never nil.
func (i informed) sorted() []string {
	out := make([]string, 0, i.ids.Cardinality())
	out = append(out, i.ids.ToSlice()...)
	slices.Sort(out)
	return out
}
