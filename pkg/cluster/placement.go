package cluster

import (
	"encoding/binary"
	"hash/fnv"
	"slices"
	"sort"
)

// Placement picks the entry node for a broadcast value on a consistent hash
// ring, so a workload spreads evenly over the cluster and the same value
// always enters through the same node.
type Placement struct {
	points []uint32          // sorted
	owners map[uint32]string // point -> node id
}

// NewPlacement hashes replicas virtual points per node onto the ring.
func NewPlacement(ids []string, replicas int) *Placement {
	if replicas <= 0 {
		replicas = 128
	}
	p := &Placement{owners: make(map[uint32]string, len(ids)*replicas)}
	for _, id := range ids {
		for i := 0; i < replicas; i++ {
			pt := hash32(pointKey(id, i))
			p.owners[pt] = id
			p.points = append(p.points, pt)
		}
	}
	slices.Sort(p.points)
	return p
}

// Entry returns the node owning v, or "" for an empty ring.
func (p *Placement) Entry(v int64) string {
	if len(p.points) == 0 {
		return ""
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h := hash32(buf[:])
	// first point >= h, wrapping
	idx := sort.Search(len(p.points), func(i int) bool { return p.points[i] >= h })
	if idx == len(p.points) {
		idx = 0
	}
	return p.owners[p.points[idx]]
}

func hash32(b []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(b)
	return h.Sum32()
}

func pointKey(id string, i int) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(i))
	return append([]byte(id), buf[:]...)
}
