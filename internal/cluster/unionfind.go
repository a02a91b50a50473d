// Package cluster implements the two clustering algorithms the dedup
// pipeline uses at different stages: clique-threshold clustering (every
// pair within a cluster must clear the similarity threshold) for the main
// image/text passes and the GIF intra-pair reclustering step, and
// connected-components union-find, a transitive-grouping variant that no
// pipeline stage in this module calls.
package cluster

import (
	"sort"
	"sync/atomic"
)

// UnionFind is a lock-free, CAS-based disjoint-set structure safe for
// concurrent Union/Find calls from multiple goroutines.
type UnionFind struct {
	parent []int32
}

// NewUnionFind returns a UnionFind over n singleton elements {0, ..., n-1}.
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{parent: make([]int32, n)}
	for i := range uf.parent {
		uf.parent[i] = int32(i)
	}
	return uf
}

// Find returns the representative of x's set, compressing the path as it
// goes (best-effort: a failed CAS during compression is not retried, since
// correctness only depends on eventually reaching the true root).
func (uf *UnionFind) Find(x int) int {
	root := int32(x)
	for {
		p := atomic.LoadInt32(&uf.parent[root])
		if p == root {
			break
		}
		root = p
	}

	if int32(x) != root && atomic.LoadInt32(&uf.parent[x]) != root {
		curr := int32(x)
		for curr != root {
			next := atomic.LoadInt32(&uf.parent[curr])
			if next == root {
				break
			}
			atomic.CompareAndSwapInt32(&uf.parent[curr], next, root)
			curr = next
		}
	}
	return int(root)
}

// Union merges the sets containing x and y. Returns false if they were
// already in the same set.
func (uf *UnionFind) Union(x, y int) bool {
	for {
		px, py := int32(uf.Find(x)), int32(uf.Find(y))
		if px == py {
			return false
		}
		if px > py {
			px, py = py, px
		}
		if atomic.CompareAndSwapInt32(&uf.parent[px], px, py) {
			return true
		}
	}
}

// Groups returns the connected components as slices of element indices, in
// ascending order of each group's smallest member.
func (uf *UnionFind) Groups() [][]int {
	byRoot := make(map[int][]int)
	for i := range uf.parent {
		root := uf.Find(i)
		byRoot[root] = append(byRoot[root], i)
	}
	groups := make([][]int, 0, len(byRoot))
	for _, members := range byRoot {
		groups = append(groups, members)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a][0] < groups[b][0] })
	return groups
}

// ConnectedComponents unions every pair in edges over n elements and
// returns the resulting groups.
func ConnectedComponents(n int, edges [][2]int) [][]int {
	uf := NewUnionFind(n)
	for _, e := range edges {
		uf.Union(e[0], e[1])
	}
	return uf.Groups()
}
