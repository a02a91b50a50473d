package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func containsSorted(t *testing.T, groups [][]int, want []int) bool {
	t.Helper()
	for _, g := range groups {
		if len(g) != len(want) {
			continue
		}
		seen := make(map[int]bool, len(g))
		for _, v := range g {
			seen[v] = true
		}
		all := true
		for _, v := range want {
			if !seen[v] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func TestUnionFind_ConnectedComponents(t *testing.T) {
	groups := ConnectedComponents(5, [][2]int{{0, 1}, {1, 2}, {3, 4}})
	assert.Len(t, groups, 2)
	assert.True(t, containsSorted(t, groups, []int{0, 1, 2}))
	assert.True(t, containsSorted(t, groups, []int{3, 4}))
}

func TestUnionFind_UnionReturnsFalseWhenAlreadyMerged(t *testing.T) {
	uf := NewUnionFind(3)
	assert.True(t, uf.Union(0, 1))
	assert.False(t, uf.Union(0, 1))
	assert.False(t, uf.Union(1, 0))
}

func TestUnionFind_SingletonsRemainSeparate(t *testing.T) {
	groups := ConnectedComponents(3, nil)
	assert.Len(t, groups, 3)
}

// matrixSim adapts a square similarity matrix to a SimilarityFunc, scoring
// every element 1 against itself.
func matrixSim(m [][]float32) SimilarityFunc {
	return func(i, j int) (float32, error) {
		if i == j {
			return 1, nil
		}
		return m[i][j], nil
	}
}

func TestClusterer_AllPairsCliqueRequired(t *testing.T) {
	m := [][]float32{
		{1, 0.99, 0.99, 0},
		{0.99, 1, 0.5, 0}, // 1-2 below tau, so {0,1,2} is NOT a valid clique
		{0.99, 0.5, 1, 0},
		{0, 0, 0, 1},
	}
	c := NewClusterer(0.9, matrixSim(m))
	c.Workers = 1
	groups, err := c.Cluster(4)
	require.NoError(t, err)

	for _, g := range groups {
		for _, a := range g {
			for _, b := range g {
				if a == b {
					continue
				}
				sim, _ := c.Sim(a, b)
				assert.GreaterOrEqualf(t, sim, c.Tau, "cluster %v violates clique invariant at %d,%d", g, a, b)
			}
		}
	}
}

func TestClusterer_FullCliqueMergesIntoOneGroup(t *testing.T) {
	m := [][]float32{
		{1, 0.99, 0.99},
		{0.99, 1, 0.99},
		{0.99, 0.99, 1},
	}
	c := NewClusterer(0.95, matrixSim(m))
	c.Workers = 2
	groups, err := c.Cluster(3)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.ElementsMatch(t, []int{0, 1, 2}, groups[0])
}

func TestClusterer_EmptyInput(t *testing.T) {
	c := NewClusterer(0.9, matrixSim(nil))
	groups, err := c.Cluster(0)
	require.NoError(t, err)
	assert.Nil(t, groups)
}

func TestClusterer_PropagatesSimError(t *testing.T) {
	boom := assert.AnError
	c := NewClusterer(0.9, func(i, j int) (float32, error) { return 0, boom })
	c.Workers = 1
	_, err := c.Cluster(3)
	require.Error(t, err)
}
