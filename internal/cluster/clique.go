package cluster

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SimilarityFunc returns the similarity between elements i and j, 0 <= i,
// j < n. Implementations are expected to be safe for concurrent calls from
// different chunks of the same Clusterer.Cluster call.
type SimilarityFunc func(i, j int) (float32, error)

// Clusterer groups n elements into clique-threshold clusters: a cluster is
// only valid if every pair of its members scores >= Tau under Sim. This is
// the clustering rule used for the main image and text passes (Tau=0.985
// for image embeddings, Tau=0.9 for text embeddings — callers configure
// Tau per call, the algorithm itself is metric-agnostic).
type Clusterer struct {
	Tau     float32
	Sim     SimilarityFunc
	Workers int // <=0 means runtime.GOMAXPROCS(0)
}

// NewClusterer returns a Clusterer with the given threshold and similarity
// function, using GOMAXPROCS workers.
func NewClusterer(tau float32, sim SimilarityFunc) *Clusterer {
	return &Clusterer{Tau: tau, Sim: sim}
}

// clusterGreedy assigns each index in order to the first existing cluster
// all of whose current members clear Tau against it, or starts a new
// cluster if none qualify. This greedy construction is what makes the
// result an actual clique under Tau: a point only joins a cluster it is
// mutually above-threshold with every existing member of.
func (c *Clusterer) clusterGreedy(indices []int) ([][]int, error) {
	var clusters [][]int
outer:
	for _, idx := range indices {
		for ci, cluster := range clusters {
			ok := true
			for _, member := range cluster {
				s, err := c.Sim(idx, member)
				if err != nil {
					return nil, err
				}
				if s < c.Tau {
					ok = false
					break
				}
			}
			if ok {
				clusters[ci] = append(cluster, idx)
				continue outer
			}
		}
		clusters = append(clusters, []int{idx})
	}
	return clusters, nil
}

// Cluster runs the two-phase clustering: n elements are chunked across
// Workers goroutines, each producing local clique clusters independently
// (phase 1, parallel); the local clusters are then merged sequentially
// into the final global clustering (phase 2), merging two clusters only
// when every cross-pair between them also clears Tau.
func (c *Clusterer) Cluster(n int) ([][]int, error) {
	if n == 0 {
		return nil, nil
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	local := make([][][]int, workers)
	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			start := w * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			if start >= n {
				return nil
			}
			indices := make([]int, 0, end-start)
			for i := start; i < end; i++ {
				indices = append(indices, i)
			}
			clusters, err := c.clusterGreedy(indices)
			if err != nil {
				return err
			}
			local[w] = clusters
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var global [][]int
	for _, chunkClusters := range local {
		for _, lc := range chunkClusters {
			merged := false
			for gi, gc := range global {
				ok := true
				for _, a := range lc {
					for _, b := range gc {
						s, err := c.Sim(a, b)
						if err != nil {
							return nil, err
						}
						if s < c.Tau {
							ok = false
							break
						}
					}
					if !ok {
						break
					}
				}
				if ok {
					global[gi] = append(gc, lc...)
					merged = true
					break
				}
			}
			if !merged {
				cp := append([]int(nil), lc...)
				global = append(global, cp)
			}
		}
	}
	return global, nil
}
