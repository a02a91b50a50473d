package gifrefine

import (
	"github.com/NekoImageLand/nekodedup/internal/cluster"
	"github.com/NekoImageLand/nekodedup/internal/simkernel"
	"github.com/NekoImageLand/nekodedup/internal/triage"
)

// Recluster implements Stage D: intra-pair re-clustering of mean GIF
// embeddings via the clique-threshold algorithm at cfg.Tau, keeping the
// largest-byte-size GIF from each resulting sub-cluster and discarding the
// rest as duplicates.
func Recluster(means []MeanEmbeddingResult, cfg Config) (triage.GIFOutcome, error) {
	if len(means) == 0 {
		return triage.GIFOutcome{}, nil
	}

	sim := func(i, j int) (float32, error) {
		return simkernel.Float32(means[i].Vector, means[j].Vector)
	}
	clusterer := cluster.NewClusterer(cfg.Tau, sim)
	groups, err := clusterer.Cluster(len(means))
	if err != nil {
		return triage.GIFOutcome{}, err
	}

	var outcome triage.GIFOutcome
	for _, g := range groups {
		bestIdx := g[0]
		for _, idx := range g[1:] {
			if means[idx].Size > means[bestIdx].Size ||
				(means[idx].Size == means[bestIdx].Size && means[idx].ID.String() < means[bestIdx].ID.String()) {
				bestIdx = idx
			}
		}
		outcome.KeptGIFs = append(outcome.KeptGIFs, means[bestIdx].ID)
		for _, idx := range g {
			if idx != bestIdx {
				outcome.DiscardDuplicateGIFs = append(outcome.DiscardDuplicateGIFs, means[idx].ID)
			}
		}
	}
	return outcome, nil
}

// MergeOutcome folds a ProcessPair result's invalid/static/poor-frame
// routing into the GIFOutcome Recluster produces for the surviving
// candidates, giving the complete per-pair GIF disposition: decode/
// parameter failures and strict-mode poor-frame GIFs both land on
// InvalidGIFs, static GIFs land on DiscardSameFrameGIFs.
func MergeOutcome(pair PairResult, reclustered triage.GIFOutcome) triage.GIFOutcome {
	out := reclustered
	out.InvalidGIFs = append(out.InvalidGIFs, pair.InvalidIDs...)
	out.InvalidGIFs = append(out.InvalidGIFs, pair.PoorFrameGIFIDs...)
	out.DiscardSameFrameGIFs = append(out.DiscardSameFrameGIFs, pair.StaticGIFIDs...)
	return out
}
