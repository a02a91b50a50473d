// Package triage implements the cluster triage state machine: given one
// similarity cluster of point IDs and a metadata lookup, it separates
// text-anomaly survivors, GIF candidates needing finer-grained refinement,
// a single non-GIF survivor, and everything else destined for deletion.
package triage

import (
	"github.com/google/uuid"

	"github.com/NekoImageLand/nekodedup/internal/cluster"
	"github.com/NekoImageLand/nekodedup/internal/pointstore"
)

// MetadataLookup resolves a point's metadata and object-store extension.
// Implemented by pointstore.Store in production; a plain map works for
// tests.
type MetadataLookup interface {
	GetMetadata(id uuid.UUID) (*pointstore.PointMetadata, bool)
	GetExt(id uuid.UUID) (*pointstore.PointExt, bool)
}

// TextSimilarity scores two points' text embeddings for the text-anomaly
// clique pass. Callers typically back this with simkernel.Float32 over
// pointstore.TextEmbedding.Vector.
type TextSimilarity func(a, b uuid.UUID) (float32, error)

const TauText float32 = 0.9

// Classification is the 4-tuple result of triaging one cluster: the four
// lists are pairwise disjoint and their union equals the input cluster.
type Classification struct {
	KeptTextAnomalies []uuid.UUID
	ToTriageGIFs      []uuid.UUID
	KeptNonGIF        *uuid.UUID
	OtherDelete       []uuid.UUID
}

// Triage runs the full state machine over cluster c.
func Triage(c []uuid.UUID, lookup MetadataLookup, textSim TextSimilarity) (Classification, error) {
	// Step 1: text-region split.
	var textPoints []uuid.UUID
	for _, id := range c {
		if m, ok := lookup.GetMetadata(id); ok && m.Text != nil {
			textPoints = append(textPoints, id)
		}
	}

	keptTextAnomalies, err := selectTextAnomalySurvivors(textPoints, lookup, textSim)
	if err != nil {
		return Classification{}, err
	}

	if len(textPoints) == len(c) && len(keptTextAnomalies) == len(textPoints) {
		remainder := subtract(c, keptTextAnomalies)
		return Classification{
			KeptTextAnomalies: keptTextAnomalies,
			OtherDelete:       remainder,
		}, nil
	}

	r := subtract(c, keptTextAnomalies)

	// Step 2: GIF/non-GIF split of R.
	var gifs, nonGIFs []uuid.UUID
	for _, id := range r {
		if isGIF(id, lookup) {
			gifs = append(gifs, id)
		} else {
			nonGIFs = append(nonGIFs, id)
		}
	}

	// Step 3: survivor selection.
	result := Classification{KeptTextAnomalies: keptTextAnomalies}
	switch {
	case len(gifs) >= 2:
		result.ToTriageGIFs = gifs
	case len(gifs) == 1:
		single := gifs[0]
		result.KeptNonGIF = &single
	default:
		survivor, ok := pickLargestBySize(nonGIFs, lookup)
		if ok {
			result.KeptNonGIF = &survivor
		}
	}

	// Step 4: delete set = R - to_triage_gifs - {kept_non_gif}.
	excluded := make(map[uuid.UUID]bool, len(result.ToTriageGIFs)+1)
	for _, id := range result.ToTriageGIFs {
		excluded[id] = true
	}
	if result.KeptNonGIF != nil {
		excluded[*result.KeptNonGIF] = true
	}
	for _, id := range r {
		if !excluded[id] {
			result.OtherDelete = append(result.OtherDelete, id)
		}
	}

	return result, nil
}

func isGIF(id uuid.UUID, lookup MetadataLookup) bool {
	ext, ok := lookup.GetExt(id)
	if !ok {
		return false
	}
	return ext.Ext() == "gif"
}

func pickLargestBySize(ids []uuid.UUID, lookup MetadataLookup) (uuid.UUID, bool) {
	var best uuid.UUID
	var bestSize int64 = -1
	found := false
	for _, id := range ids {
		m, ok := lookup.GetMetadata(id)
		if !ok || m.Size == nil {
			continue
		}
		size := *m.Size
		if !found || size > bestSize || (size == bestSize && id.String() < best.String()) {
			best = id
			bestSize = size
			found = true
		}
	}
	return best, found
}

// selectTextAnomalySurvivors clique-clusters textPoints by text-embedding
// similarity at TauText, then promotes the largest-byte-size member of
// each resulting text-cluster.
func selectTextAnomalySurvivors(textPoints []uuid.UUID, lookup MetadataLookup, textSim TextSimilarity) ([]uuid.UUID, error) {
	if len(textPoints) == 0 {
		return nil, nil
	}

	sim := func(i, j int) (float32, error) {
		return textSim(textPoints[i], textPoints[j])
	}
	clusterer := cluster.NewClusterer(TauText, sim)
	groups, err := clusterer.Cluster(len(textPoints))
	if err != nil {
		return nil, err
	}

	survivors := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		ids := make([]uuid.UUID, len(g))
		for i, idx := range g {
			ids[i] = textPoints[idx]
		}
		survivor, ok := pickLargestBySize(ids, lookup)
		if ok {
			survivors = append(survivors, survivor)
		}
	}
	return survivors, nil
}

func subtract(all, remove []uuid.UUID) []uuid.UUID {
	excluded := make(map[uuid.UUID]bool, len(remove))
	for _, id := range remove {
		excluded[id] = true
	}
	var out []uuid.UUID
	for _, id := range all {
		if !excluded[id] {
			out = append(out, id)
		}
	}
	return out
}
