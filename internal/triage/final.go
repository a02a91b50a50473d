package triage

import "github.com/google/uuid"

// GIFOutcome is the stage-D-and-beyond result of refining one cluster's
// ToTriageGIFs list: the survivors chosen per GIF sub-cluster plus the
// three ways a GIF can be routed to deletion instead.
type GIFOutcome struct {
	KeptGIFs             []uuid.UUID
	DiscardDuplicateGIFs []uuid.UUID
	DiscardSameFrameGIFs []uuid.UUID // static GIFs, from Stage A
	InvalidGIFs          []uuid.UUID // decode/parameter failures, plus poor-frames (strict mode) from Stage B
}

// FinalClassification is the fully-resolved per-cluster result: every
// input point ends up in exactly one of Keep or Delete.
type FinalClassification struct {
	Keep   []uuid.UUID
	Delete []uuid.UUID
}

// Finalize merges a Classification with its cluster's GIFOutcome (the zero
// value if the cluster had no GIFs to refine) into a FinalClassification.
func Finalize(c Classification, gif GIFOutcome) FinalClassification {
	var keep []uuid.UUID
	keep = append(keep, c.KeptTextAnomalies...)
	if c.KeptNonGIF != nil {
		keep = append(keep, *c.KeptNonGIF)
	}
	keep = append(keep, gif.KeptGIFs...)

	var del []uuid.UUID
	del = append(del, c.OtherDelete...)
	del = append(del, gif.DiscardDuplicateGIFs...)
	del = append(del, gif.DiscardSameFrameGIFs...)
	del = append(del, gif.InvalidGIFs...)

	return FinalClassification{Keep: keep, Delete: del}
}
