// Package mutation plans and emits the keep/discard/retag operations a
// finalized cluster classification turns into against the vector store.
package mutation

import "github.com/google/uuid"

// ResetPointTask is one cluster's worth of mutations: the survivors to
// keep (each receiving a merged tag set), and the rest to discard.
// TransferTags[i] is the tag set for KeepIDs[i] — the two slices are kept
// parallel rather than paired into a struct, matching the flattened shape
// the vector-DB SetPayload call actually wants.
type ResetPointTask struct {
	KeepIDs      []uuid.UUID
	DiscardIDs   []uuid.UUID
	TransferTags [][]string
}

// FailedTask records a task that failed to apply, for replay.
type FailedTask struct {
	Task  ResetPointTask `json:"task"`
	Error string         `json:"error"`
}
