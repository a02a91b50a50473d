package mutation

import (
	"sort"

	"github.com/google/uuid"

	"github.com/NekoImageLand/nekodedup/internal/triage"
)

// CategoryLookup returns the categories currently tagged on a point, or
// nil if it has none.
type CategoryLookup func(id uuid.UUID) []string

// Plan turns a finalized cluster classification into a ResetPointTask.
// Each survivor's transfer tag set is its own existing categories merged
// with the union of every discarded point's categories in the same
// cluster, so retagging a duplicate's categories onto the keeper never
// loses information the duplicates carried.
func Plan(fc triage.FinalClassification, categories CategoryLookup) ResetPointTask {
	discardTags := make(map[string]struct{})
	for _, id := range fc.Delete {
		for _, tag := range categories(id) {
			discardTags[tag] = struct{}{}
		}
	}

	task := ResetPointTask{
		KeepIDs:      append([]uuid.UUID(nil), fc.Keep...),
		DiscardIDs:   append([]uuid.UUID(nil), fc.Delete...),
		TransferTags: make([][]string, len(fc.Keep)),
	}

	for i, id := range fc.Keep {
		merged := make(map[string]struct{}, len(discardTags))
		for tag := range discardTags {
			merged[tag] = struct{}{}
		}
		for _, tag := range categories(id) {
			merged[tag] = struct{}{}
		}
		tags := make([]string, 0, len(merged))
		for tag := range merged {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		task.TransferTags[i] = tags
	}

	return task
}
