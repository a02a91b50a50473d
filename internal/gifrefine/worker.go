package gifrefine

import (
	"image"
	"sort"

	"github.com/google/uuid"
)

// GIFCandidate is one GIF in a to_triage_gifs pair-list awaiting refinement.
type GIFCandidate struct {
	ID   uuid.UUID
	Path string
	Size int64
}

// ClipCandidate is a GIF that survived Stages A/B, ready for CLIP
// embedding: its anchor frames, resized and flattened to packed RGB bytes.
type ClipCandidate struct {
	ID     uuid.UUID
	Path   string
	Size   int64
	Frames [][]byte
}

// PairResult is process_pair's output: every input GIF routed to exactly
// one of invalid/static/poor-frames/ready-for-clip.
type PairResult struct {
	InvalidIDs       []uuid.UUID
	InvalidReasons   map[uuid.UUID]string
	StaticGIFIDs     []uuid.UUID
	PoorFrameGIFIDs  []uuid.UUID
	PrepareClipPairs []ClipCandidate
}

type poorFrameEntry struct {
	id     uuid.UUID
	path   string
	size   int64
	frames []*image.RGBA
}

// ProcessPair runs Stages A and B over one to_triage_gifs pair-list.
//
// The control-reversal edge case: if every single candidate in the pair
// failed the strict frame-count check (none made it to PrepareClipPairs),
// the smallest-byte-size candidate is kept as the sole poor-frames discard
// and every other candidate is retried in permissive mode, so a pair of
// all-short GIFs doesn't silently discard every member.
func ProcessPair(candidates []GIFCandidate, cfg Config) PairResult {
	var result PairResult
	var poorFrames []poorFrameEntry

	for _, cand := range candidates {
		frames, err := decodeFrames(cand.Path)
		if err != nil {
			addInvalid(&result, cand.ID, err.Error())
			continue
		}

		static, err := isStatic(frames, cfg.StaticHashDistance)
		if err != nil {
			addInvalid(&result, cand.ID, err.Error())
			continue
		}
		if static {
			result.StaticGIFIDs = append(result.StaticGIFIDs, cand.ID)
			continue
		}

		clip, err := extractClip(cand, frames, cfg.PermissiveFrames, cfg.ExtractHW)
		if err != nil {
			if _, isPoor := err.(*ErrPoorFrames); isPoor {
				poorFrames = append(poorFrames, poorFrameEntry{id: cand.ID, path: cand.Path, size: cand.Size, frames: frames})
				continue
			}
			addInvalid(&result, cand.ID, err.Error())
			continue
		}
		result.PrepareClipPairs = append(result.PrepareClipPairs, clip)
	}

	// Control reversal: every candidate failed the strict frame-count
	// check, so retry all but the smallest in permissive mode instead of
	// discarding the whole pair.
	if len(result.PrepareClipPairs) == 0 && len(poorFrames) > 0 {
		sort.Slice(poorFrames, func(i, j int) bool { return poorFrames[i].size < poorFrames[j].size })
		keep := poorFrames[0]
		retry := poorFrames[1:]

		result.PoorFrameGIFIDs = []uuid.UUID{keep.id}
		for _, entry := range retry {
			clip, err := extractClip(GIFCandidate{ID: entry.id, Path: entry.path, Size: entry.size}, entry.frames, true, cfg.ExtractHW)
			if err != nil {
				result.PoorFrameGIFIDs = append(result.PoorFrameGIFIDs, entry.id)
				continue
			}
			result.PrepareClipPairs = append(result.PrepareClipPairs, clip)
		}
	} else {
		for _, entry := range poorFrames {
			result.PoorFrameGIFIDs = append(result.PoorFrameGIFIDs, entry.id)
		}
	}

	return result
}

func addInvalid(result *PairResult, id uuid.UUID, reason string) {
	result.InvalidIDs = append(result.InvalidIDs, id)
	if result.InvalidReasons == nil {
		result.InvalidReasons = make(map[uuid.UUID]string)
	}
	result.InvalidReasons[id] = reason
}

func extractClip(cand GIFCandidate, frames []*image.RGBA, permissive bool, extractHW int) (ClipCandidate, error) {
	idxs, err := anchorIndices(len(frames), permissive)
	if err != nil {
		return ClipCandidate{}, err
	}
	picked := make([][]byte, len(idxs))
	for i, idx := range idxs {
		resized := resizeToSquare(frames[idx], extractHW)
		picked[i] = toRGBBytes(resized)
	}
	return ClipCandidate{ID: cand.ID, Path: cand.Path, Size: cand.Size, Frames: picked}, nil
}
