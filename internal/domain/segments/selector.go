package segments

import (
	"math"

	"github.com/meet1785/shortclips/internal/types"
)

// snapTolerance is how close (in seconds) a synthesized boundary must be to a
// real scene cut before it is moved onto that cut.
const snapTolerance = 2.0

// Select picks the final ordered list of windows to render. When the
// segmenter produced enough candidates, the first numClips are taken in
// temporal order; no interestingness ranking is attempted. Otherwise an
// evenly spaced fallback partition of the full timeline is synthesized, with
// each boundary snapped to a nearby scene cut, and windows that end up
// shorter than minDur discarded. The fallback may therefore return fewer than
// numClips windows.
func Select(scenes []types.Scene, candidates []types.CandidateClip, numClips int, minDur, maxDur float64) []types.CandidateClip {
	if numClips <= 0 {
		return nil
	}

	if len(candidates) >= numClips {
		out := make([]types.CandidateClip, numClips)
		copy(out, candidates[:numClips])
		return out
	}

	if len(scenes) == 0 {
		return nil
	}

	total := scenes[len(scenes)-1].End
	interval := total / float64(numClips+1)

	out := make([]types.CandidateClip, 0, numClips)
	for i := 0; i < numClips; i++ {
		start := interval * (float64(i) + 0.5)
		end := math.Min(start+maxDur, total)
		start, end = snapToScenes(start, end, scenes)
		if end-start >= minDur {
			out = append(out, types.CandidateClip{
				Start:    start,
				End:      end,
				Duration: end - start,
			})
		}
	}
	return out
}

// snapToScenes moves window boundaries onto scene cuts within snapTolerance.
// The scan walks every scene unconditionally and keeps overwriting, so when
// several cuts fall inside the tolerance the last one in scene order wins.
func snapToScenes(start, end float64, scenes []types.Scene) (float64, float64) {
	for _, sc := range scenes {
		if math.Abs(sc.Start-start) < snapTolerance {
			start = sc.Start
		}
		if math.Abs(sc.End-end) < snapTolerance {
			end = sc.End
		}
	}
	return start, end
}
