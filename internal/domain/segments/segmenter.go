package segments

import (
	"github.com/meet1785/shortclips/internal/types"
)

// Segment greedily groups consecutive scenes into candidate clip windows.
// A running window accumulates scene durations until adding the next scene
// would push it past maxDur; at that point the window is emitted (if it
// reached minDur) and a fresh window starts at that scene. Windows that never
// reach minDur are dropped rather than padded: a clip shorter than the floor
// is unusable.
//
// A single scene longer than maxDur still produces one window covering it in
// full, since it cannot be split without cutting mid-shot. That is the only
// case where an emitted window exceeds maxDur.
func Segment(scenes []types.Scene, minDur, maxDur float64) []types.CandidateClip {
	// Duration bounds are validated by the caller; guard anyway so bad config
	// degrades to "no candidates" instead of nonsense windows.
	if minDur <= 0 || maxDur <= 0 || minDur > maxDur {
		return nil
	}
	if len(scenes) == 0 {
		return nil
	}

	var out []types.CandidateClip
	currentStart := 0.0
	currentDur := 0.0

	for _, sc := range scenes {
		if currentDur+sc.Duration > maxDur {
			if currentDur >= minDur {
				out = append(out, types.CandidateClip{
					Start:    currentStart,
					End:      sc.Start,
					Duration: currentDur,
				})
			}
			currentStart = sc.Start
			currentDur = sc.Duration
			continue
		}
		currentDur += sc.Duration
	}

	if currentDur >= minDur {
		out = append(out, types.CandidateClip{
			Start:    currentStart,
			End:      scenes[len(scenes)-1].End,
			Duration: currentDur,
		})
	}

	return out
}
