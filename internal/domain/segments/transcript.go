package segments

import (
	"strings"

	"github.com/meet1785/shortclips/internal/types"
)

// InRange returns the transcript segments fully contained in [start, end].
func InRange(segs []types.TranscriptSegment, start, end float64) []types.TranscriptSegment {
	var out []types.TranscriptSegment
	for _, s := range segs {
		if s.Start >= start && s.End <= end {
			out = append(out, s)
		}
	}
	return out
}

// ClipText joins the speech text spoken inside [start, end]. Used as the
// clip caption context for title and hook generation.
func ClipText(segs []types.TranscriptSegment, start, end float64) string {
	var parts []string
	for _, s := range InRange(segs, start, end) {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// ScenesInRange returns the scenes overlapping [start, end].
func ScenesInRange(scenes []types.Scene, start, end float64) []types.Scene {
	var out []types.Scene
	for _, sc := range scenes {
		if sc.Start <= end && sc.End >= start {
			out = append(out, sc)
		}
	}
	return out
}
