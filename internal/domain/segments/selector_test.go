package segments

import (
	"reflect"
	"testing"

	"github.com/meet1785/shortclips/internal/types"
)

func TestSelect_EnoughCandidates(t *testing.T) {
	scenes := contiguousScenes(20, 20, 20)
	cands := []types.CandidateClip{
		{Start: 0, End: 20, Duration: 20},
		{Start: 20, End: 40, Duration: 20},
		{Start: 40, End: 60, Duration: 20},
	}
	got := Select(scenes, cands, 2, 15, 60)
	if len(got) != 2 {
		t.Fatalf("got %d clips, want 2", len(got))
	}
	// Earliest windows win; no scoring beyond temporal order.
	if !almostEqual(got[0].Start, 0) || !almostEqual(got[1].Start, 20) {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestSelect_ZeroClipsFastPath(t *testing.T) {
	scenes := contiguousScenes(20, 20)
	cands := []types.CandidateClip{{Start: 0, End: 20, Duration: 20}}
	if got := Select(scenes, cands, 0, 15, 60); got != nil {
		t.Fatalf("expected nil for numClips=0, got %+v", got)
	}
}

func TestSelect_NoScenesNoCandidates(t *testing.T) {
	if got := Select(nil, nil, 3, 15, 60); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSelect_FallbackPartition(t *testing.T) {
	// Timeline of 90s, three 30s scenes, only two candidates for three
	// requested clips. interval = 90/4 = 22.5; raw starts at 11.25, 33.75,
	// 56.25; none is within 2s of a cut (0, 30, 60), so starts stay raw.
	// Ends are capped at 90 and the cap is itself a scene end, so the last
	// two windows snap their end onto 90.
	scenes := contiguousScenes(30, 30, 30)
	cands := []types.CandidateClip{
		{Start: 0, End: 30, Duration: 30},
		{Start: 30, End: 60, Duration: 30},
	}
	got := Select(scenes, cands, 3, 15, 60)
	if len(got) != 3 {
		t.Fatalf("got %d clips, want 3: %+v", len(got), got)
	}
	wantStarts := []float64{11.25, 33.75, 56.25}
	for i, c := range got {
		if !almostEqual(c.Start, wantStarts[i]) {
			t.Fatalf("clip %d start = %v, want %v", i, c.Start, wantStarts[i])
		}
		if c.Duration < 15 {
			t.Fatalf("clip %d duration %v below floor", i, c.Duration)
		}
		if i > 0 && got[i-1].Start > c.Start {
			t.Fatalf("clips out of order: %+v", got)
		}
	}
	if !almostEqual(got[1].End, 90) || !almostEqual(got[2].End, 90) {
		t.Fatalf("expected capped ends snapped to 90: %+v", got)
	}
}

func TestSelect_FallbackDiscardsShortWindows(t *testing.T) {
	// With a 20s timeline and 4 requested clips the late windows collapse
	// below the floor once capped at the timeline end; they are discarded,
	// not replaced.
	scenes := contiguousScenes(10, 10)
	got := Select(scenes, nil, 4, 15, 60)
	if len(got) >= 4 {
		t.Fatalf("expected fewer than 4 windows, got %d", len(got))
	}
	for _, c := range got {
		if c.Duration < 15 {
			t.Fatalf("window below floor survived: %+v", c)
		}
	}
}

func TestSelect_Idempotent(t *testing.T) {
	scenes := contiguousScenes(13, 21, 8, 30, 18)
	cands := []types.CandidateClip{{Start: 0, End: 34, Duration: 34}}
	a := Select(scenes, cands, 3, 15, 60)
	b := Select(scenes, cands, 3, 15, 60)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("selection not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestSnapToScenes_Tolerance(t *testing.T) {
	scenes := []types.Scene{
		{Index: 1, Start: 10, End: 40, Duration: 30},
		{Index: 2, Start: 40, End: 70, Duration: 30},
	}
	tests := []struct {
		name      string
		start     float64
		end       float64
		wantStart float64
		wantEnd   float64
	}{
		{"within tolerance", 11.5, 68.5, 10, 70},
		{"outside tolerance", 13, 65, 13, 65},
		{"exact boundary", 40, 70, 40, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := snapToScenes(tt.start, tt.end, scenes)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Fatalf("snap(%v, %v) = (%v, %v), want (%v, %v)",
					tt.start, tt.end, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSnapToScenes_LastMatchWins(t *testing.T) {
	// Two cuts inside the tolerance window: the scan keeps overwriting, so
	// the later scene's boundary is the one that sticks.
	scenes := []types.Scene{
		{Index: 1, Start: 10, End: 11.5, Duration: 1.5},
		{Index: 2, Start: 11.5, End: 40, Duration: 28.5},
	}
	gotStart, _ := snapToScenes(11, 100, scenes)
	if gotStart != 11.5 {
		t.Fatalf("start = %v, want 11.5 (last matching cut)", gotStart)
	}
}
