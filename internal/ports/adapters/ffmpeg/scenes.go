package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/meet1785/shortclips/internal/types"
)

// DetectScenes runs the ffmpeg scene filter over the video and converts the
// reported cut timestamps into contiguous scene spans covering the full
// timeline [0, duration].
func (a *Adapter) DetectScenes(ctx context.Context, inVideo string) ([]types.Scene, error) {
	total, err := a.ProbeDuration(ctx, inVideo)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, fmt.Errorf("video %s has no duration", inVideo)
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", inVideo,
		"-vf", fmt.Sprintf("select='gt(scene,%s)',showinfo", strconv.FormatFloat(a.threshold, 'f', -1, 64)),
		"-f", "null",
		"-",
	)
	// The scene filter reports frames on stderr; the null muxer discards the
	// actual output.
	b, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg scene detection: %w\n%s", err, tail(string(b), 2000))
	}

	cuts := parseShowinfoTimes(string(b))
	return scenesFromCuts(cuts, total), nil
}

// parseShowinfoTimes extracts pts_time values from showinfo stderr lines.
func parseShowinfoTimes(output string) []float64 {
	var out []float64
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, "pts_time:")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("pts_time:"):])
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		if sec, err := strconv.ParseFloat(fields[0], 64); err == nil {
			out = append(out, sec)
		}
	}
	return out
}

// scenesFromCuts turns cut timestamps into ordered contiguous scenes. Cuts
// outside (0, total) or out of order are dropped.
func scenesFromCuts(cuts []float64, total float64) []types.Scene {
	boundaries := []float64{0}
	for _, c := range cuts {
		if c <= boundaries[len(boundaries)-1] || c >= total {
			continue
		}
		boundaries = append(boundaries, c)
	}
	boundaries = append(boundaries, total)

	scenes := make([]types.Scene, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i], boundaries[i+1]
		scenes = append(scenes, types.Scene{
			Index:    i + 1,
			Start:    start,
			End:      end,
			Duration: end - start,
		})
	}
	return scenes
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
