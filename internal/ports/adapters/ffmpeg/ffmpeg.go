package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/meet1785/shortclips/internal/ports"
)

const (
	targetWidth  = 1080
	targetHeight = 1920
	outputFPS    = 30

	defaultSceneThreshold = 0.4
	defaultHookSeconds    = 3.0
	defaultMusicVolume    = 0.3
	zoomFactor            = 1.15
)

type Adapter struct {
	ffmpeg    string
	ffprobe   string
	threshold float64
}

func New(ffmpegPath, ffprobePath string, sceneThreshold float64) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if sceneThreshold <= 0 {
		sceneThreshold = defaultSceneThreshold
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, threshold: sceneThreshold}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inVideo,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, inVideo string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inVideo,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// RenderClip cuts [start, end] out of the source, reframes it to a 1080x1920
// vertical canvas (center-crop when wider, pad when narrower), and applies
// the optional zoom, hook-text and background-music passes as one encode.
func (a *Adapter) RenderClip(ctx context.Context, inVideo string, start, end float64, outVideo string, opts ports.RenderOptions) error {
	if end <= start {
		return fmt.Errorf("invalid clip range [%v, %v]", start, end)
	}

	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", inVideo,
	}
	withMusic := opts.MusicPath != ""
	if withMusic {
		args = append(args, "-stream_loop", "-1", "-i", opts.MusicPath)
	}

	vf := buildVideoFilter(end-start, opts)
	if withMusic {
		vol := opts.MusicVolume
		if vol <= 0 {
			vol = defaultMusicVolume
		}
		graph := fmt.Sprintf("[0:v]%s[vout];[1:a]volume=%s[bg];[0:a][bg]amix=inputs=2:duration=first:dropout_transition=2[aout]",
			vf, strconv.FormatFloat(vol, 'f', -1, 64))
		args = append(args,
			"-filter_complex", graph,
			"-map", "[vout]",
			"-map", "[aout]",
		)
	} else {
		args = append(args, "-vf", vf)
	}

	args = append(args,
		"-r", strconv.Itoa(outputFPS),
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "20",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outVideo,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render clip: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Thumbnail(ctx context.Context, inVideo string, at float64, outJPEG string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(at),
		"-i", inVideo,
		"-vframes", "1",
		"-q:v", "2",
		outJPEG,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg thumbnail: %w\n%s", err, string(b))
	}
	return nil
}

// buildVideoFilter assembles the vertical reframe chain plus the optional
// zoom and hook-text stages.
func buildVideoFilter(clipDur float64, opts ports.RenderOptions) string {
	stages := []string{
		// Scale to target height, center-crop the overflow, pad the shortfall.
		fmt.Sprintf("scale=-2:%d", targetHeight),
		fmt.Sprintf("crop='min(iw,%d)':%d", targetWidth, targetHeight),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", targetWidth, targetHeight),
	}
	if opts.AddZoom {
		stages = append(stages, buildZoomFilter(clipDur))
	}
	if opts.TextHook != "" {
		hookSec := opts.HookSeconds
		if hookSec <= 0 {
			hookSec = defaultHookSeconds
		}
		stages = append(stages, buildHookFilter(opts.TextHook, hookSec))
	}
	return strings.Join(stages, ",")
}

// buildZoomFilter produces a slow zoom in over the first half of the clip and
// back out over the second half, peaking at zoomFactor.
func buildZoomFilter(clipDur float64) string {
	frames := int(clipDur*outputFPS + 0.5)
	if frames < 2 {
		frames = 2
	}
	half := float64(frames) / 2
	grow := (zoomFactor - 1) / half
	return fmt.Sprintf(
		"zoompan=z='if(lte(on,%d),1+%s*on,%s-%s*(on-%d))':d=1:x='(iw-iw/zoom)/2':y='(ih-ih/zoom)/2':s=%dx%d:fps=%d",
		frames/2,
		fmtCoef(grow),
		fmtCoef(zoomFactor),
		fmtCoef(grow),
		frames/2,
		targetWidth, targetHeight, outputFPS,
	)
}

// buildHookFilter overlays the hook text near the top for the first hookSec
// seconds of the clip.
func buildHookFilter(text string, hookSec float64) string {
	return fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=70:borderw=3:bordercolor=black:x=(w-text_w)/2:y=100:enable='lt(t,%s)'",
		escapeDrawtext(text),
		strconv.FormatFloat(hookSec, 'f', -1, 64),
	)
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func fmtCoef(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// escapeDrawtext escapes the characters drawtext treats specially inside a
// single-quoted filter argument.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}
