package ports

import (
	"context"

	"github.com/meet1785/shortclips/internal/types"
)

// Downloader acquires a source video from a URL.
type Downloader interface {
	Download(ctx context.Context, url string) (types.VideoInfo, error)
	Info(ctx context.Context, url string) (types.VideoInfo, error)
}

// VideoTool covers the media operations of the pipeline: audio extraction
// for transcription, probing, clip rendering and thumbnail capture.
type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error
	ProbeDuration(ctx context.Context, inVideo string) (float64, error)
	RenderClip(ctx context.Context, inVideo string, start, end float64, outVideo string, opts RenderOptions) error
	Thumbnail(ctx context.Context, inVideo string, at float64, outJPEG string) error
}

// RenderOptions controls the per-clip rendering pass.
type RenderOptions struct {
	// TextHook is burned in over the first HookSeconds of the clip.
	TextHook    string
	HookSeconds float64
	// AddZoom applies a slow in-out zoom over the clip.
	AddZoom bool
	// MusicPath mixes a background track under the original audio.
	MusicPath   string
	MusicVolume float64
}

// SceneDetector finds visual cut points. The returned scenes are ordered,
// non-overlapping and contiguous over [0, duration].
type SceneDetector interface {
	DetectScenes(ctx context.Context, inVideo string) ([]types.Scene, error)
}

// ASR transcribes extracted audio with timestamps.
type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// Analyzer is the generative-text collaborator: pure text in, text out.
type Analyzer interface {
	AnalyzeTranscript(ctx context.Context, transcript, videoTitle string) (string, error)
	GenerateTitle(ctx context.Context, clipText string) (string, error)
	GenerateTextHook(ctx context.Context, clipText string) (string, error)
}

// MusicSource fetches a copyright-free background track. An empty path with
// a nil error means no track is available; music is always optional.
type MusicSource interface {
	FetchBackground(ctx context.Context, query, destDir string) (string, error)
}
