package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/meet1785/shortclips/internal/ports"
	"github.com/meet1785/shortclips/internal/ports/adapters/ffmpeg"
	"github.com/meet1785/shortclips/internal/ports/adapters/freesound"
	"github.com/meet1785/shortclips/internal/ports/adapters/gemini"
	"github.com/meet1785/shortclips/internal/ports/adapters/whispercpp"
	"github.com/meet1785/shortclips/internal/ports/adapters/ytdlp"
	"github.com/meet1785/shortclips/internal/usecase"
)

type Config struct {
	// Input is a video URL (downloaded via yt-dlp) or a local file path.
	Input  string
	OutDir string

	NumClips   int
	MinClipSec float64
	MaxClipSec float64

	AddZoom    bool
	AddMusic   bool
	MusicQuery string

	SceneThreshold float64

	// CacheDir is the base directory for local artifacts (audio,
	// transcripts, music). If empty, defaults to ".cache".
	CacheDir     string
	DownloadsDir string

	FFmpegPath  string
	FFprobePath string
	YtdlpPath   string

	WhisperBin   string
	WhisperModel string

	GeminiAPIKey string
	GeminiModel  string

	FreesoundAPIKey string

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if !isURL(c.Input) {
		if _, err := os.Stat(c.Input); err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
	}
	if c.NumClips <= 0 {
		return fmt.Errorf("clips must be > 0")
	}
	if c.MinClipSec <= 0 {
		return fmt.Errorf("min clip must be > 0")
	}
	if c.MaxClipSec <= 0 {
		return fmt.Errorf("max clip must be > 0")
	}
	if c.MinClipSec > c.MaxClipSec {
		return fmt.Errorf("min clip must be <= max clip")
	}
	if c.WhisperModel == "" {
		return fmt.Errorf("whisper model path is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("gemini api key is required")
	}
	return nil
}

// Run processes one input end to end and writes the manifest into the run
// directory. It fails when no clip at all could be produced; partial
// per-clip failures are reported through the manifest instead.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log

	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, cfg.SceneThreshold)
	asr := whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)
	llm, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	music := freesound.New(cfg.FreesoundAPIKey, "")

	uc := usecase.New(usecase.Deps{
		Video:  v,
		Scenes: v,
		ASR:    asr,
		LLM:    llm,
		Music:  music,
	})

	jobID := hash(cfg.Input)
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	log.Debug().Str("cache", cacheDir).Msg("workspace ready")

	videoPath, title, err := acquire(ctx, cfg, cacheDir)
	if err != nil {
		return err
	}
	log.Info().Str("title", title).Str("path", videoPath).Msg("source ready")

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "outputs"
	}
	runOutDir := buildRunOutDir(outDir, videoPath, time.Now().UTC())
	if err := os.MkdirAll(filepath.Join(runOutDir, "clips"), 0o755); err != nil {
		return err
	}
	log.Info().Str("dir", runOutDir).Msg("output run dir")

	res, err := uc.Run(ctx, usecase.Input{
		VideoPath:  videoPath,
		Title:      title,
		NumClips:   cfg.NumClips,
		MinClipSec: cfg.MinClipSec,
		MaxClipSec: cfg.MaxClipSec,
		AddZoom:    cfg.AddZoom,
		AddMusic:   cfg.AddMusic,
		MusicQuery: cfg.MusicQuery,
		CacheDir:   cacheDir,
		OutDir:     runOutDir,
		Log:        log,
	})
	if err != nil {
		return err
	}

	if len(res.Manifest.Clips) == 0 {
		if len(res.Manifest.Errors) > 0 {
			return fmt.Errorf("no clips produced: %s", strings.Join(res.Manifest.Errors, "; "))
		}
		return errors.New("no clips produced")
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	log.Info().Int("clips", len(res.Manifest.Clips)).Str("manifest", manifestPath).Msg("manifest written")
	return nil
}

// acquire resolves the configured input to a local file and a display title.
func acquire(ctx context.Context, cfg Config, cacheDir string) (path, title string, err error) {
	if !isURL(cfg.Input) {
		base := filepath.Base(cfg.Input)
		return cfg.Input, strings.TrimSuffix(base, filepath.Ext(base)), nil
	}

	downloadDir := cfg.DownloadsDir
	if downloadDir == "" {
		downloadDir = filepath.Join(cacheDir, "downloads")
	}
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return "", "", err
	}
	dl := ytdlp.New(cfg.YtdlpPath, downloadDir)
	info, err := dl.Download(ctx, cfg.Input)
	if err != nil {
		return "", "", err
	}
	return info.FilePath, info.Title, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func buildRunOutDir(outRoot, inputVideo string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(inputVideo), filepath.Ext(inputVideo))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", inputVideo, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.SceneDetector = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.Analyzer = (*gemini.Adapter)(nil)
var _ ports.MusicSource = (*freesound.Adapter)(nil)
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
