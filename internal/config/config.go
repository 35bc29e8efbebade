package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the full process configuration. Values come from defaults,
// then an optional shortclips.toml, then environment variables (highest
// precedence). API keys are env-only so they never end up in a config file
// that gets committed.
type Settings struct {
	// API keys
	GeminiAPIKey    string `toml:"-"`
	FreesoundAPIKey string `toml:"-"`

	// Server
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Clip selection
	MinClipDuration float64 `toml:"min_clip_duration"`
	MaxClipDuration float64 `toml:"max_clip_duration"`
	NumClips        int     `toml:"num_clips"`
	SceneThreshold  float64 `toml:"scene_threshold"`

	// Rendering
	MusicQuery string `toml:"music_query"`

	// Directories
	DownloadsDir string `toml:"downloads_dir"`
	OutputsDir   string `toml:"outputs_dir"`
	CacheDir     string `toml:"cache_dir"`

	// External tools
	FFmpegPath   string `toml:"ffmpeg_path"`
	FFprobePath  string `toml:"ffprobe_path"`
	YtdlpPath    string `toml:"ytdlp_path"`
	WhisperBin   string `toml:"whisper_bin"`
	WhisperModel string `toml:"whisper_model"`
	GeminiModel  string `toml:"gemini_model"`
}

func Defaults() Settings {
	return Settings{
		Host:            "0.0.0.0",
		Port:            8000,
		MinClipDuration: 15,
		MaxClipDuration: 60,
		NumClips:        3,
		SceneThreshold:  0.4,
		MusicQuery:      "upbeat instrumental",
		DownloadsDir:    "downloads",
		OutputsDir:      "outputs",
		CacheDir:        ".cache",
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		YtdlpPath:       "yt-dlp",
		WhisperBin:      ".cache/bin/whisper.cpp",
		WhisperModel:    ".cache/models/ggml-base.bin",
		GeminiModel:     "gemini-2.0-flash",
	}
}

// Load builds Settings from defaults, the given TOML file (ignored when the
// path is empty or missing) and the environment.
func Load(tomlPath string) (Settings, error) {
	s := Defaults()

	if tomlPath != "" {
		b, err := os.ReadFile(tomlPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// optional file
		case err != nil:
			return Settings{}, fmt.Errorf("read config %s: %w", tomlPath, err)
		default:
			if err := toml.Unmarshal(b, &s); err != nil {
				return Settings{}, fmt.Errorf("parse config %s: %w", tomlPath, err)
			}
		}
	}

	applyEnv(&s)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func applyEnv(s *Settings) {
	setStr(&s.GeminiAPIKey, "GEMINI_API_KEY")
	setStr(&s.FreesoundAPIKey, "FREESOUND_API_KEY")
	setStr(&s.Host, "HOST")
	setInt(&s.Port, "PORT")
	setFloat(&s.MinClipDuration, "MIN_CLIP_DURATION")
	setFloat(&s.MaxClipDuration, "MAX_CLIP_DURATION")
	setInt(&s.NumClips, "NUM_CLIPS")
	setFloat(&s.SceneThreshold, "SCENE_THRESHOLD")
	setStr(&s.MusicQuery, "MUSIC_QUERY")
	setStr(&s.DownloadsDir, "DOWNLOADS_DIR")
	setStr(&s.OutputsDir, "OUTPUTS_DIR")
	setStr(&s.CacheDir, "CACHE_DIR")
	setStr(&s.FFmpegPath, "FFMPEG_PATH")
	setStr(&s.FFprobePath, "FFPROBE_PATH")
	setStr(&s.YtdlpPath, "YTDLP_PATH")
	setStr(&s.WhisperBin, "WHISPER_BIN")
	setStr(&s.WhisperModel, "WHISPER_MODEL")
	setStr(&s.GeminiModel, "GEMINI_MODEL")
}

func (s Settings) Validate() error {
	if s.MinClipDuration <= 0 {
		return fmt.Errorf("min clip duration must be > 0")
	}
	if s.MaxClipDuration <= 0 {
		return fmt.Errorf("max clip duration must be > 0")
	}
	if s.MinClipDuration > s.MaxClipDuration {
		return fmt.Errorf("min clip duration must be <= max clip duration")
	}
	if s.NumClips < 0 {
		return fmt.Errorf("num clips must be >= 0")
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	return nil
}

// EnsureDirs creates the working directories the pipeline writes into.
func (s Settings) EnsureDirs() error {
	for _, dir := range []string{s.DownloadsDir, s.OutputsDir, s.CacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
