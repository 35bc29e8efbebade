package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meet1785/shortclips/internal/config"
	"github.com/meet1785/shortclips/internal/logging"
	"github.com/meet1785/shortclips/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	settings, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	if settings.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is required (set it in .env)")
	}

	// Explicit flags win over config; unset flags keep the config values.
	if cmd.Flags().Changed("out") {
		settings.OutputsDir, _ = cmd.Flags().GetString("out")
	}
	if cmd.Flags().Changed("clips") {
		settings.NumClips, _ = cmd.Flags().GetInt("clips")
	}
	if cmd.Flags().Changed("min") {
		settings.MinClipDuration, _ = cmd.Flags().GetFloat64("min")
	}
	if cmd.Flags().Changed("max") {
		settings.MaxClipDuration, _ = cmd.Flags().GetFloat64("max")
	}
	addMusic, _ := cmd.Flags().GetBool("music")
	addZoom, _ := cmd.Flags().GetBool("zoom")

	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		input = abs
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Input:           input,
		OutDir:          settings.OutputsDir,
		NumClips:        settings.NumClips,
		MinClipSec:      settings.MinClipDuration,
		MaxClipSec:      settings.MaxClipDuration,
		AddZoom:         addZoom,
		AddMusic:        addMusic,
		MusicQuery:      settings.MusicQuery,
		SceneThreshold:  settings.SceneThreshold,
		CacheDir:        settings.CacheDir,
		DownloadsDir:    settings.DownloadsDir,
		FFmpegPath:      settings.FFmpegPath,
		FFprobePath:     settings.FFprobePath,
		YtdlpPath:       settings.YtdlpPath,
		WhisperBin:      settings.WhisperBin,
		WhisperModel:    settings.WhisperModel,
		GeminiAPIKey:    settings.GeminiAPIKey,
		GeminiModel:     settings.GeminiModel,
		FreesoundAPIKey: settings.FreesoundAPIKey,
		Log:             log,
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func bootstrap(cmd *cobra.Command) (config.Settings, zerolog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := config.Load(configPath)
	if err != nil {
		return config.Settings{}, zerolog.Logger{}, err
	}
	if err := settings.EnsureDirs(); err != nil {
		return config.Settings{}, zerolog.Logger{}, err
	}
	return settings, logging.New(verbose), nil
}
