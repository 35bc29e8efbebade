package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/meet1785/shortclips/internal/domain/segments"
	"github.com/meet1785/shortclips/internal/ports"
	"github.com/meet1785/shortclips/internal/types"
)

// Fallbacks keep the batch useful when the generative collaborator fails on
// a single clip; its errors are degraded, not propagated.
const (
	fallbackTitle = "Amazing Video Clip"
	fallbackHook  = "Watch this..."
)

type Deps struct {
	Video  ports.VideoTool
	Scenes ports.SceneDetector
	ASR    ports.ASR
	LLM    ports.Analyzer
	Music  ports.MusicSource
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	VideoPath string
	Title     string

	NumClips   int
	MinClipSec float64
	MaxClipSec float64

	AddZoom    bool
	AddMusic   bool
	MusicQuery string

	CacheDir string
	OutDir   string

	Log zerolog.Logger
}

type Result struct {
	Manifest types.Manifest
}

// Run drives one video through transcription, scene detection, analysis,
// range selection and per-clip rendering. Rendering failures are collected
// per clip; one broken clip never aborts the rest of the batch.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := in.Log

	wav := filepath.Join(in.CacheDir, "audio.wav")
	if err := u.d.Video.ExtractAudioMono16k(ctx, in.VideoPath, wav); err != nil {
		return Result{}, err
	}

	tr, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
	if err != nil {
		return Result{}, err
	}
	log.Info().Int("segments", len(tr.Segments)).Str("language", tr.Language).Msg("transcription complete")

	scenes, err := u.d.Scenes.DetectScenes(ctx, in.VideoPath)
	if err != nil {
		return Result{}, err
	}
	log.Info().Int("scenes", len(scenes)).Msg("scene detection complete")

	// The analysis is advisory output for the operator; a failed call
	// degrades to an empty analysis instead of killing the run.
	analysis, err := u.d.LLM.AnalyzeTranscript(ctx, tr.Text, in.Title)
	if err != nil {
		log.Warn().Err(err).Msg("transcript analysis failed")
		analysis = ""
	}

	cands := segments.Segment(scenes, in.MinClipSec, in.MaxClipSec)
	ranges := segments.Select(scenes, cands, in.NumClips, in.MinClipSec, in.MaxClipSec)
	log.Info().Int("candidates", len(cands)).Int("selected", len(ranges)).Msg("clip ranges selected")

	m := types.Manifest{
		Input:    in.VideoPath,
		Title:    in.Title,
		Analysis: analysis,
	}

	if len(ranges) == 0 {
		return Result{Manifest: m}, nil
	}

	musicPath := ""
	if in.AddMusic && u.d.Music != nil {
		musicPath, err = u.d.Music.FetchBackground(ctx, in.MusicQuery, in.CacheDir)
		if err != nil {
			log.Warn().Err(err).Msg("background music unavailable")
			musicPath = ""
		} else if musicPath != "" {
			log.Info().Str("track", musicPath).Msg("background music ready")
		}
	}

	for i, r := range ranges {
		id := fmt.Sprintf("clip_%d", i+1)
		clip, err := u.renderOne(ctx, in, id, r, tr, scenes, musicPath)
		if err != nil {
			log.Error().Err(err).Str("clip", id).Msg("clip failed")
			m.Errors = append(m.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		m.Clips = append(m.Clips, clip)
		log.Info().Str("clip", id).Float64("start", r.Start).Float64("end", r.End).Msg("clip rendered")
	}

	return Result{Manifest: m}, nil
}

func (u Usecase) renderOne(
	ctx context.Context,
	in Input,
	id string,
	r types.CandidateClip,
	tr types.Transcript,
	scenes []types.Scene,
	musicPath string,
) (types.ClipResult, error) {
	log := in.Log

	clipText := segments.ClipText(tr.Segments, r.Start, r.End)

	hook, err := u.d.LLM.GenerateTextHook(ctx, clipText)
	if err != nil {
		log.Warn().Err(err).Str("clip", id).Msg("hook generation failed, using fallback")
		hook = fallbackHook
	}
	title, err := u.d.LLM.GenerateTitle(ctx, clipText)
	if err != nil {
		log.Warn().Err(err).Str("clip", id).Msg("title generation failed, using fallback")
		title = fallbackTitle
	}

	log.Debug().
		Str("clip", id).
		Int("scenes", len(segments.ScenesInRange(scenes, r.Start, r.End))).
		Msg("rendering")

	clipPath := filepath.Join(in.OutDir, "clips", id+".mp4")
	opts := ports.RenderOptions{
		TextHook:  hook,
		AddZoom:   in.AddZoom,
		MusicPath: musicPath,
	}
	if err := u.d.Video.RenderClip(ctx, in.VideoPath, r.Start, r.End, clipPath, opts); err != nil {
		return types.ClipResult{}, err
	}

	thumbPath := filepath.Join(in.OutDir, "clips", id+"_thumb.jpg")
	if err := u.d.Video.Thumbnail(ctx, clipPath, (r.End-r.Start)/2, thumbPath); err != nil {
		// A missing thumbnail is cosmetic; keep the clip.
		log.Warn().Err(err).Str("clip", id).Msg("thumbnail failed")
		thumbPath = ""
	}

	return types.ClipResult{
		ID:            id,
		VideoPath:     clipPath,
		ThumbnailPath: thumbPath,
		StartSec:      r.Start,
		EndSec:        r.End,
		DurationSec:   r.End - r.Start,
		Title:         title,
		TextHook:      hook,
		Text:          clipText,
	}, nil
}
