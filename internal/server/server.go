package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/meet1785/shortclips/internal/config"
	"github.com/meet1785/shortclips/internal/pipeline"
	"github.com/meet1785/shortclips/internal/ports"
)

// jobTimeout bounds a single processing run; downloads plus transcription
// plus rendering can legitimately take hours for long sources.
const jobTimeout = 3 * time.Hour

type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

type Job struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Server struct {
	settings config.Settings
	log      zerolog.Logger

	// run is swappable so handlers can be tested without media tools.
	run  func(ctx context.Context, cfg pipeline.Config) error
	info ports.Downloader

	mu   sync.Mutex
	jobs map[string]*Job
}

func New(settings config.Settings, info ports.Downloader, log zerolog.Logger) *Server {
	return &Server{
		settings: settings,
		log:      log,
		run:      pipeline.Run,
		info:     info,
		jobs:     make(map[string]*Job),
	}
}

// Router builds the echo instance with all routes registered.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)
	e.POST("/process", s.handleProcess)
	e.POST("/process-local", s.handleProcessLocal)
	e.GET("/video-info", s.handleVideoInfo)
	e.GET("/jobs/:id", s.handleJob)
	e.Static("/clips", s.settings.OutputsDir)

	return e
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.settings.Host, s.settings.Port)
	s.log.Info().Str("addr", addr).Msg("http server listening")
	return s.Router().Start(addr)
}

type processRequest struct {
	VideoURL  string `json:"video_url"`
	VideoPath string `json:"video_path"`
	NumClips  int    `json:"num_clips"`
	AddMusic  *bool  `json:"add_music"`
	AddZoom   *bool  `json:"add_zoom"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "shortclips",
		"description": "Convert long videos into short vertical clips",
		"endpoints": map[string]string{
			"POST /process":       "Process a video URL",
			"POST /process-local": "Process a video file on the server",
			"GET /video-info":     "Get video metadata without downloading",
			"GET /jobs/:id":       "Poll a processing job",
			"GET /clips/*":        "Download rendered clips",
			"GET /health":         "Health check",
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":                   "healthy",
		"gemini_api_configured":    s.settings.GeminiAPIKey != "",
		"freesound_api_configured": s.settings.FreesoundAPIKey != "",
	})
}

func (s *Server) handleProcess(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.VideoURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_url is required")
	}
	return s.enqueue(c, req, req.VideoURL)
}

func (s *Server) handleProcessLocal(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.VideoPath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_path is required")
	}
	return s.enqueue(c, req, req.VideoPath)
}

func (s *Server) enqueue(c echo.Context, req processRequest, input string) error {
	if s.settings.GeminiAPIKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "GEMINI_API_KEY not configured")
	}

	cfg := s.pipelineConfig(req, input)
	if err := cfg.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job := &Job{
		ID:        uuid.NewString(),
		Input:     input,
		Status:    JobQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.process(job.ID, cfg)

	return c.JSON(http.StatusAccepted, job)
}

func (s *Server) process(jobID string, cfg pipeline.Config) {
	s.setStatus(jobID, JobRunning, "")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.run(ctx, cfg); err != nil {
		s.log.Error().Err(err).Str("job", jobID).Msg("job failed")
		s.setStatus(jobID, JobFailed, err.Error())
		return
	}
	s.setStatus(jobID, JobDone, "")
}

func (s *Server) setStatus(jobID string, status JobStatus, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
		job.Error = errMsg
	}
}

func (s *Server) handleJob(c echo.Context) error {
	s.mu.Lock()
	job, ok := s.jobs[c.Param("id")]
	var snapshot Job
	if ok {
		snapshot = *job
	}
	s.mu.Unlock()

	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleVideoInfo(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url query parameter is required")
	}
	if s.info == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "downloader not configured")
	}
	info, err := s.info.Info(c.Request().Context(), url)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) pipelineConfig(req processRequest, input string) pipeline.Config {
	set := s.settings

	numClips := req.NumClips
	if numClips <= 0 {
		numClips = set.NumClips
	}
	addMusic := true
	if req.AddMusic != nil {
		addMusic = *req.AddMusic
	}
	addZoom := true
	if req.AddZoom != nil {
		addZoom = *req.AddZoom
	}

	return pipeline.Config{
		Input:           input,
		OutDir:          set.OutputsDir,
		NumClips:        numClips,
		MinClipSec:      set.MinClipDuration,
		MaxClipSec:      set.MaxClipDuration,
		AddZoom:         addZoom,
		AddMusic:        addMusic,
		MusicQuery:      set.MusicQuery,
		SceneThreshold:  set.SceneThreshold,
		CacheDir:        set.CacheDir,
		DownloadsDir:    set.DownloadsDir,
		FFmpegPath:      set.FFmpegPath,
		FFprobePath:     set.FFprobePath,
		YtdlpPath:       set.YtdlpPath,
		WhisperBin:      set.WhisperBin,
		WhisperModel:    set.WhisperModel,
		GeminiAPIKey:    set.GeminiAPIKey,
		GeminiModel:     set.GeminiModel,
		FreesoundAPIKey: set.FreesoundAPIKey,
		Log:             s.log,
	}
}
