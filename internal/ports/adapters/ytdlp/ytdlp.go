package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/meet1785/shortclips/internal/types"
)

// downloadFormat prefers an mp4/m4a pair and falls back to the best single
// file, remuxed into mp4 so the rest of the pipeline sees one container.
const downloadFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

type Adapter struct {
	bin         string
	downloadDir string
}

func New(binPath, downloadDir string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath, downloadDir: downloadDir}
}

func (a *Adapter) Download(ctx context.Context, url string) (types.VideoInfo, error) {
	outTmpl := filepath.Join(a.downloadDir, "%(title)s.%(ext)s")
	cmd := exec.CommandContext(ctx, a.bin,
		"-f", downloadFormat,
		"--merge-output-format", "mp4",
		"-o", outTmpl,
		"--no-progress",
		"--print-json",
		url,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return types.VideoInfo{}, fmt.Errorf("yt-dlp download: %w\n%s", err, stderr.String())
	}
	info, err := parseInfoJSON(stdout.Bytes())
	if err != nil {
		return types.VideoInfo{}, fmt.Errorf("yt-dlp metadata: %w", err)
	}
	if info.FilePath == "" {
		return types.VideoInfo{}, fmt.Errorf("yt-dlp reported no output file for %s", url)
	}
	return info, nil
}

func (a *Adapter) Info(ctx context.Context, url string) (types.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, a.bin,
		"--dump-json",
		"--no-warnings",
		url,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return types.VideoInfo{}, fmt.Errorf("yt-dlp info: %w\n%s", err, stderr.String())
	}
	return parseInfoJSON(stdout.Bytes())
}

func parseInfoJSON(b []byte) (types.VideoInfo, error) {
	var raw struct {
		Title              string  `json:"title"`
		Duration           float64 `json:"duration"`
		Description        string  `json:"description"`
		Uploader           string  `json:"uploader"`
		Thumbnail          string  `json:"thumbnail"`
		Filename           string  `json:"_filename"`
		RequestedDownloads []struct {
			Filepath string `json:"filepath"`
		} `json:"requested_downloads"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return types.VideoInfo{}, err
	}

	path := raw.Filename
	if len(raw.RequestedDownloads) > 0 && raw.RequestedDownloads[0].Filepath != "" {
		path = raw.RequestedDownloads[0].Filepath
	}
	title := raw.Title
	if title == "" {
		title = "Unknown"
	}
	return types.VideoInfo{
		FilePath:    path,
		Title:       title,
		Duration:    raw.Duration,
		Uploader:    raw.Uploader,
		Description: raw.Description,
		Thumbnail:   raw.Thumbnail,
	}, nil
}
