package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/meet1785/shortclips/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}

	var raw struct {
		Segments []types.TranscriptSegment `json:"segments"`
		Result   struct {
			Language string `json:"language"`
		} `json:"result"`
	}
	if err := json.Unmarshal(jb, &raw); err != nil {
		return types.Transcript{}, err
	}

	tr := types.Transcript{Language: raw.Result.Language}
	var full []string
	for _, s := range raw.Segments {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		tr.Segments = append(tr.Segments, s)
		full = append(full, s.Text)
	}
	tr.Text = strings.Join(full, " ")
	return tr, nil
}
