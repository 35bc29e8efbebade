package freesound

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultBaseURL = "https://freesound.org/apiv2"
	requestTimeout = 30 * time.Second

	searchMinDur = 30
	searchMaxDur = 180
	searchLimit  = 5
)

type Adapter struct {
	key     string
	baseURL string
	client  *http.Client
}

func New(apiKey, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		key:     apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type track struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Previews struct {
		HQMP3 string `json:"preview-hq-mp3"`
	} `json:"previews"`
}

// FetchBackground searches for a copyright-free track matching the query and
// downloads the first preview that works into destDir. Without an API key it
// reports no track rather than failing: background music is optional.
func (a *Adapter) FetchBackground(ctx context.Context, query, destDir string) (string, error) {
	if a.key == "" {
		return "", nil
	}

	tracks, err := a.search(ctx, query)
	if err != nil {
		return "", err
	}

	for _, t := range tracks {
		if t.Previews.HQMP3 == "" {
			continue
		}
		out := filepath.Join(destDir, fmt.Sprintf("music_%d.mp3", t.ID))
		if err := a.download(ctx, t.Previews.HQMP3, out); err != nil {
			continue
		}
		return out, nil
	}
	return "", nil
}

func (a *Adapter) search(ctx context.Context, query string) ([]track, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("token", a.key)
	params.Set("filter", fmt.Sprintf("duration:[%d TO %d]", searchMinDur, searchMaxDur))
	params.Set("fields", "id,name,duration,previews")
	params.Set("page_size", fmt.Sprint(searchLimit))

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "GET", a.baseURL+"/search/text/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("freesound search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("freesound search status %d", resp.StatusCode)
	}

	var raw struct {
		Results []track `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("freesound decode: %w", err)
	}
	return raw.Results, nil
}

func (a *Adapter) download(ctx context.Context, previewURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", previewURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("freesound download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("freesound download status %d", resp.StatusCode)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	return f.Close()
}
