package freesound

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestFetchBackground(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/apiv2/search/text/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp := map[string]any{
			"results": []map[string]any{
				{"id": 7, "name": "upbeat", "duration": 60.0,
					"previews": map[string]string{"preview-hq-mp3": srv.URL + "/preview/7.mp3"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/preview/7.mp3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "mp3-bytes")
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	a := New("k", srv.URL+"/apiv2")
	dir := t.TempDir()
	path, err := a.FetchBackground(context.Background(), "upbeat instrumental", dir)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path == "" {
		t.Fatalf("expected a downloaded track")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read track: %v", err)
	}
	if string(b) != "mp3-bytes" {
		t.Fatalf("unexpected track contents: %q", b)
	}
}

func TestFetchBackground_NoKey(t *testing.T) {
	a := New("", "")
	path, err := a.FetchBackground(context.Background(), "anything", t.TempDir())
	if err != nil {
		t.Fatalf("expected nil error without key, got %v", err)
	}
	if path != "" {
		t.Fatalf("expected empty path without key, got %q", path)
	}
}

func TestFetchBackground_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := New("k", srv.URL)
	if _, err := a.FetchBackground(context.Background(), "q", t.TempDir()); err == nil {
		t.Fatalf("expected error on search failure")
	}
}
