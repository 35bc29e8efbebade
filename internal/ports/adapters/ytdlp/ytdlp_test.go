package ytdlp

import "testing"

func TestParseInfoJSON(t *testing.T) {
	b := []byte(`{
		"title": "Long Talk",
		"duration": 1832.4,
		"uploader": "someone",
		"description": "a talk",
		"thumbnail": "https://example.com/t.jpg",
		"_filename": "downloads/Long Talk.webm",
		"requested_downloads": [{"filepath": "downloads/Long Talk.mp4"}]
	}`)
	info, err := parseInfoJSON(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.FilePath != "downloads/Long Talk.mp4" {
		t.Fatalf("filepath = %q, want merged download path", info.FilePath)
	}
	if info.Title != "Long Talk" || info.Duration != 1832.4 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestParseInfoJSON_Fallbacks(t *testing.T) {
	info, err := parseInfoJSON([]byte(`{"_filename": "downloads/a.mp4"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.FilePath != "downloads/a.mp4" {
		t.Fatalf("filepath = %q", info.FilePath)
	}
	if info.Title != "Unknown" {
		t.Fatalf("title = %q, want Unknown", info.Title)
	}
}

func TestParseInfoJSON_Invalid(t *testing.T) {
	if _, err := parseInfoJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}
