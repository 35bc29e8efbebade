package types

// Scene is one visually continuous shot, as reported by cut detection.
// Scenes for a video are ordered by Start, non-overlapping and contiguous.
type Scene struct {
	Index    int     `json:"scene_number"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Transcript is the full speech-to-text result for a video.
type Transcript struct {
	Text     string              `json:"text"`
	Language string              `json:"language,omitempty"`
	Segments []TranscriptSegment `json:"segments"`
}

// TranscriptSegment is a timestamped span of recognized speech.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// CandidateClip is a proposed [Start, End] time range being evaluated as a
// final output clip. Duration is always End - Start.
type CandidateClip struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// VideoInfo describes an acquired source video.
type VideoInfo struct {
	FilePath    string  `json:"file_path,omitempty"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader,omitempty"`
	Description string  `json:"description,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}

// ClipResult describes one rendered clip.
type ClipResult struct {
	ID            string  `json:"id"`
	VideoPath     string  `json:"video_path"`
	ThumbnailPath string  `json:"thumbnail_path,omitempty"`
	StartSec      float64 `json:"start_sec"`
	EndSec        float64 `json:"end_sec"`
	DurationSec   float64 `json:"duration_sec"`
	Title         string  `json:"title"`
	TextHook      string  `json:"text_hook"`
	Text          string  `json:"text,omitempty"`
}

// Manifest is the run summary written next to the rendered clips.
// Errors collects per-clip rendering failures; one failed clip does not
// abort the rest of the batch.
type Manifest struct {
	Input    string       `json:"input"`
	Title    string       `json:"title,omitempty"`
	Analysis string       `json:"analysis,omitempty"`
	Clips    []ClipResult `json:"clips"`
	Errors   []string     `json:"errors,omitempty"`
}
