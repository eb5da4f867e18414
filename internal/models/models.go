package models

import "time"

// TODO: split into different files when become too big

// VideoRecord is a persisted clip with its counters.
// Mirrors the on-disk store document, so json tags are fixed.
type VideoRecord struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	CreatedAt    time.Time `json:"createdAt"`
	Views        int64     `json:"views"`
	Completions  int64     `json:"completions"`
	Duration     float64   `json:"duration"`
}

// Blob is an immutable binary payload produced by a pipeline stage.
// It is replaced, never mutated, on every stage transition.
type Blob struct {
	Data []byte
	MIME string
}

// Size returns payload length in bytes.
func (b Blob) Size() int64 {
	return int64(len(b.Data))
}

// Empty reports whether the blob carries no data.
func (b Blob) Empty() bool {
	return len(b.Data) == 0
}

// Chunk is one encoder emission during capture.
type Chunk struct {
	Data []byte
}

const MIMEWebm = "video/webm"

// Analytics events accepted by the server.
const (
	EventView     = "view"
	EventComplete = "complete"
)

// VideoFilter narrows and ranks record search.
type VideoFilter struct {
	Name       string
	MaxRespLen int
}

// AnalyticsRequest is the analytics endpoint body.
// Duration is optional and only meaningful for view events.
type AnalyticsRequest struct {
	VideoID  string   `json:"videoId"`
	Event    string   `json:"event"`
	Duration *float64 `json:"duration,omitempty"`
}
