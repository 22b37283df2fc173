package api

import "time"

// UploadRecord is the wire shape of one history entry in the web viewer API.
type UploadRecord struct {
	ID         int64     `json:"id"`
	Target     string    `json:"target"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	ElapsedMs  float64   `json:"elapsed_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
