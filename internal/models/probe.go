package models

type ProbeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type Chapter struct {
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// ProbeResult carries source metadata for the UI. Ephemeral, never stored.
type ProbeResult struct {
	VideoID    string    `json:"id"`
	Title      string    `json:"title"`
	Uploader   string    `json:"uploader"`
	Duration   float64   `json:"duration"`
	Thumbnail  string    `json:"thumbnail"`
	IsVertical bool      `json:"is_vertical"`
	Chapters   []Chapter `json:"chapters"`
}
