package models

import "time"

type JobState string

const (
	JobStateQueued      JobState = "queued"
	JobStateDownloading JobState = "downloading"
	JobStateClipping    JobState = "clipping"
	JobStateDone        JobState = "done"
	JobStateError       JobState = "error"
)

// IsTerminal reports whether no further transitions may occur.
func (s JobState) IsTerminal() bool {
	return s == JobStateDone || s == JobStateError
}

// ClipJob is the lifecycle record of a single clip-extraction request.
// OK is null while the job is in flight and settles with the terminal
// state, so pollers can branch on it without parsing state strings.
type ClipJob struct {
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	Filename  string    `json:"filename"`
	State     JobState  `json:"state"`
	URL       string    `json:"url"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	QueuedAt  time.Time `json:"queued_at"`
	OK        *bool     `json:"ok"`
	Error     string    `json:"error,omitempty"`
	ResultURL string    `json:"result_url,omitempty"`
}

type ClipRequest struct {
	URL   string  `json:"url" validate:"required,url"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type QueuedClip struct {
	JobID    string `json:"job_id"`
	Index    int    `json:"index"`
	Filename string `json:"filename"`
}

type BatchStatus struct {
	Counter   int       `json:"counter"`
	LastReset time.Time `json:"last_reset"`
}

type ResetRequest struct {
	Folder string `json:"folder"`
}

type ResetResult struct {
	Counter    int      `json:"counter"`
	Archived   []string `json:"archived"`
	Folder     string   `json:"folder,omitempty"`
	TmpDeleted int      `json:"tmp_deleted"`
}

type FileItem struct {
	File  string `json:"file"`
	URL   string `json:"url"`
	Bytes int64  `json:"bytes"`
}
