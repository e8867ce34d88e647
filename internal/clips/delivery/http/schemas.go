package http

import "github.com/clipforge/clipforge/internal/models"

// Every response carries an explicit ok flag; pollers branch on it
// without inspecting HTTP status codes.

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type probeResponse struct {
	OK bool `json:"ok"`
	*models.ProbeResult
}

type queueResponse struct {
	OK bool `json:"ok"`
	*models.QueuedClip
}

type jobResponse struct {
	OK  bool            `json:"ok"`
	Job *models.ClipJob `json:"job"`
}

type jobListResponse struct {
	OK    bool              `json:"ok"`
	Items []*models.ClipJob `json:"items"`
}

type batchStatusResponse struct {
	OK bool `json:"ok"`
	*models.BatchStatus
}

type resetResponse struct {
	OK bool `json:"ok"`
	*models.ResetResult
}

type fileResponse struct {
	OK   bool   `json:"ok"`
	File string `json:"file"`
	URL  string `json:"url"`
}

type fileListResponse struct {
	OK    bool               `json:"ok"`
	Items []*models.FileItem `json:"items"`
}
