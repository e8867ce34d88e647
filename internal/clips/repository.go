package clips

import "github.com/clipforge/clipforge/internal/models"

// JobRepository is the in-memory job store. It enforces the job state
// machine and hands out copies so pollers never observe a half-updated
// record.
type JobRepository interface {
	Create(job *models.ClipJob) error
	GetByID(jobID string) (*models.ClipJob, error)
	List() []*models.ClipJob
	Transition(jobID string, state models.JobState) error
	Complete(jobID string, resultURL string) error
	Fail(jobID string, errMsg string) error
	Clear()
}
