package repository

import (
	"sync"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

// legalEdges encodes queued -> downloading -> clipping -> done, with error
// reachable from downloading and clipping. Terminal states have no edges.
var legalEdges = map[models.JobState][]models.JobState{
	models.JobStateQueued:      {models.JobStateDownloading},
	models.JobStateDownloading: {models.JobStateClipping, models.JobStateError},
	models.JobStateClipping:    {models.JobStateDone, models.JobStateError},
}

type jobMemoryRepo struct {
	mu    sync.RWMutex
	jobs  map[string]*models.ClipJob
	order []string
}

func NewJobMemoryRepo() clips.JobRepository {
	return &jobMemoryRepo{
		jobs: make(map[string]*models.ClipJob),
	}
}

func (r *jobMemoryRepo) Create(job *models.ClipJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return errors.Errorf("jobMemoryRepo.Create: duplicate job id %s", job.ID)
	}
	stored := *job
	stored.State = models.JobStateQueued
	stored.OK = nil
	r.jobs[job.ID] = &stored
	r.order = append(r.order, job.ID)
	return nil
}

func (r *jobMemoryRepo) GetByID(jobID string) (*models.ClipJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, models.ErrJobNotFound
	}
	return cloneJob(job), nil
}

// List returns copies in insertion order. Successive calls observe each
// job's state monotonically since records only move forward.
func (r *jobMemoryRepo) List() []*models.ClipJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*models.ClipJob, 0, len(r.order))
	for _, id := range r.order {
		if job, ok := r.jobs[id]; ok {
			items = append(items, cloneJob(job))
		}
	}
	return items
}

// cloneJob deep-copies a record so callers cannot reach stored state
// through the OK pointer.
func cloneJob(job *models.ClipJob) *models.ClipJob {
	cp := *job
	if job.OK != nil {
		ok := *job.OK
		cp.OK = &ok
	}
	return &cp
}

func (r *jobMemoryRepo) Transition(jobID string, state models.JobState) error {
	return r.apply(jobID, state, func(job *models.ClipJob) {
		job.State = state
	})
}

func (r *jobMemoryRepo) Complete(jobID string, resultURL string) error {
	return r.apply(jobID, models.JobStateDone, func(job *models.ClipJob) {
		ok := true
		job.State = models.JobStateDone
		job.OK = &ok
		job.ResultURL = resultURL
	})
}

func (r *jobMemoryRepo) Fail(jobID string, errMsg string) error {
	return r.apply(jobID, models.JobStateError, func(job *models.ClipJob) {
		ok := false
		job.State = models.JobStateError
		job.OK = &ok
		job.Error = errMsg
	})
}

func (r *jobMemoryRepo) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = make(map[string]*models.ClipJob)
	r.order = nil
}

// apply performs a single atomic record mutation after checking the edge
// is legal. The mutation closure runs under the write lock.
func (r *jobMemoryRepo) apply(jobID string, target models.JobState, mutate func(*models.ClipJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return models.ErrJobNotFound
	}
	if !edgeAllowed(job.State, target) {
		return errors.Wrapf(models.ErrIllegalTransition, "%s -> %s (job %s)", job.State, target, jobID)
	}
	mutate(job)
	return nil
}

func edgeAllowed(from, to models.JobState) bool {
	for _, next := range legalEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}
