package worker

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/pkg/errors"
)

// checkCPUUsage is a seam for tests; production uses gopsutil.
var checkCPUUsage = utils.CheckCPUUsage

// processJob drives one job through resolve and extract, recording every
// stage boundary in the job store. Stage failures terminate the job in
// the error state and never escape the dispatcher.
func (d *Dispatcher) processJob(ctx context.Context, jobID string) {
	job, err := d.jobRepo.GetByID(jobID)
	if err != nil {
		if errors.Is(err, models.ErrJobNotFound) {
			// Cleared by a batch reset before we got to it.
			d.logger.Debugf("job %s vanished before dispatch", jobID)
			return
		}
		d.logger.Errorf("processJob.GetByID: %v", err)
		return
	}

	d.logger.Infof("processing job %s (index %d, %s)", job.ID, job.Index, job.Filename)

	d.transition(jobID, models.JobStateDownloading)
	resolveCtx, cancelResolve := context.WithTimeout(ctx, d.cfg.Worker.ResolveTimeout())
	src, err := d.media.Resolve(resolveCtx, job.URL)
	cancelResolve()
	if err != nil {
		d.failJob(jobID, stageError(resolveCtx, err, "source download timed out"))
		return
	}

	d.transition(jobID, models.JobStateClipping)
	extractCtx, cancelExtract := context.WithTimeout(ctx, d.cfg.Worker.ExtractTimeout())
	_, err = d.media.Extract(extractCtx, src, job.Start, job.End, job.Filename)
	cancelExtract()
	if err != nil {
		d.failJob(jobID, stageError(extractCtx, err, "clip extraction timed out"))
		return
	}

	d.complete(jobID, "/clips/"+job.Filename)
	d.logger.Infof("job %s done -> /clips/%s", job.ID, job.Filename)
}

// transition is best effort: a record cleared mid-flight by a reset is
// tolerated (the job still finishes and writes its file), while an
// illegal edge is a broken invariant and must be loud.
func (d *Dispatcher) transition(jobID string, state models.JobState) {
	if err := d.jobRepo.Transition(jobID, state); err != nil {
		d.reportTransitionErr(jobID, err)
	}
}

func (d *Dispatcher) complete(jobID, resultURL string) {
	if err := d.jobRepo.Complete(jobID, resultURL); err != nil {
		d.reportTransitionErr(jobID, err)
	}
}

func (d *Dispatcher) failJob(jobID, msg string) {
	d.logger.Warnf("job %s failed: %s", jobID, msg)
	if err := d.jobRepo.Fail(jobID, msg); err != nil {
		d.reportTransitionErr(jobID, err)
	}
}

func (d *Dispatcher) reportTransitionErr(jobID string, err error) {
	if errors.Is(err, models.ErrJobNotFound) {
		d.logger.Warnf("job %s cleared by reset while in flight, continuing", jobID)
		return
	}
	if errors.Is(err, models.ErrIllegalTransition) {
		d.logger.DPanicf("job %s: %v", jobID, err)
		return
	}
	d.logger.Errorf("job %s state update: %v", jobID, err)
}

func stageError(ctx context.Context, err error, timeoutMsg string) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeoutMsg
	}
	return err.Error()
}
