package usecase

import (
	"context"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/clipforge/clipforge/internal/batch"
	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type clipsUC struct {
	cfg       *config.Config
	jobRepo   clips.JobRepository
	sequencer *batch.Sequencer
	media     pipeline.Adapter
	jobQueue  clips.JobQueue
	logger    logger.Logger
}

func NewClipsUseCase(
	cfg *config.Config,
	jobRepo clips.JobRepository,
	sequencer *batch.Sequencer,
	media pipeline.Adapter,
	jobQueue clips.JobQueue,
	log logger.Logger,
) clips.UseCase {
	return &clipsUC{
		cfg:       cfg,
		jobRepo:   jobRepo,
		sequencer: sequencer,
		media:     media,
		jobQueue:  jobQueue,
		logger:    log,
	}
}

func (u *clipsUC) Probe(ctx context.Context, rawURL string) (*models.ProbeResult, error) {
	if err := validateSourceURL(ctx, rawURL); err != nil {
		return nil, err
	}
	return u.media.Probe(ctx, rawURL)
}

// QueueClip validates the request, reserves the next batch index and
// creates the job record. The counter is only touched once the request
// is known to be acceptable.
func (u *clipsUC) QueueClip(ctx context.Context, input *models.ClipRequest) (*models.QueuedClip, error) {
	if err := validateClipRequest(ctx, input); err != nil {
		return nil, err
	}

	index, filename := u.sequencer.NextFilename(input.Start, input.End)
	job := &models.ClipJob{
		ID:       uuid.New().String(),
		Index:    index,
		Filename: filename,
		State:    models.JobStateQueued,
		URL:      input.URL,
		Start:    input.Start,
		End:      input.End,
		QueuedAt: time.Now(),
	}
	if err := u.jobRepo.Create(job); err != nil {
		u.logger.Errorf("QueueClip.Create: %v", err)
		return nil, err
	}
	u.jobQueue.Enqueue(job.ID)
	u.logger.Infof("queued job %s index=%d filename=%q", job.ID, index, filename)
	return &models.QueuedClip{JobID: job.ID, Index: index, Filename: filename}, nil
}

// ClipNow runs resolve and extract inline, bypassing the job store. Kept
// for scripted one-shot use alongside the async queue.
func (u *clipsUC) ClipNow(ctx context.Context, input *models.ClipRequest) (*models.FileItem, error) {
	if err := validateClipRequest(ctx, input); err != nil {
		return nil, err
	}
	src, err := u.media.Resolve(ctx, input.URL)
	if err != nil {
		return nil, err
	}
	_, filename := u.sequencer.NextFilename(input.Start, input.End)
	outPath, err := u.media.Extract(ctx, src, input.Start, input.End, filename)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(outPath)
	if err != nil {
		return nil, errors.Wrap(err, "ClipNow.Stat")
	}
	return &models.FileItem{File: filename, URL: "/clips/" + filename, Bytes: info.Size()}, nil
}

func (u *clipsUC) GetJob(ctx context.Context, jobID string) (*models.ClipJob, error) {
	return u.jobRepo.GetByID(jobID)
}

func (u *clipsUC) ListJobs(ctx context.Context) ([]*models.ClipJob, error) {
	return u.jobRepo.List(), nil
}

func (u *clipsUC) BatchStatus(ctx context.Context) (*models.BatchStatus, error) {
	return &models.BatchStatus{
		Counter:   u.sequencer.Counter(),
		LastReset: u.sequencer.LastReset(),
	}, nil
}

// ResetBatch archives (optionally), returns the counter to 1 and clears
// the job history. In-flight jobs keep running; their records are gone
// from listings from this point on.
func (u *clipsUC) ResetBatch(ctx context.Context, folder string) (*models.ResetResult, error) {
	counter, archived, tmpDeleted, err := u.sequencer.Reset(folder)
	if err != nil {
		u.logger.Errorf("ResetBatch: %v", err)
		return nil, err
	}
	u.jobRepo.Clear()
	u.logger.Infof("batch reset: counter=%d archived=%d folder=%q", counter, len(archived), folder)
	return &models.ResetResult{
		Counter:    counter,
		Archived:   archived,
		Folder:     folder,
		TmpDeleted: tmpDeleted,
	}, nil
}

// ListFiles lists the current batch's output files, newest first. Files
// predating the last reset stay on disk but are not part of the batch.
func (u *clipsUC) ListFiles(ctx context.Context) ([]*models.FileItem, error) {
	entries, err := os.ReadDir(u.cfg.Clips.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "ListFiles.ReadDir")
	}
	lastReset := u.sequencer.LastReset()

	type fileWithTime struct {
		item  *models.FileItem
		mtime time.Time
	}
	files := make([]fileWithTime, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(lastReset) {
			continue
		}
		files = append(files, fileWithTime{
			item: &models.FileItem{
				File:  entry.Name(),
				URL:   "/clips/" + entry.Name(),
				Bytes: info.Size(),
			},
			mtime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].mtime.After(files[j].mtime)
	})
	items := make([]*models.FileItem, len(files))
	for i, f := range files {
		items[i] = f.item
	}
	return items, nil
}

func validateClipRequest(ctx context.Context, input *models.ClipRequest) error {
	if err := validateSourceURL(ctx, input.URL); err != nil {
		return err
	}
	if input.End <= input.Start {
		return &models.ValidationError{Reason: "end must be greater than start"}
	}
	return nil
}

func validateSourceURL(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		return &models.ValidationError{Reason: "missing url"}
	}
	if err := utils.ValidateStruct(ctx, &models.ProbeRequest{URL: rawURL}); err != nil {
		return &models.ValidationError{Reason: "invalid url"}
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return &models.ValidationError{Reason: "invalid url"}
	}
	return nil
}
