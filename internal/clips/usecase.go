package clips

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
)

type UseCase interface {
	Probe(ctx context.Context, url string) (*models.ProbeResult, error)
	QueueClip(ctx context.Context, input *models.ClipRequest) (*models.QueuedClip, error)
	ClipNow(ctx context.Context, input *models.ClipRequest) (*models.FileItem, error)
	GetJob(ctx context.Context, jobID string) (*models.ClipJob, error)
	ListJobs(ctx context.Context) ([]*models.ClipJob, error)
	BatchStatus(ctx context.Context) (*models.BatchStatus, error)
	ResetBatch(ctx context.Context, folder string) (*models.ResetResult, error)
	ListFiles(ctx context.Context) ([]*models.FileItem, error)
}
