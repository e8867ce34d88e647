package pipeline

import (
	"context"
	"os"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/pkg/errors"
)

// SourceHandle points at a locally cached source ready for extraction.
type SourceHandle struct {
	VideoID  string
	Path     string
	Portrait bool
	Duration float64
}

// Adapter wraps the two external capabilities the dispatcher depends on:
// resolving a watch URL to a local source, and cutting [start, end) out of
// it. Both honor context cancellation so a hung tool can be timed out.
type Adapter interface {
	Probe(ctx context.Context, url string) (*models.ProbeResult, error)
	Resolve(ctx context.Context, url string) (*SourceHandle, error)
	Extract(ctx context.Context, src *SourceHandle, start, end float64, destFilename string) (string, error)
}

type mediaAdapter struct {
	cfg     *config.Config
	logger  logger.Logger
	encoder encoderProfile
}

func NewMediaAdapter(cfg *config.Config, log logger.Logger) (Adapter, error) {
	if err := os.MkdirAll(cfg.Clips.TmpDir, 0755); err != nil {
		return nil, errors.Wrap(err, "pipeline.NewMediaAdapter.tmpDir")
	}
	if err := os.MkdirAll(cfg.Clips.Dir, 0755); err != nil {
		return nil, errors.Wrap(err, "pipeline.NewMediaAdapter.clipsDir")
	}
	enc := detectEncoder(cfg.Pipeline.FfmpegBin)
	log.Infof("ffmpeg encoder selected: %s", enc.name)
	return &mediaAdapter{
		cfg:     cfg,
		logger:  log,
		encoder: enc,
	}, nil
}
