package worker

import (
	"context"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/pkg/logger"
)

const cpuBackoff = 5 * time.Second

// Dispatcher drains accepted jobs through the media pipeline with a small
// fixed-size worker pool. Jobs are claimed in FIFO submission order, so
// dispatch follows increasing batch index; completion order is up to the
// external tools.
type Dispatcher struct {
	cfg     *config.Config
	logger  logger.Logger
	jobRepo clips.JobRepository
	media   pipeline.Adapter
	queue   chan string
	wg      sync.WaitGroup
}

func NewDispatcher(cfg *config.Config, log logger.Logger, jobRepo clips.JobRepository, media pipeline.Adapter) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		logger:  log,
		jobRepo: jobRepo,
		media:   media,
		queue:   make(chan string, cfg.Worker.QueueSize),
	}
}

// Enqueue hands an accepted job to the pool. The buffer is deep enough
// that request handlers never stall behind in-flight pipeline work.
func (d *Dispatcher) Enqueue(jobID string) {
	d.queue <- jobID
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Infof("starting %d clip workers", d.cfg.Worker.WorkerCount)
	for i := 0; i < d.cfg.Worker.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Wait blocks until all workers have exited after context cancellation.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case jobID := <-d.queue:
			d.throttle(ctx)
			d.processJob(ctx, jobID)
		}
	}
}

// throttle defers pulling work while system CPU is saturated, so the
// external tools are not piled onto an already busy machine.
func (d *Dispatcher) throttle(ctx context.Context) {
	for {
		ok, usage := checkCPUUsage(d.cfg.Worker.MaxCPUUsage)
		if ok {
			return
		}
		d.logger.Infof("CPU usage %.2f%% too high, delaying next job", usage)
		select {
		case <-ctx.Done():
			return
		case <-time.After(cpuBackoff):
		}
	}
}
