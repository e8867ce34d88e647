package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	clipsRepository "github.com/clipforge/clipforge/internal/clips/repository"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/pkg/logger"
)

type fakeAdapter struct {
	resolve func(ctx context.Context, url string) (*pipeline.SourceHandle, error)
	extract func(ctx context.Context, src *pipeline.SourceHandle, start, end float64, dest string) (string, error)
}

func (f *fakeAdapter) Probe(ctx context.Context, url string) (*models.ProbeResult, error) {
	return &models.ProbeResult{}, nil
}

func (f *fakeAdapter) Resolve(ctx context.Context, url string) (*pipeline.SourceHandle, error) {
	if f.resolve != nil {
		return f.resolve(ctx, url)
	}
	return &pipeline.SourceHandle{VideoID: "abc", Path: "/tmp/abc.mp4"}, nil
}

func (f *fakeAdapter) Extract(ctx context.Context, src *pipeline.SourceHandle, start, end float64, dest string) (string, error) {
	if f.extract != nil {
		return f.extract(ctx, src, start, end, dest)
	}
	return "/clips/" + dest, nil
}

func testConfig(workers int) *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{
			WorkerCount:       workers,
			QueueSize:         64,
			MaxCPUUsage:       90,
			ResolveTimeoutSec: 1,
			ExtractTimeoutSec: 1,
		},
	}
}

func seedJob(t *testing.T, repo clips.JobRepository, id string, index int) {
	t.Helper()
	err := repo.Create(&models.ClipJob{
		ID:       id,
		Index:    index,
		Filename: fmt.Sprintf("(%d) 0010-0025.mp4", index),
		State:    models.JobStateQueued,
		URL:      "https://www.youtube.com/watch?v=abc",
		Start:    10,
		End:      25,
		QueuedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
}

func disableCPUCheck(t *testing.T) {
	t.Helper()
	orig := checkCPUUsage
	checkCPUUsage = func(max float64) (bool, float64) { return true, 0 }
	t.Cleanup(func() { checkCPUUsage = orig })
}

func waitForState(t *testing.T, repo clips.JobRepository, id string, state models.JobState) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := repo.GetByID(id)
		if err == nil && job.State == state {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := repo.GetByID(id)
	t.Fatalf("job %s never reached %s (last: %+v)", id, state, job)
}

func TestProcessJobSuccess(t *testing.T) {
	repo := clipsRepository.NewJobMemoryRepo()
	seedJob(t, repo, "a", 1)

	d := NewDispatcher(testConfig(1), logger.NewNopLogger(), repo, &fakeAdapter{})
	d.processJob(context.Background(), "a")

	job, err := repo.GetByID("a")
	if err != nil {
		t.Fatal(err)
	}
	if job.State != models.JobStateDone {
		t.Fatalf("state = %s, want done", job.State)
	}
	if job.ResultURL != "/clips/(1) 0010-0025.mp4" {
		t.Fatalf("result url = %q", job.ResultURL)
	}
}

func TestProcessJobResolveFailure(t *testing.T) {
	repo := clipsRepository.NewJobMemoryRepo()
	seedJob(t, repo, "a", 1)

	adapter := &fakeAdapter{
		resolve: func(ctx context.Context, url string) (*pipeline.SourceHandle, error) {
			return nil, &models.ResolveError{Reason: "yt-dlp failed: video unavailable"}
		},
	}
	d := NewDispatcher(testConfig(1), logger.NewNopLogger(), repo, adapter)
	d.processJob(context.Background(), "a")

	job, _ := repo.GetByID("a")
	if job.State != models.JobStateError {
		t.Fatalf("state = %s, want error", job.State)
	}
	if job.Error != "yt-dlp failed: video unavailable" {
		t.Fatalf("error = %q", job.Error)
	}
}

func TestProcessJobExtractFailure(t *testing.T) {
	repo := clipsRepository.NewJobMemoryRepo()
	seedJob(t, repo, "a", 1)

	adapter := &fakeAdapter{
		extract: func(ctx context.Context, src *pipeline.SourceHandle, start, end float64, dest string) (string, error) {
			return "", &models.ExtractError{Reason: "ffmpeg failed: invalid range"}
		},
	}
	d := NewDispatcher(testConfig(1), logger.NewNopLogger(), repo, adapter)
	d.processJob(context.Background(), "a")

	job, _ := repo.GetByID("a")
	if job.State != models.JobStateError {
		t.Fatalf("state = %s, want error", job.State)
	}
	if job.Error != "ffmpeg failed: invalid range" {
		t.Fatalf("error = %q", job.Error)
	}
}

func TestProcessJobResolveTimeout(t *testing.T) {
	repo := clipsRepository.NewJobMemoryRepo()
	seedJob(t, repo, "a", 1)

	adapter := &fakeAdapter{
		resolve: func(ctx context.Context, url string) (*pipeline.SourceHandle, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	d := NewDispatcher(testConfig(1), logger.NewNopLogger(), repo, adapter)
	d.processJob(context.Background(), "a")

	job, _ := repo.GetByID("a")
	if job.State != models.JobStateError {
		t.Fatalf("state = %s, want error", job.State)
	}
	if job.Error != "source download timed out" {
		t.Fatalf("error = %q", job.Error)
	}
}

func TestProcessJobExtractTimeout(t *testing.T) {
	repo := clipsRepository.NewJobMemoryRepo()
	seedJob(t, repo, "a", 1)

	adapter := &fakeAdapter{
		extract: func(ctx context.Context, src *pipeline.SourceHandle, start, end float64, dest string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	d := NewDispatcher(testConfig(1), logger.NewNopLogger(), repo, adapter)
	d.processJob(context.Background(), "a")

	job, _ := repo.GetByID("a")
	if job.State != models.JobStateError {
		t.Fatalf("state = %s, want error", job.State)
	}
	if job.Error != "clip extraction timed out" {
		t.Fatalf("error = %q", job.Error)
	}
}

func TestProcessJobClearedByReset(t *testing.T) {
	repo := clipsRepository.NewJobMemoryRepo()
	seedJob(t, repo, "a", 1)

	extracted := false
	adapter := &fakeAdapter{
		resolve: func(ctx context.Context, url string) (*pipeline.SourceHandle, error) {
			// reset clears history while the job is mid-download
			repo.Clear()
			return &pipeline.SourceHandle{VideoID: "abc", Path: "/tmp/abc.mp4"}, nil
		},
		extract: func(ctx context.Context, src *pipeline.SourceHandle, start, end float64, dest string) (string, error) {
			extracted = true
			return "/clips/" + dest, nil
		},
	}
	d := NewDispatcher(testConfig(1), logger.NewNopLogger(), repo, adapter)
	d.processJob(context.Background(), "a")

	// the in-flight job still finishes its pipeline work
	if !extracted {
		t.Fatal("cleared job did not finish extraction")
	}
	if items := repo.List(); len(items) != 0 {
		t.Fatalf("cleared job resurfaced in listing: %+v", items)
	}
}

func TestDispatcherBoundedConcurrency(t *testing.T) {
	disableCPUCheck(t)
	repo := clipsRepository.NewJobMemoryRepo()
	seedJob(t, repo, "a", 1)
	seedJob(t, repo, "b", 2)

	release := make(chan struct{})
	adapter := &fakeAdapter{
		resolve: func(ctx context.Context, url string) (*pipeline.SourceHandle, error) {
			select {
			case <-release:
				return &pipeline.SourceHandle{VideoID: "abc", Path: "/tmp/abc.mp4"}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}

	cfg := testConfig(1)
	cfg.Worker.ResolveTimeoutSec = 10
	d := NewDispatcher(cfg, logger.NewNopLogger(), repo, adapter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("a")
	d.Enqueue("b")

	waitForState(t, repo, "a", models.JobStateDownloading)
	// with a single worker the second job must still be queued
	job, err := repo.GetByID("b")
	if err != nil {
		t.Fatal(err)
	}
	if job.State != models.JobStateQueued {
		t.Fatalf("second job state = %s, want queued while pool is busy", job.State)
	}

	close(release)
	waitForState(t, repo, "a", models.JobStateDone)
	waitForState(t, repo, "b", models.JobStateDone)

	cancel()
	d.Wait()
}

func TestDispatcherFIFOByIndex(t *testing.T) {
	disableCPUCheck(t)
	repo := clipsRepository.NewJobMemoryRepo()

	var order []int
	adapter := &fakeAdapter{
		extract: func(ctx context.Context, src *pipeline.SourceHandle, start, end float64, dest string) (string, error) {
			var idx int
			fmt.Sscanf(dest, "(%d)", &idx)
			order = append(order, idx)
			return "/clips/" + dest, nil
		},
	}

	cfg := testConfig(1)
	d := NewDispatcher(cfg, logger.NewNopLogger(), repo, adapter)
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("job-%d", i)
		seedJob(t, repo, id, i)
		d.Enqueue(id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 1; i <= 3; i++ {
		waitForState(t, repo, fmt.Sprintf("job-%d", i), models.JobStateDone)
	}
	cancel()
	d.Wait()

	for i, idx := range order {
		if idx != i+1 {
			t.Fatalf("dispatch order = %v, want increasing index", order)
		}
	}
}
