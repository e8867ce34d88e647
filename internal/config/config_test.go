package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAndParseConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	raw := `
server:
  port: :5000
  mode: Development

worker:
  workerCount: 4
  resolveTimeoutSec: 120

clips:
  dir: out
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg, err := ParseConfig(v)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Server.Port != ":5000" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Worker.WorkerCount != 4 {
		t.Fatalf("workerCount = %d", cfg.Worker.WorkerCount)
	}
	if cfg.Clips.Dir != "out" {
		t.Fatalf("clips dir = %q", cfg.Clips.Dir)
	}
	if cfg.Worker.ResolveTimeout() != 120*time.Second {
		t.Fatalf("resolve timeout = %v", cfg.Worker.ResolveTimeout())
	}

	// unset keys fall back to defaults
	if cfg.Worker.QueueSize != 256 {
		t.Fatalf("queueSize default = %d", cfg.Worker.QueueSize)
	}
	if cfg.Worker.ExtractTimeout() != 300*time.Second {
		t.Fatalf("extract timeout default = %v", cfg.Worker.ExtractTimeout())
	}
	if cfg.Pipeline.YtdlpBin != "yt-dlp" || cfg.Pipeline.AudioBitrate != "320k" {
		t.Fatalf("pipeline defaults = %+v", cfg.Pipeline)
	}
	if cfg.Clips.TmpDir != "tmp" {
		t.Fatalf("tmpDir default = %q", cfg.Clips.TmpDir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
