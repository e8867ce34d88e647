package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/models"
)

// ytdlpInfo is the subset of `yt-dlp -J` output the adapter cares about.
type ytdlpInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration"`
	Thumbnails []struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"thumbnails"`
	Formats []struct {
		Vcodec string `json:"vcodec"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"formats"`
	Chapters []models.Chapter `json:"chapters"`
}

func (a *mediaAdapter) Probe(ctx context.Context, url string) (*models.ProbeResult, error) {
	info, err := a.fetchInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	uploader := info.Uploader
	if uploader == "" {
		uploader = info.Channel
	}
	chapters := info.Chapters
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	return &models.ProbeResult{
		VideoID:    info.ID,
		Title:      info.Title,
		Uploader:   uploader,
		Duration:   info.Duration,
		Thumbnail:  info.bestThumbnail(),
		IsVertical: info.isVertical(),
		Chapters:   chapters,
	}, nil
}

// Resolve probes the URL for its canonical video id, then downloads the
// best quality source into the tmp cache as <id>.mp4. A cached source is
// reused without touching the network again.
func (a *mediaAdapter) Resolve(ctx context.Context, url string) (*SourceHandle, error) {
	info, err := a.fetchInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	portrait := info.isVertical()

	cached := filepath.Join(a.cfg.Clips.TmpDir, info.ID+".mp4")
	if _, err := os.Stat(cached); err == nil {
		a.logger.Infof("source cache hit for %s", info.ID)
		return &SourceHandle{VideoID: info.ID, Path: cached, Portrait: portrait, Duration: info.Duration}, nil
	}

	maxHeight := 1080
	if portrait {
		maxHeight = 1920
	}
	args := []string{
		"--no-playlist",
		"--newline",
		"-N", "5",
		"-f", downloadFormat(maxHeight),
		"--merge-output-format", "mp4",
		"-o", filepath.Join(a.cfg.Clips.TmpDir, info.ID+".%(ext)s"),
		url,
	}
	cmd := exec.CommandContext(ctx, a.cfg.Pipeline.YtdlpBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &models.ResolveError{Reason: ytdlpFailure(err, stderr.String())}
	}

	if _, err := os.Stat(cached); err != nil {
		// Merge may have produced a different container; normalize to <id>.mp4.
		if produced := a.findProduced(info.ID); produced != "" {
			if err := os.Rename(produced, cached); err != nil {
				return nil, &models.ResolveError{Reason: fmt.Sprintf("failed to cache source: %v", err)}
			}
		} else {
			return nil, &models.ResolveError{Reason: "download finished but no source file was produced"}
		}
	}
	return &SourceHandle{VideoID: info.ID, Path: cached, Portrait: portrait, Duration: info.Duration}, nil
}

func (a *mediaAdapter) fetchInfo(ctx context.Context, url string) (*ytdlpInfo, error) {
	cmd := exec.CommandContext(ctx, a.cfg.Pipeline.YtdlpBin, "-J", "--no-playlist", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &models.ResolveError{Reason: ytdlpFailure(err, stderr.String())}
	}
	info := &ytdlpInfo{}
	if err := json.Unmarshal(stdout.Bytes(), info); err != nil {
		return nil, &models.ResolveError{Reason: fmt.Sprintf("unparseable yt-dlp metadata: %v", err)}
	}
	if info.ID == "" {
		return nil, &models.ResolveError{Reason: "source has no recognizable video id"}
	}
	return info, nil
}

func (a *mediaAdapter) findProduced(videoID string) string {
	matches, err := filepath.Glob(filepath.Join(a.cfg.Clips.TmpDir, videoID+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// downloadFormat prefers MP4-friendly DASH streams capped at maxHeight,
// with progressively looser fallbacks, as the desktop tool did.
func downloadFormat(maxHeight int) string {
	return fmt.Sprintf(
		"bestvideo[ext=mp4][vcodec*=avc1][height<=%d][fps<=60]+bestaudio[ext=m4a]/"+
			"bestvideo[ext=mp4][height<=%d][fps<=60]+bestaudio/"+
			"best[height<=%d]/"+
			"(bv*+ba/b)",
		maxHeight, maxHeight, maxHeight,
	)
}

func ytdlpFailure(err error, stderr string) string {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return fmt.Sprintf("yt-dlp failed: %v", err)
	}
	if len(msg) > 4000 {
		msg = msg[:4000]
	}
	return fmt.Sprintf("yt-dlp failed: %s", msg)
}

func (i *ytdlpInfo) bestThumbnail() string {
	best := ""
	bestArea := -1
	for _, t := range i.Thumbnails {
		area := t.Width * t.Height
		if area > bestArea {
			bestArea = area
			best = t.URL
		}
	}
	return best
}

// isVertical infers orientation from the highest-area video format.
func (i *ytdlpInfo) isVertical() bool {
	bestArea := 0
	w, h := 0, 0
	for _, f := range i.Formats {
		if f.Vcodec == "" || f.Vcodec == "none" {
			continue
		}
		area := f.Width * f.Height
		if area > bestArea {
			bestArea = area
			w, h = f.Width, f.Height
		}
	}
	return h > w && h > 0 && w > 0
}
