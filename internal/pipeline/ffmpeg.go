package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/models"
)

type encoderProfile struct {
	name    string
	inArgs  []string
	outArgs []string
}

// Extract cuts [start, end) out of the resolved source and writes it into
// the clips directory under destFilename. The output is H.264+AAC with
// orientation-aware caps (1920x1080 landscape, 1080x1920 portrait), never
// upscaled.
func (a *mediaAdapter) Extract(ctx context.Context, src *SourceHandle, start, end float64, destFilename string) (string, error) {
	duration := end - start
	if duration <= 0 {
		return "", &models.ExtractError{Reason: "end must be greater than start"}
	}

	portrait := src.Portrait
	if w, h, err := a.probeDimensions(ctx, src.Path); err == nil {
		portrait = h > w && h > 0 && w > 0
	}
	scaleFilter := scaleFilter(portrait)

	outPath := filepath.Join(a.cfg.Clips.Dir, destFilename)
	args := []string{"-hide_banner", "-y"}
	args = append(args, a.encoder.inArgs...)
	args = append(args,
		"-ss", formatSeconds(start),
		"-i", src.Path,
		"-t", formatSeconds(duration),
		"-vf", scaleFilter,
		"-c:v", a.encoder.name,
	)
	args = append(args, a.encoder.outArgs...)
	args = append(args,
		"-profile:v", "high",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", a.cfg.Pipeline.AudioBitrate,
		"-movflags", "+faststart",
		outPath,
	)

	cmd := exec.CommandContext(ctx, a.cfg.Pipeline.FfmpegBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 4000 {
			msg = msg[:4000]
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", &models.ExtractError{Reason: fmt.Sprintf("ffmpeg failed: %s", msg)}
	}
	return outPath, nil
}

func scaleFilter(portrait bool) string {
	if portrait {
		return "scale='min(1080,iw)':'min(1920,ih)':force_original_aspect_ratio=decrease:flags=lanczos"
	}
	return "scale='min(1920,iw)':'min(1080,ih)':force_original_aspect_ratio=decrease:flags=lanczos"
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *mediaAdapter) probeDimensions(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, a.cfg.Pipeline.FfprobeBin,
		"-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height", "-of", "csv=p=0:s=x", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe error: %v output: %v", err, string(output))
	}
	out := strings.TrimSpace(string(output))
	parts := strings.Split(out, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe output: %s", out)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: %v", err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %v", err)
	}
	return width, height, nil
}

// detectEncoder probes the local ffmpeg build once and picks the best
// available H.264 encoder, hardware first, libx264 as the fallback.
func detectEncoder(ffmpegBin string) encoderProfile {
	out := ""
	if raw, err := exec.Command(ffmpegBin, "-hide_banner", "-encoders").CombinedOutput(); err == nil {
		out = string(raw)
	}
	return chooseEncoder(out)
}

func chooseEncoder(encoders string) encoderProfile {
	switch {
	case strings.Contains(encoders, "h264_nvenc"):
		return encoderProfile{
			name:    "h264_nvenc",
			inArgs:  []string{"-hwaccel", "cuda"},
			outArgs: []string{"-preset", "p7", "-rc", "vbr", "-cq", "16", "-qmin", "16", "-qmax", "18", "-b:v", "8M"},
		}
	case strings.Contains(encoders, "h264_qsv"):
		return encoderProfile{
			name:    "h264_qsv",
			inArgs:  []string{"-hwaccel", "qsv"},
			outArgs: []string{"-global_quality", "18", "-b:v", "8M"},
		}
	case strings.Contains(encoders, "h264_amf"):
		return encoderProfile{
			name:    "h264_amf",
			inArgs:  []string{"-hwaccel", "d3d11va"},
			outArgs: []string{"-quality", "quality", "-rc", "vbr_peak", "-b:v", "8M"},
		}
	case strings.Contains(encoders, "h264_videotoolbox"):
		return encoderProfile{
			name:    "h264_videotoolbox",
			outArgs: []string{"-b:v", "8M", "-q:v", "60"},
		}
	case strings.Contains(encoders, "h264_vaapi"):
		return encoderProfile{
			name:    "h264_vaapi",
			inArgs:  []string{"-hwaccel", "vaapi", "-vaapi_device", "/dev/dri/renderD128"},
			outArgs: []string{"-vf", "format=nv12,hwupload", "-rc_mode", "2", "-b:v", "8M"},
		}
	default:
		return encoderProfile{
			name:    "libx264",
			outArgs: []string{"-preset", "slower", "-crf", "16"},
		}
	}
}
