// Package system holds the host-facing helpers the pipeline leans on:
// file-descriptor limits, ffprobe duration queries and H.264 encoder
// detection.
package system

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// InitResourceLimits raises the open-file limit. Every concurrent job holds
// several images, temp audio files and ffmpeg pipes at once.
func InitResourceLimits(log *zap.SugaredLogger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warnw("could not read file limit", "err", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warnw("could not raise file limit", "err", err)
		return
	}
	log.Infow("open file limit raised", "limit", rLimit.Cur)
}

// AudioDuration returns the duration of an audio file in seconds via
// ffprobe.
func AudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %v", path, err)
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse ffprobe output %q: %v", strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}

// BestH264Encoder probes ffmpeg for hardware H.264 support and falls back
// to software x264.
func BestH264Encoder() string {
	candidates := []string{"h264_videotoolbox", "h264_nvenc"}

	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range candidates {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// DefaultQuality picks a sane quality value for the chosen encoder:
// bitrate multiplier for VideoToolbox, CQ for NVENC, CRF otherwise.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
