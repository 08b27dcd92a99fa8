package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/motion"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/narration"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/plan"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/system"
)

// ErrEncoding wraps any ffmpeg failure.
var ErrEncoding = errors.New("video: encoding failed")

// Encoder produces the video artifacts of a job.
type Encoder interface {
	EncodeSegment(ctx context.Context, imagePath string, seg plan.Segment, outPath string) error
	Mux(ctx context.Context, segmentPaths []string, p *plan.Plan, clips []narration.Clip, musicPath, outPath string) error
}

// FFmpegEncoder renders motion frames in-process and hands them to ffmpeg
// as raw RGBA over stdin.
type FFmpegEncoder struct {
	Width     int
	Height    int
	FPS       int
	Codec     string
	Quality   int
	Bitrate   string
	AudioRate string
	Intensity float64
	MusicVol  float64
	MusicFade float64

	log  *zap.SugaredLogger
	pool *system.FramePool
}

func NewFFmpegEncoder(width, height, fps int, codec string, log *zap.SugaredLogger) *FFmpegEncoder {
	return &FFmpegEncoder{
		Width:     width,
		Height:    height,
		FPS:       fps,
		Codec:     codec,
		Quality:   system.DefaultQuality(codec),
		Bitrate:   "5000k",
		AudioRate: "192k",
		Intensity: motion.DefaultIntensity,
		MusicVol:  0.08,
		MusicFade: 2.0,
		log:       log,
		pool:      system.NewFramePool(width, height),
	}
}

// EncodeSegment renders one still image into a silent motion clip.
func (e *FFmpegEncoder) EncodeSegment(ctx context.Context, imagePath string, seg plan.Segment, outPath string) error {
	src, err := loadRGBA(imagePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	frames := int(math.Round(seg.Duration * float64(e.FPS)))
	if frames < 1 {
		frames = 1
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", e.Width, e.Height),
		"-framerate", strconv.Itoa(e.FPS),
		"-i", "-",
		"-frames:v", strconv.Itoa(frames),
		"-c:v", e.Codec,
	}
	args = append(args, e.qualityArgs()...)
	args = append(args, "-pix_fmt", "yuv420p", outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start ffmpeg: %v", ErrEncoding, err)
	}

	tr := motion.Transform{
		Kind:      seg.Effect,
		Width:     e.Width,
		Height:    e.Height,
		Duration:  seg.Duration,
		Intensity: e.Intensity,
	}

	frame := e.pool.Get()
	defer e.pool.Put(frame)

	writeErr := func() error {
		defer stdin.Close()
		for i := 0; i < frames; i++ {
			t := float64(i) / float64(e.FPS)
			tr.FrameInto(frame, src, t)
			if _, err := stdin.Write(frame.Pix); err != nil {
				return err
			}
		}
		return nil
	}()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: segment %d: %v: %s", ErrEncoding, seg.Index, err, tail(stderr.String()))
	}
	if writeErr != nil {
		return fmt.Errorf("%w: segment %d: %v", ErrEncoding, seg.Index, writeErr)
	}
	return nil
}

// Mux crossfades the segments and lays narration and music under them.
func (e *FFmpegEncoder) Mux(ctx context.Context, segmentPaths []string, p *plan.Plan, clips []narration.Clip, musicPath, outPath string) error {
	hasMusic := musicPath != ""
	if hasMusic {
		if _, err := os.Stat(musicPath); err != nil {
			e.log.Warnw("music bed missing, muxing without it", "path", musicPath)
			hasMusic = false
		}
	}

	args := []string{"-y"}
	for _, sp := range segmentPaths {
		args = append(args, "-i", sp)
	}
	for _, c := range clips {
		args = append(args, "-i", c.Path)
	}
	if hasMusic {
		args = append(args, "-stream_loop", "-1", "-i", musicPath)
	}

	graph, vout, aout := buildFilterGraph(GraphSpec{
		Segments:  len(segmentPaths),
		Clips:     len(clips),
		HasMusic:  hasMusic,
		Plan:      p,
		MusicVol:  e.MusicVol,
		MusicFade: e.MusicFade,
	})

	args = append(args,
		"-filter_complex", graph,
		"-map", vout,
		"-map", aout,
		"-c:v", e.Codec,
	)
	args = append(args, e.qualityArgs()...)
	args = append(args,
		"-b:v", e.Bitrate,
		"-c:a", "aac",
		"-b:a", e.AudioRate,
		"-r", strconv.Itoa(e.FPS),
		"-t", ffNum(p.Total),
		outPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: mux: %v: %s", ErrEncoding, err, tail(stderr.String()))
	}
	return nil
}

func (e *FFmpegEncoder) qualityArgs() []string {
	q := strconv.Itoa(e.Quality)
	switch e.Codec {
	case "h264_videotoolbox":
		return []string{"-q:v", q}
	case "h264_nvenc":
		return []string{"-cq", q}
	default:
		return []string{"-crf", q}
	}
}

func loadRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v", path, err)
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return rgba, nil
}

// tail keeps the last few lines of ffmpeg stderr for error messages.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, " | ")
}
