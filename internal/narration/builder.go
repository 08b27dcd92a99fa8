// Package narration assembles a full voice track from a script, one
// synthesized clip per sentence.
package narration

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/script"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/speech"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/system"
)

// ErrEmptyNarration means no sentence produced a usable clip.
var ErrEmptyNarration = errors.New("narration: no clips synthesized")

// Clip is one spoken sentence on disk.
type Clip struct {
	Text     string
	Path     string
	Duration float64
}

// Track is the assembled narration: clips in script order plus their
// summed duration.
type Track struct {
	Clips []Clip
	Total float64
}

// Release removes the clip files from disk.
func (t *Track) Release() {
	for _, c := range t.Clips {
		os.Remove(c.Path)
	}
}

// Builder synthesizes narration tracks.
type Builder struct {
	tts speech.Synthesizer
	log *zap.SugaredLogger

	// minRatio is the fraction of sentences that must synthesize for a
	// track to be considered usable. Zero keeps any non-empty result.
	minRatio float64

	workers  int
	duration func(path string) (float64, error)
}

func NewBuilder(tts speech.Synthesizer, minRatio float64, log *zap.SugaredLogger) *Builder {
	return &Builder{
		tts:      tts,
		log:      log,
		minRatio: minRatio,
		workers:  4,
		duration: system.AudioDuration,
	}
}

// SetDurationProbe replaces the ffprobe-based clip duration lookup.
func (b *Builder) SetDurationProbe(fn func(path string) (float64, error)) {
	b.duration = fn
}

// Build splits text into sentences and synthesizes them concurrently,
// preserving script order. Sentences that fail to synthesize are logged
// and skipped.
func (b *Builder) Build(ctx context.Context, text, languageCode, dir string) (*Track, error) {
	sentences := script.SplitSentences(text)
	if len(sentences) == 0 {
		return nil, script.ErrEmptyScript
	}

	clips := make([]*Clip, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, sentence := range sentences {
		i, sentence := i, sentence
		g.Go(func() error {
			path, err := b.tts.Synthesize(gctx, sentence, languageCode, dir)
			if err != nil {
				b.log.Warnw("sentence skipped", "index", i, "err", err)
				return nil
			}
			duration, err := b.duration(path)
			if err != nil || duration <= 0 {
				b.log.Warnw("sentence skipped", "index", i, "err", err)
				os.Remove(path)
				return nil
			}
			clips[i] = &Clip{Text: sentence, Path: path, Duration: duration}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	track := &Track{}
	for _, c := range clips {
		if c == nil {
			continue
		}
		track.Clips = append(track.Clips, *c)
		track.Total += c.Duration
	}

	if len(track.Clips) == 0 {
		return nil, ErrEmptyNarration
	}
	if ratio := float64(len(track.Clips)) / float64(len(sentences)); ratio < b.minRatio {
		track.Release()
		return nil, fmt.Errorf("narration: only %d of %d sentences synthesized: %w",
			len(track.Clips), len(sentences), ErrEmptyNarration)
	}
	return track, nil
}
