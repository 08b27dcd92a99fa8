// Package pipeline orchestrates one video generation job end to end:
// script, imagery, narration, segment planning, encoding and muxing.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/assets"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/config"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/jobs"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/narration"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/plan"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/script"
	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/video"
)

// Request is one video generation order. Script, when present, is narrated
// verbatim instead of generating one from Content. Title captions any
// placeholder slides.
type Request struct {
	Content  string
	Language string
	Script   string
	Title    string
}

// Pipeline owns the collaborators a job needs. All methods are safe for
// concurrent use.
type Pipeline struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	writer  *script.Writer
	planner *assets.Planner
	fetcher *assets.Fetcher
	builder *narration.Builder
	enc     video.Encoder
	store   jobs.Store

	jobTimeout time.Duration
}

func New(cfg *config.Config, log *zap.SugaredLogger, writer *script.Writer,
	planner *assets.Planner, fetcher *assets.Fetcher, builder *narration.Builder,
	enc video.Encoder, store jobs.Store) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		log:        log,
		writer:     writer,
		planner:    planner,
		fetcher:    fetcher,
		builder:    builder,
		enc:        enc,
		store:      store,
		jobTimeout: 15 * time.Minute,
	}
}

// Submit registers a job and starts processing it in the background. The
// returned id can be polled for status.
func (p *Pipeline) Submit(req Request) string {
	id := uuid.New().String()
	p.store.Put(jobs.Job{ID: id, Status: jobs.StatusPending})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
		defer cancel()

		if err := p.run(ctx, id, req); err != nil {
			p.log.Errorw("job failed", "job", id, "err", err)
			p.store.Update(id, jobs.StatusFailed, "", err.Error())
		}
	}()
	return id
}

func (p *Pipeline) run(ctx context.Context, id string, req Request) error {
	log := p.log.With("job", id)
	p.store.Update(id, jobs.StatusProcessing, "", "")
	started := time.Now()

	text := strings.TrimSpace(req.Script)
	if text != "" {
		log.Infow("narrating submitted script", "chars", len(text))
	} else {
		generated, err := p.writer.Narration(ctx, req.Content, req.Language)
		if err != nil {
			log.Warnw("script generation failed, narrating source text directly", "err", err)
			generated = req.Content
		}
		text = generated
	}
	if len(script.SplitSentences(text)) == 0 {
		return script.ErrEmptyScript
	}
	log.Infow("script ready", "chars", len(text))

	workDir, err := os.MkdirTemp("", "vidjob_"+id[:8]+"_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	queries := p.planner.Plan(ctx, text)
	log.Infow("image queries planned", "source", queries.Source, "terms", len(queries.Terms))

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = firstWords(req.Content, 6)
	}

	images := p.fetcher.Fetch(ctx, queries.Terms, workDir)
	images, err = assets.PadWithPlaceholders(images, workDir, title,
		config.Width, config.Height, config.MinImageCount, config.PadImageCount)
	if err != nil {
		return fmt.Errorf("placeholders: %w", err)
	}
	log.Infow("imagery ready", "images", len(images))

	track, err := p.builder.Build(ctx, text, p.cfg.LanguageCode(req.Language), workDir)
	if err != nil {
		return fmt.Errorf("narration: %w", err)
	}
	defer track.Release()
	log.Infow("narration ready", "clips", len(track.Clips), "seconds", track.Total)

	pl, err := plan.Build(track.Total, len(images), len(track.Clips),
		config.FadeDuration, config.ChangeDuration)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	segmentPaths := make([]string, len(pl.Segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.EncodeWorkers)
	for i, seg := range pl.Segments {
		i, seg := i, seg
		g.Go(func() error {
			out := filepath.Join(workDir, fmt.Sprintf("seg_%03d.mp4", i))
			if err := p.enc.EncodeSegment(gctx, images[seg.Asset], seg, out); err != nil {
				return err
			}
			segmentPaths[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infow("segments encoded", "count", len(segmentPaths))

	outName := fmt.Sprintf("video_%s.mp4", shortID(id))
	outPath := filepath.Join(p.cfg.VideosDir, outName)
	if err := p.enc.Mux(ctx, segmentPaths, pl, track.Clips, p.cfg.BGMusic, outPath); err != nil {
		return err
	}

	videoURL := p.cfg.AppBaseURL + "/videos/" + outName
	p.store.Update(id, jobs.StatusCompleted, videoURL, "")
	log.Infow("job completed", "url", videoURL, "elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}

// shortID keeps file names tidy without risking collisions in practice.
func shortID(id string) string {
	clean := make([]rune, 0, 12)
	for _, r := range id {
		if r == '-' {
			continue
		}
		clean = append(clean, r)
		if len(clean) == 12 {
			break
		}
	}
	return string(clean)
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
