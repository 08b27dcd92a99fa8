// Package plan turns a narration duration and a pool of background images
// into a time-aligned sequence of visual segments. All segments share one
// duration chosen so that, once the compositor collapses the crossfade
// overlaps, the rendered track spans the narration exactly.
package plan

import (
	"errors"
	"fmt"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/motion"
)

var ErrNoAssets = errors.New("no background assets available")

// Segment is one time-boxed span of video backed by a single image.
type Segment struct {
	Index    int
	Asset    int // index into the asset list, cyclic when assets < sentences
	Start    float64
	Duration float64
	Effect   motion.Kind
	FadeIn   bool
	FadeOut  bool
}

// Plan is the full segment schedule plus the timing constants it was built
// with. Total is the narration duration the composed track must match.
type Plan struct {
	Segments []Segment
	Total    float64
	Overlap  float64
	Fade     float64
}

// Build computes the segment schedule.
//
// Segment count is max(assetCount, sentenceCount): when assets are fewer
// than sentences they are reused cyclically in original order, and when
// they outnumber sentences every asset still gets a segment. Per-segment
// duration is (total + (N-1)*overlap) / N, so N segments each starting
// duration-overlap after the previous collapse to exactly total.
func Build(totalNarration float64, assetCount, sentenceCount int, fade, overlap float64) (*Plan, error) {
	if assetCount <= 0 {
		return nil, ErrNoAssets
	}
	if totalNarration <= 0 {
		return nil, fmt.Errorf("narration duration must be positive, got %f", totalNarration)
	}

	n := assetCount
	if sentenceCount > n {
		n = sentenceCount
	}

	// A single segment has no overlaps to absorb.
	if n == 1 {
		overlap = 0
	}

	// Overlap can only exceed the per-segment duration when it exceeds the
	// whole narration. Clamp instead of failing, same spirit as shrinking a
	// too-long transition for a short clip.
	if overlap >= totalNarration {
		overlap = totalNarration / float64(n) / 2
	}

	duration := (totalNarration + float64(n-1)*overlap) / float64(n)
	if fade >= duration {
		fade = duration / 2
	}

	segs := make([]Segment, n)
	for i := 0; i < n; i++ {
		segs[i] = Segment{
			Index:    i,
			Asset:    i % assetCount,
			Duration: duration,
			Effect:   motion.Cycle[i%len(motion.Cycle)],
			// First segment fades in only, last fades out only, interior
			// segments do both. A lone segment gets both.
			FadeIn:  i < n-1 || n == 1,
			FadeOut: i > 0 || n == 1,
		}
		if i > 0 {
			segs[i].Start = segs[i-1].Start + duration - overlap
		}
	}

	return &Plan{Segments: segs, Total: totalNarration, Overlap: overlap, Fade: fade}, nil
}

// RenderedTotal is the length of the composed track after overlaps collapse:
// lastStart + duration. Equals Total up to floating-point drift, which the
// mux stage clamps away.
func (p *Plan) RenderedTotal() float64 {
	if len(p.Segments) == 0 {
		return 0
	}
	last := p.Segments[len(p.Segments)-1]
	return last.Start + last.Duration
}
