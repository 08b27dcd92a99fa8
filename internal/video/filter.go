// Package video drives ffmpeg: it encodes motion segments from raw frames
// and muxes them with narration and music into the final file.
package video

import (
	"fmt"
	"strings"

	"github.com/prash-spartanx/VIDEO-PIPELINE/internal/plan"
)

// GraphSpec describes one composition for buildFilterGraph. Input indices
// are assigned in order: segments, then narration clips, then music.
type GraphSpec struct {
	Segments  int
	Clips     int
	HasMusic  bool
	Plan      *plan.Plan
	MusicVol  float64
	MusicFade float64
}

// buildFilterGraph returns the filter_complex string plus the labels of
// the final video and audio streams.
func buildFilterGraph(spec GraphSpec) (graph, vout, aout string) {
	var parts []string

	parts = append(parts, videoChain(spec.Plan, spec.Segments))
	vout = "[vout]"

	parts = append(parts, voiceChain(spec.Segments, spec.Clips))
	aout = "[voice]"

	if spec.HasMusic {
		musicIdx := spec.Segments + spec.Clips
		parts = append(parts, musicChain(musicIdx, spec.Plan.Total, spec.MusicVol, spec.MusicFade))
		parts = append(parts,
			"[voice][music]amix=inputs=2:duration=first:dropout_transition=3[aout]")
		aout = "[aout]"
	}

	return strings.Join(parts, ";"), vout, aout
}

// videoChain crossfades the segment streams in order and applies the
// whole-track edge fades. Interior fades ride the crossfade transitions.
// Each transition lasts exactly the planned overlap so it ends with the
// first input: a transition running past the overlap would outlive the
// earlier segment and truncate mid-blend.
func videoChain(p *plan.Plan, segments int) string {
	var b strings.Builder

	last := "[0:v]"
	for i := 1; i < segments; i++ {
		offset := p.Segments[i].Start
		out := fmt.Sprintf("[vx%d]", i)
		fmt.Fprintf(&b, "%s[%d:v]xfade=transition=fade:duration=%s:offset=%s%s;",
			last, i, ffNum(p.Overlap), ffNum(offset), out)
		last = out
	}

	fmt.Fprintf(&b, "%sfade=t=in:st=0:d=%s,fade=t=out:st=%s:d=%s[vout]",
		last, ffNum(p.Fade), ffNum(p.Total-p.Fade), ffNum(p.Fade))
	return b.String()
}

// voiceChain concatenates the narration clips back to back.
func voiceChain(base, clips int) string {
	var b strings.Builder
	for i := 0; i < clips; i++ {
		fmt.Fprintf(&b, "[%d:a]", base+i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[voice]", clips)
	return b.String()
}

// musicChain trims the looped music bed to the narration length exactly,
// then ducks and edge-fades it.
func musicChain(idx int, total, volume, fade float64) string {
	return fmt.Sprintf(
		"[%d:a]atrim=0:%s,volume=%s,afade=t=in:st=0:d=%s,afade=t=out:st=%s:d=%s[music]",
		idx, ffNum(total), ffNum(volume), ffNum(fade), ffNum(total-fade), ffNum(fade))
}

// ffNum formats a float the way ffmpeg filter args expect, without
// exponent notation or trailing zeros.
func ffNum(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
