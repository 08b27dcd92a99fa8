// Package motion applies deterministic pixel-space camera movement to a
// still image over the lifetime of one video segment. Every transform is a
// pure function of (t, duration, kind, intensity): sampling the same instant
// twice yields byte-identical frames.
package motion

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Kind selects one of the four segment movements.
type Kind string

const (
	ZoomIn   Kind = "zoom-in"
	ZoomOut  Kind = "zoom-out"
	PanLeft  Kind = "pan-left"
	PanRight Kind = "pan-right"
)

// Cycle is the fixed effect rotation assigned to segments by index.
var Cycle = [4]Kind{ZoomIn, ZoomOut, PanLeft, PanRight}

// DefaultIntensity bounds how far an effect departs from the unscaled image.
const DefaultIntensity = 0.12

// Transform describes the movement of one segment. Width and Height are the
// canonical output dimensions; every produced frame has exactly this size.
type Transform struct {
	Kind      Kind
	Width     int
	Height    int
	Duration  float64
	Intensity float64
}

// Progress maps t into [0,1] across the segment.
func (tr Transform) Progress(t float64) float64 {
	if tr.Duration <= 0 {
		return 0
	}
	p := t / tr.Duration
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Scale returns the magnification applied at time t. Pans use a fixed
// pre-scale so the viewport has excess width to travel across.
func (tr Transform) Scale(t float64) float64 {
	p := tr.Progress(t)
	switch tr.Kind {
	case ZoomIn:
		return 1 + tr.Intensity*p
	case ZoomOut:
		return 1 + tr.Intensity*(1-p)
	case PanLeft, PanRight:
		return 1 + tr.Intensity*0.5
	}
	return 1
}

// PanOffset returns the horizontal crop offset, in scaled pixels, at time t.
// Pan-right slides the viewport from the right edge to the left, pan-left
// the other way. Zero for the zoom kinds, which stay centered.
func (tr Transform) PanOffset(t float64) int {
	switch tr.Kind {
	case PanLeft, PanRight:
	default:
		return 0
	}
	excess := float64(tr.scaledWidth()) - float64(tr.Width)
	if excess <= 0 {
		return 0
	}
	p := tr.Progress(t)
	if tr.Kind == PanRight {
		p = 1 - p
	}
	return int(math.Round(excess * p))
}

func (tr Transform) scaledWidth() int {
	return int(math.Round(float64(tr.Width) * tr.Scale(0)))
}

// Frame samples the transform at time t and returns a fresh canonical-size
// frame. Convenience wrapper over FrameInto.
func (tr Transform) Frame(src image.Image, t float64) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, tr.Width, tr.Height))
	tr.FrameInto(dst, src, t)
	return dst
}

// FrameInto renders the sampled frame into dst, which must be exactly
// Width x Height. The viewport is computed in scaled space and mapped back
// onto the source, so no intermediate scaled copy is allocated.
func (tr Transform) FrameInto(dst *image.RGBA, src image.Image, t float64) {
	s := tr.Scale(t)
	sb := src.Bounds()
	srcW, srcH := float64(sb.Dx()), float64(sb.Dy())

	// Canonical dimensions under this magnification.
	scaledW := float64(tr.Width) * s
	scaledH := float64(tr.Height) * s

	// Viewport origin in scaled space.
	var x0, y0 float64
	switch tr.Kind {
	case PanLeft, PanRight:
		x0 = float64(tr.PanOffset(t))
		y0 = 0 // crop from the top
	default:
		x0 = (scaledW - float64(tr.Width)) / 2
		y0 = (scaledH - float64(tr.Height)) / 2
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}

	// Map the scaled-space viewport back to source pixels.
	fx := srcW / scaledW
	fy := srcH / scaledH
	srcRect := image.Rect(
		sb.Min.X+int(math.Round(x0*fx)),
		sb.Min.Y+int(math.Round(y0*fy)),
		sb.Min.X+int(math.Round((x0+float64(tr.Width))*fx)),
		sb.Min.Y+int(math.Round((y0+float64(tr.Height))*fy)),
	)
	if srcRect.Max.X > sb.Max.X {
		srcRect.Max.X = sb.Max.X
	}
	if srcRect.Max.Y > sb.Max.Y {
		srcRect.Max.Y = sb.Max.Y
	}

	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, srcRect, xdraw.Src, nil)
}
