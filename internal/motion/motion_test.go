package motion

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestZoomScaleEndpoints(t *testing.T) {
	tr := Transform{Kind: ZoomIn, Width: 192, Height: 108, Duration: 4.0, Intensity: 0.12}

	if s := tr.Scale(0); math.Abs(s-1.0) > 1e-9 {
		t.Errorf("zoom-in at t=0: expected scale 1.0, got %f", s)
	}
	if s := tr.Scale(4.0); math.Abs(s-1.12) > 1e-9 {
		t.Errorf("zoom-in at t=duration: expected scale 1.12, got %f", s)
	}
	if s := tr.Scale(2.0); math.Abs(s-1.06) > 1e-9 {
		t.Errorf("zoom-in at midpoint: expected scale 1.06, got %f", s)
	}

	tr.Kind = ZoomOut
	if s := tr.Scale(0); math.Abs(s-1.12) > 1e-9 {
		t.Errorf("zoom-out at t=0: expected scale 1.12, got %f", s)
	}
	if s := tr.Scale(4.0); math.Abs(s-1.0) > 1e-9 {
		t.Errorf("zoom-out at t=duration: expected scale 1.0, got %f", s)
	}
}

func TestZoomInStartsUnscaled(t *testing.T) {
	src := testImage(192, 108)
	tr := Transform{Kind: ZoomIn, Width: 192, Height: 108, Duration: 3.0, Intensity: 0.12}

	frame := tr.Frame(src, 0)
	if !frame.Bounds().Eq(src.Bounds()) {
		t.Fatalf("frame bounds %v != source bounds %v", frame.Bounds(), src.Bounds())
	}
	if !bytes.Equal(frame.Pix, src.Pix) {
		t.Error("zoom-in at t=0 should reproduce the source frame exactly")
	}
}

func TestPanFramesKeepCanonicalSize(t *testing.T) {
	src := testImage(192, 108)
	for _, kind := range []Kind{PanLeft, PanRight} {
		tr := Transform{Kind: kind, Width: 192, Height: 108, Duration: 2.0, Intensity: 0.12}
		for _, at := range []float64{0, 1.0, 2.0, 5.0} {
			frame := tr.Frame(src, at)
			if got := frame.Bounds(); got.Dx() != 192 || got.Dy() != 108 {
				t.Errorf("%s at t=%.1f: frame is %dx%d, want 192x108", kind, at, got.Dx(), got.Dy())
			}
		}
	}
}

func TestPanOffsetEndpoints(t *testing.T) {
	tr := Transform{Kind: PanLeft, Width: 1920, Height: 1080, Duration: 2.0, Intensity: 0.12}
	excess := int(math.Round(1920 * 0.06))

	if off := tr.PanOffset(0); off != 0 {
		t.Errorf("pan-left at t=0: offset %d, want 0", off)
	}
	if off := tr.PanOffset(2.0); off != excess {
		t.Errorf("pan-left at t=duration: offset %d, want %d", off, excess)
	}

	tr.Kind = PanRight
	if off := tr.PanOffset(0); off != excess {
		t.Errorf("pan-right at t=0: offset %d, want %d", off, excess)
	}
	if off := tr.PanOffset(2.0); off != 0 {
		t.Errorf("pan-right at t=duration: offset %d, want 0", off)
	}
}

func TestFrameIsDeterministic(t *testing.T) {
	src := testImage(192, 108)
	for _, kind := range []Kind{ZoomIn, ZoomOut, PanLeft, PanRight} {
		tr := Transform{Kind: kind, Width: 192, Height: 108, Duration: 3.0, Intensity: 0.12}
		a := tr.Frame(src, 1.37)
		b := tr.Frame(src, 1.37)
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%s: identical inputs produced different frames", kind)
		}
	}
}

func TestCycleOrder(t *testing.T) {
	want := [4]Kind{ZoomIn, ZoomOut, PanLeft, PanRight}
	if Cycle != want {
		t.Errorf("effect cycle is %v, want %v", Cycle, want)
	}
}
