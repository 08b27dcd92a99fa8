package system

import (
	"image"
	"sync"
)

// FramePool recycles RGBA frames of a single canonical size. The segment
// encoder renders thousands of frames per job; reusing the backing arrays
// keeps GC pressure flat.
type FramePool struct {
	width  int
	height int
	pool   sync.Pool
}

func NewFramePool(width, height int) *FramePool {
	p := &FramePool{width: width, height: height}
	p.pool.New = func() any {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return p
}

// Get returns a frame of the pool's canonical size. Contents are whatever
// the previous user left behind; callers overwrite every pixel.
func (p *FramePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put returns a frame to the pool. Frames of a different size are dropped.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() != p.width || b.Dy() != p.height {
		return
	}
	p.pool.Put(img)
}
