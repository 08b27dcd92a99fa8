package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var placeholderPalette = []struct{ top, bottom color.RGBA }{
	{color.RGBA{0x1a, 0x1a, 0x2e, 0xff}, color.RGBA{0x16, 0x21, 0x3e, 0xff}},
	{color.RGBA{0x0f, 0x34, 0x60, 0xff}, color.RGBA{0x1a, 0x1a, 0x2e, 0xff}},
	{color.RGBA{0x2c, 0x06, 0x3a, 0xff}, color.RGBA{0x0f, 0x34, 0x60, 0xff}},
	{color.RGBA{0x16, 0x21, 0x3e, 0xff}, color.RGBA{0x2c, 0x06, 0x3a, 0xff}},
}

// PadWithPlaceholders ensures the slide deck has enough images to carry a
// video. When fewer than minCount real images arrived, gradient slides
// fill the deck out to padCount.
func PadWithPlaceholders(paths []string, dir, title string, width, height, minCount, padCount int) ([]string, error) {
	if len(paths) >= minCount {
		return paths, nil
	}
	for i := len(paths); i < padCount; i++ {
		path := filepath.Join(dir, fmt.Sprintf("placeholder_%d.jpg", i))
		if err := writePlaceholder(path, title, width, height, i); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePlaceholder(path, title string, width, height, seed int) error {
	palette := placeholderPalette[seed%len(placeholderPalette)]
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		p := float64(y) / float64(height-1)
		c := color.RGBA{
			R: lerpByte(palette.top.R, palette.bottom.R, p),
			G: lerpByte(palette.top.G, palette.bottom.G, p),
			B: lerpByte(palette.top.B, palette.bottom.B, p),
			A: 0xff,
		}
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	if title != "" {
		drawCentered(img, title, width, height)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 95}); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

func drawCentered(img *image.RGBA, text string, width, height int) {
	face := basicfont.Face7x13
	if len(text) > 60 {
		text = text[:57] + "..."
	}
	textWidth := font.MeasureString(face, text).Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0xe0, 0xe0, 0xe0, 0xff}),
		Face: face,
		Dot: fixed.P(
			(width-textWidth)/2,
			height/2,
		),
	}
	d.DrawString(text)
}

func lerpByte(a, b uint8, p float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*p)
}
