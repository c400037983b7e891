package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Reference bundles the snapping evidence derived from one reference
// photograph. Mask is nil when no segmentation mask accompanies the
// image; Gradient is always present.
type Reference struct {
	Width, Height int
	Mask          *Mask
	Gradient      *GradientMap
}

// HasMask reports whether mask-based snapping is available.
func (r *Reference) HasMask() bool {
	return r.Mask != nil
}

// Frame returns the device/raster frame for the reference size.
func (r *Reference) Frame() Frame {
	return Frame{Width: r.Width, Height: r.Height}
}

// LoadReference loads snapping evidence for the image at path.
//
// Resolution order: a sibling <base>_mask.png becomes the binary mask;
// a sibling <base>_grad.png is used as a cached gradient map; otherwise
// the gradient is derived from the image with a Sobel filter and the
// cache file is written for the next run. Missing mask or cache files
// only narrow the evidence; a missing or undecodable base image is an
// error.
func LoadReference(path string) (*Reference, error) {
	img, err := decodeImage(path)
	if err != nil {
		return nil, fmt.Errorf("load reference %s: %w", path, err)
	}
	b := img.Bounds()
	ref := &Reference{Width: b.Dx(), Height: b.Dy()}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	if m, err := loadMask(base + "_mask.png"); err == nil {
		if m.Width == ref.Width && m.Height == ref.Height {
			ref.Mask = m
		} else {
			log.Printf("ignoring mask %s_mask.png: size %dx%d does not match image %dx%d",
				base, m.Width, m.Height, ref.Width, ref.Height)
		}
	}

	gradPath := base + "_grad.png"
	if g, err := loadGradientCache(gradPath); err == nil &&
		g.Width == ref.Width && g.Height == ref.Height {
		ref.Gradient = g
		return ref, nil
	}

	ref.Gradient = sobel(img)
	if err := writeGradientCache(gradPath, ref.Gradient); err != nil {
		log.Printf("gradient cache %s not written: %v", gradPath, err)
	}
	return ref, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// loadMask reads a PNG and thresholds it: gray value above 127 is
// foreground.
func loadMask(path string) (*Mask, error) {
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			m.Set(x, y, g.Y > 127)
		}
	}
	return m, nil
}

func loadGradientCache(path string) (*GradientMap, error) {
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	g := NewGradientMap(b.Dx(), b.Dy())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			px := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			g.Set(x, y, float64(px.Y))
		}
	}
	return g, nil
}

// writeGradientCache stores the map as an 8-bit gray PNG, magnitudes
// scaled to the full range. Snapping only compares magnitudes, so the
// monotone rescale is harmless.
func writeGradientCache(path string, g *GradientMap) error {
	maxMag := 0.0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if v := g.At(x, y); v > maxMag {
				maxMag = v
			}
		}
	}
	if maxMag == 0 {
		maxMag = 1
	}
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(g.At(x, y) / maxMag * 255)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// sobel computes gradient magnitudes of the image luminance.
func sobel(img image.Image) *GradientMap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			lum[y*w+x] = float64(g.Y)
		}
	}
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return lum[y*w+x]
	}

	out := NewGradientMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			out.Set(x, y, math.Hypot(gx, gy))
		}
	}
	return out
}
