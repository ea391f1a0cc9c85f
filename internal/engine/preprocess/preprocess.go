// Package preprocess turns decoded images into the flat NCHW float32 batches
// the encoder expects: pad to square, optionally center-crop, resize to the
// model's input size, and normalize with the CLIP pixel statistics.
package preprocess

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// CLIP pixel normalization statistics (RGB), matching the checkpoints the
// encoder supports.
var (
	clipMean = [3]float32{0.48145466, 0.4578275, 0.40821073}
	clipStd  = [3]float32{0.26862954, 0.26130258, 0.27577711}
)

// Preprocessor converts images into normalized pixel batches for a fixed
// encoder input size. Center-cropping is optional and off by default; the
// default path pads to square so no part of the frame is discarded.
type Preprocessor struct {
	size       int
	centerCrop bool
}

// New creates a Preprocessor for the given square input size.
func New(size int, centerCrop bool) (*Preprocessor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("preprocess: invalid input size %d", size)
	}
	return &Preprocessor{size: size, centerCrop: centerCrop}, nil
}

// Size returns the configured square input size.
func (p *Preprocessor) Size() int {
	return p.size
}

// Batch converts a slice of images into one flat NCHW float32 slice of
// length len(imgs) * 3 * size * size, preserving input order.
func (p *Preprocessor) Batch(imgs []image.Image) ([]float32, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("preprocess: empty batch")
	}
	plane := p.size * p.size
	out := make([]float32, len(imgs)*3*plane)
	for i, img := range imgs {
		if img == nil {
			return nil, fmt.Errorf("preprocess: nil image at index %d", i)
		}
		p.pixels(img, out[i*3*plane:(i+1)*3*plane])
	}
	return out, nil
}

// pixels writes one image's normalized NCHW planes into dst
// (length 3 * size * size).
func (p *Preprocessor) pixels(img image.Image, dst []float32) {
	rgba := squarePad(toRGBA(img))
	if p.centerCrop {
		rgba = centerCrop(rgba, p.size)
	}
	rgba = resize(rgba, p.size)

	plane := p.size * p.size
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			off := rgba.PixOffset(x, y)
			idx := y*p.size + x

			// 8-bit channel to [0, 1], then CLIP normalization.
			r := float32(rgba.Pix[off]) / 255.0
			g := float32(rgba.Pix[off+1]) / 255.0
			b := float32(rgba.Pix[off+2]) / 255.0

			dst[0*plane+idx] = (r - clipMean[0]) / clipStd[0]
			dst[1*plane+idx] = (g - clipMean[1]) / clipStd[1]
			dst[2*plane+idx] = (b - clipMean[2]) / clipStd[2]
		}
	}
}

// squarePad centers the image on a black square canvas whose side is the
// larger of the two dimensions. Already-square images pass through.
func squarePad(img *image.RGBA) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == h {
		return img
	}
	side := w
	if h > side {
		side = h
	}
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	offset := image.Pt((side-w)/2, (side-h)/2)
	draw.Draw(dst, img.Bounds().Add(offset), img, image.Point{}, draw.Src)
	return dst
}

// centerCrop cuts a centered square of the given side, clamped to the image.
func centerCrop(img *image.RGBA, side int) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if side > w {
		side = w
	}
	if side > h {
		side = h
	}
	offset := image.Pt((w-side)/2, (h-side)/2)
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), img, offset, draw.Src)
	return dst
}

// resize scales to size x size with bilinear interpolation.
func resize(img *image.RGBA, size int) *image.RGBA {
	if img.Bounds().Dx() == size && img.Bounds().Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
