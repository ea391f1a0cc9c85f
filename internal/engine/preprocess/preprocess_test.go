package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

func closeEnough(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

// solidImage returns a w x h image filled with the given color.
func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBatchNormalizesWithCLIPStats(t *testing.T) {
	p, err := New(4, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// A solid white square stays solid through pad and resize, so every
	// plane value is ((1 - mean) / std) for its channel.
	out, err := p.Batch([]image.Image{solidImage(8, 8, color.RGBA{255, 255, 255, 255})})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(out) != 3*4*4 {
		t.Fatalf("expected %d values, got %d", 3*4*4, len(out))
	}

	plane := 4 * 4
	for c := 0; c < 3; c++ {
		want := (1 - clipMean[c]) / clipStd[c]
		for i := 0; i < plane; i++ {
			if got := out[c*plane+i]; !closeEnough(got, want) {
				t.Fatalf("channel %d pixel %d: got %f, want %f", c, i, got, want)
			}
		}
	}
}

func TestBatchPreservesOrder(t *testing.T) {
	p, err := New(2, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Image 0 is pure red, image 1 is pure green; the red plane of item 0
	// and the green plane of item 1 must carry the bright value.
	out, err := p.Batch([]image.Image{
		solidImage(2, 2, color.RGBA{255, 0, 0, 255}),
		solidImage(2, 2, color.RGBA{0, 255, 0, 255}),
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}

	plane := 2 * 2
	brightRed := (1 - clipMean[0]) / clipStd[0]
	brightGreen := (1 - clipMean[1]) / clipStd[1]
	darkRed := (0 - clipMean[0]) / clipStd[0]

	if got := out[0]; !closeEnough(got, brightRed) {
		t.Errorf("item 0 red plane: got %f, want %f", got, brightRed)
	}
	if got := out[3*plane+0]; !closeEnough(got, darkRed) {
		t.Errorf("item 1 red plane: got %f, want %f", got, darkRed)
	}
	if got := out[3*plane+plane]; !closeEnough(got, brightGreen) {
		t.Errorf("item 1 green plane: got %f, want %f", got, brightGreen)
	}
}

func TestSquarePad(t *testing.T) {
	// A 2x4 white image becomes a 4x4 canvas with the content centered
	// horizontally and black columns on both sides.
	padded := squarePad(solidImage(2, 4, color.RGBA{255, 255, 255, 255}))

	if padded.Bounds().Dx() != 4 || padded.Bounds().Dy() != 4 {
		t.Fatalf("expected 4x4, got %v", padded.Bounds())
	}

	at := func(x, y int) uint8 {
		return padded.Pix[padded.PixOffset(x, y)]
	}
	if at(0, 0) != 0 || at(3, 0) != 0 {
		t.Error("expected black padding columns at the edges")
	}
	if at(1, 0) != 255 || at(2, 3) != 255 {
		t.Error("expected centered white content")
	}
}

func TestSquarePadNoopOnSquare(t *testing.T) {
	img := solidImage(3, 3, color.RGBA{10, 20, 30, 255})
	if padded := squarePad(img); padded != img {
		t.Error("square input should pass through unpadded")
	}
}

func TestCenterCrop(t *testing.T) {
	// 4x4 image, white except a 2x2 black center; cropping the center 2x2
	// yields all black.
	img := solidImage(4, 4, color.RGBA{255, 255, 255, 255})
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}

	cropped := centerCrop(img, 2)
	if cropped.Bounds().Dx() != 2 || cropped.Bounds().Dy() != 2 {
		t.Fatalf("expected 2x2, got %v", cropped.Bounds())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if cropped.Pix[cropped.PixOffset(x, y)] != 0 {
				t.Errorf("pixel (%d, %d) not from the image center", x, y)
			}
		}
	}
}

func TestBatchRejectsEmptyAndNil(t *testing.T) {
	p, err := New(2, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := p.Batch(nil); err == nil {
		t.Error("expected error for empty batch")
	}
	if _, err := p.Batch([]image.Image{nil}); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0, false); err == nil {
		t.Error("expected error for size 0")
	}
	if _, err := New(-224, false); err == nil {
		t.Error("expected error for negative size")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(3, 5, color.RGBA{1, 2, 3, 255})); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}

	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 5 {
		t.Errorf("decoded bounds %v, want 3x5", img.Bounds())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected error for non-image bytes")
	}
}
