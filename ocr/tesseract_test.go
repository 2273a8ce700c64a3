package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textPNG renders text onto a white canvas and scales it up so the glyphs
// are large enough for reliable recognition.
func textPNG(t *testing.T, text string) []byte {
	t.Helper()

	small := image.NewRGBA(image.Rect(0, 0, 400, 60))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(20, 35),
	}
	drawer.DrawString(text)

	big := image.NewRGBA(image.Rect(0, 0, 1600, 240))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, big); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestTesseract(t *testing.T) {
	if !FeatureTesseractEnabled {
		t.Skip("tesseract provider is not compiled in, run with -tags test")
	}

	tesseract := NewTesseract(DefaultTesseractConfig())
	if err := tesseract.Init(); err != nil {
		t.Fatal(err.Error())
	}
	defer tesseract.Destroy()

	result, err := tesseract.Recognize(context.Background(), textPNG(t, "HELLO WORLD"))
	if err != nil {
		t.Fatal(err.Error())
	}

	if !strings.Contains(strings.ToLower(result.PlainText), "hello") {
		t.Errorf("expected recognized text to contain hello, got %q", result.PlainText)
	}
}

func TestTesseractPool(t *testing.T) {
	if !FeatureTesseractEnabled {
		t.Skip("tesseract provider is not compiled in, run with -tags test")
	}

	pool := NewTesseractPool(2, DefaultTesseractConfig())
	if err := pool.Init(context.Background()); err != nil {
		t.Fatal(err.Error())
	}
	defer pool.Destroy(context.Background())

	result, err := pool.Recognize(context.Background(), textPNG(t, "HELLO POOL"))
	if err != nil {
		t.Fatal(err.Error())
	}
	if !strings.Contains(strings.ToLower(result.PlainText), "hello") {
		t.Errorf("expected recognized text to contain hello, got %q", result.PlainText)
	}
}

func TestTesseractIsMimeTypeSupported(t *testing.T) {
	tesseract := NewTesseract(DefaultTesseractConfig())

	if FeatureTesseractEnabled {
		if !tesseract.IsMimeTypeSupported("image/png") {
			t.Error("image/png must always be supported")
		}
		if tesseract.IsMimeTypeSupported("image/bmp") {
			t.Error("compressed bmp is not supported by tesseract")
		}
	} else {
		if tesseract.IsMimeTypeSupported("image/png") {
			t.Error("disabled provider should not claim support")
		}
	}
}
