package chart

import (
	"bytes"
	"image/png"
	"testing"
)

var pngMagic = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

func TestRenderProducesPNG(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(1795, 1800, 1798, 1810)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.HasPrefix(out, pngMagic) {
		t.Fatal("output does not start with the PNG signature")
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not decodable PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 700 || bounds.Dy() != 400 {
		t.Errorf("dimensions = %dx%d, want 700x400", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer()

	first, err := r.Render(1795, 1800, 1798, 1810)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := r.Render(1795, 1800, 1798, 1810)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Same renderer, same inputs: decoded pixels must match. Compare decoded
	// content rather than raw bytes so encoder metadata can't flake the test.
	a, err := png.Decode(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("decode first: %v", err)
	}
	b, err := png.Decode(bytes.NewReader(second))
	if err != nil {
		t.Fatalf("decode second: %v", err)
	}

	if a.Bounds() != b.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs between identical renders", x, y)
			}
		}
	}
}

func TestRenderDistinctInputsDiffer(t *testing.T) {
	r := NewRenderer()

	first, err := r.Render(1795, 1800, 1798, 1810)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := r.Render(1795, 1800, 1798, 1700)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if bytes.Equal(first, second) {
		t.Error("charts for different predictions are identical")
	}
}

func TestRenderNarrowValueRange(t *testing.T) {
	// All four bars nearly equal: the padded y-range keeps them drawable.
	r := NewRenderer()
	out, err := r.Render(1795, 1795.01, 1795.02, 1795.03)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
}

func TestBase64RoundTrip(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(1795, 1800, 1798, 1810)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	encoded := EncodeBase64(out)
	decoded, err := DecodeBase64(encoded)
	if err != nil {
		t.Fatalf("DecodeBase64 failed: %v", err)
	}
	if !bytes.Equal(decoded, out) {
		t.Error("base64 round trip altered the payload")
	}

	if _, err := DecodeBase64("not!!valid@@base64"); err == nil {
		t.Error("DecodeBase64 accepted invalid input")
	}
}
