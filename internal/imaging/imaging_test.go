package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessDownscalesLargeImage(t *testing.T) {
	result, err := Process(makePNG(t, 400, 200), 100)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", result.MIME)
	}
	if result.Width != 100 || result.Height != 50 {
		t.Errorf("expected 100x50, got %dx%d", result.Width, result.Height)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 100 {
		t.Errorf("expected decoded width 100, got %d", decoded.Bounds().Dx())
	}
}

func TestProcessKeepsSmallImage(t *testing.T) {
	result, err := Process(makePNG(t, 30, 60), 100)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Width != 30 || result.Height != 60 {
		t.Errorf("expected 30x60, got %dx%d", result.Width, result.Height)
	}
}

func TestProcessRejectsNonImages(t *testing.T) {
	tests := map[string][]byte{
		"text":      []byte("hello, this is not an image"),
		"pdf":       []byte("%PDF-1.4\n%..."),
		"truncated": []byte("\x89PNG\r\n\x1a\n\x00\x00"),
	}
	for name, data := range tests {
		if _, err := Process(data, 100); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}
