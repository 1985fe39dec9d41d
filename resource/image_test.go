package resource

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestDecodeImageExpandsToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(2, 3, 5, 5))
	gray.SetGray(2, 3, color.Gray{Y: 200})
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		t.Fatalf("encode: %v", err)
	}

	rgba, format, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if format != "png" {
		t.Errorf("format %q, expected png", format)
	}
	if b := rgba.Bounds(); b != image.Rect(0, 0, 3, 2) {
		t.Errorf("bounds %v, expected origin based 3x2", b)
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{200, 200, 200, 255}) {
		t.Errorf("pixel %v, expected opaque gray 200", got)
	}
	if len(rgba.Pix) != 3*2*4 {
		t.Errorf("%d bytes, expected 4 channels per pixel", len(rgba.Pix))
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeImage(bytes.NewReader([]byte("nope"))); err == nil {
		t.Errorf("expected an error decoding garbage")
	}
}

func TestToRGBAKeepsPackedImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if toRGBA(src) != src {
		t.Errorf("an origin based RGBA image should pass through")
	}
}
