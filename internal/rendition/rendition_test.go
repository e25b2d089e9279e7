package rendition

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"thumb", "card", "zoom"} {
		p, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) missing", name)
		}
		if p.Name != name {
			t.Fatalf("Lookup(%q).Name = %q", name, p.Name)
		}
	}
	if _, ok := Lookup("poster"); ok {
		t.Fatal("Lookup(\"poster\") = true, want false")
	}
}

func TestResizeGeometry(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		w, h   int
		wantW  int
		wantH  int
	}{
		{"thumb bounds large square", "thumb", 1500, 1500, 100, 100},
		{"card bounds large square", "card", 1500, 1500, 400, 400},
		{"zoom bounds large square", "zoom", 1500, 1500, 1200, 1200},
		{"thumb preserves aspect", "thumb", 300, 150, 100, 50},
		{"thumb never upscales", "thumb", 50, 50, 50, 50},
		{"zoom passes small image through", "zoom", 800, 600, 800, 600},
		{"zoom bounds longer edge only", "zoom", 2400, 1200, 1200, 600},
		{"zoom bounds tall image", "zoom", 600, 2400, 300, 1200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := Lookup(tc.preset)
			if !ok {
				t.Fatalf("Lookup(%q) missing", tc.preset)
			}
			got := Resize(testImage(tc.w, tc.h), p)
			b := got.Bounds()
			if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
				t.Fatalf("Resize(%dx%d, %s) = %dx%d, want %dx%d",
					tc.w, tc.h, tc.preset, b.Dx(), b.Dy(), tc.wantW, tc.wantH)
			}
		})
	}
}

func TestResizeDoesNotMutateSmallImages(t *testing.T) {
	src := testImage(80, 60)
	p, _ := Lookup("thumb")
	if got := Resize(src, p); got != image.Image(src) {
		t.Fatal("Resize returned a new image for input already within the box")
	}
}

func TestGenerate(t *testing.T) {
	p, _ := Lookup("card")
	res, err := Generate(testImage(1500, 1000), p)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Quality != JPEGQuality {
		t.Fatalf("Quality = %d, want %d", res.Quality, JPEGQuality)
	}
	if res.Width != 400 || res.Height != 266 {
		t.Fatalf("dimensions = %dx%d, want 400x266", res.Width, res.Height)
	}
	if res.ColorSpace != "RGB" {
		t.Fatalf("ColorSpace = %q, want RGB", res.ColorSpace)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != res.Width || b.Dy() != res.Height {
		t.Fatalf("decoded dimensions %dx%d do not match recorded %dx%d",
			b.Dx(), b.Dy(), res.Width, res.Height)
	}
}

func TestNamesOrder(t *testing.T) {
	got := Names()
	want := []string{"thumb", "card", "zoom"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}
