package quality

import (
	"encoding/json"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"catalogpix/internal/fingerprint"
)

func flatImage(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func perturbed(src *image.NRGBA, delta uint8) *image.NRGBA {
	out := imaging.Clone(src)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] += delta
	}
	return out
}

func TestPSNRIdenticalIsInfinite(t *testing.T) {
	img := flatImage(32, 32, 100)
	if got := PSNR(img, img); !math.IsInf(got, 1) {
		t.Fatalf("PSNR(img, img) = %f, want +Inf", got)
	}
}

func TestPSNRDecreasesWithDistortion(t *testing.T) {
	base := flatImage(32, 32, 100)

	slight := PSNR(base, perturbed(base, 2))
	heavy := PSNR(base, perturbed(base, 50))

	if math.IsInf(slight, 1) || math.IsInf(heavy, 1) {
		t.Fatal("distorted images should not score +Inf")
	}
	if slight <= heavy {
		t.Fatalf("PSNR(slight)=%f should exceed PSNR(heavy)=%f", slight, heavy)
	}
	if slight < 30 {
		t.Fatalf("PSNR for near-identical images = %f, want >= 30 dB", slight)
	}
}

func TestPSNRResamplesMismatchedDimensions(t *testing.T) {
	a := flatImage(64, 64, 100)
	b := flatImage(32, 32, 100)

	got := PSNR(a, b)
	if !math.IsInf(got, 1) {
		t.Fatalf("PSNR over resampled flat images = %f, want +Inf", got)
	}
}

func TestCompare(t *testing.T) {
	a := flatImage(32, 32, 100)
	b := perturbed(a, 10)

	hashA, err := fingerprint.PerceptualHash(a)
	if err != nil {
		t.Fatalf("PerceptualHash() error = %v", err)
	}
	hashB, err := fingerprint.PerceptualHash(b)
	if err != nil {
		t.Fatalf("PerceptualHash() error = %v", err)
	}

	cmp, err := Compare(a, b, hashA, hashB, 2048)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp.FileSizeBytes != 2048 {
		t.Fatalf("FileSizeBytes = %d, want 2048", cmp.FileSizeBytes)
	}
	if math.IsInf(cmp.PSNRDb, 1) || cmp.PSNRDb <= 0 {
		t.Fatalf("PSNRDb = %f, want finite positive", cmp.PSNRDb)
	}
	if cmp.HashDistance != 0 {
		// A uniform brightness shift does not change the thresholded grid.
		t.Fatalf("HashDistance = %d, want 0", cmp.HashDistance)
	}
}

func TestCompareRejectsMalformedHash(t *testing.T) {
	a := flatImage(8, 8, 10)
	if _, err := Compare(a, a, "nope", "0000000000000000", 1); err == nil {
		t.Fatal("Compare() with malformed hash succeeded, want error")
	}
}

func TestComparisonMarshalsInfinityAsNull(t *testing.T) {
	data, err := json.Marshal(Comparison{FileSizeBytes: 10, PSNRDb: math.Inf(1), HashDistance: 3})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"psnr_db":null`) {
		t.Fatalf("Marshal() = %s, want psnr_db null", data)
	}

	data, err = json.Marshal(Comparison{FileSizeBytes: 10, PSNRDb: 41.5, HashDistance: 3})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"psnr_db":41.5`) {
		t.Fatalf("Marshal() = %s, want psnr_db 41.5", data)
	}
}
