// Package quality computes objective fidelity metrics between two images:
// PSNR over pixels and Hamming distance over perceptual hashes.
package quality

import (
	"encoding/json"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"catalogpix/internal/fingerprint"
)

// Comparison is the composed metric set for one image pair.
type Comparison struct {
	FileSizeBytes int64   `json:"file_size_bytes"`
	PSNRDb        float64 `json:"psnr_db"`
	HashDistance  int     `json:"perceptual_hash_distance"`
}

// MarshalJSON renders an infinite PSNR (bit-identical pixels) as null, since
// JSON has no Infinity literal.
func (c Comparison) MarshalJSON() ([]byte, error) {
	psnr := any(c.PSNRDb)
	if math.IsInf(c.PSNRDb, 0) {
		psnr = nil
	}
	return json.Marshal(map[string]any{
		"file_size_bytes":          c.FileSizeBytes,
		"psnr_db":                  psnr,
		"perceptual_hash_distance": c.HashDistance,
	})
}

// PSNR returns the peak signal-to-noise ratio between a and b in decibels.
// Both are flattened to 8-bit RGB; if the dimensions differ, b is resampled
// to a's size with the same filter used for rendition generation. Identical
// images return +Inf. Values above ~30 dB are conventionally good.
func PSNR(a, b image.Image) float64 {
	ra := imaging.Clone(a)
	rb := imaging.Clone(b)

	aw, ah := ra.Bounds().Dx(), ra.Bounds().Dy()
	if bw, bh := rb.Bounds().Dx(), rb.Bounds().Dy(); bw != aw || bh != ah {
		rb = imaging.Resize(rb, aw, ah, imaging.Lanczos)
	}

	var sum float64
	for y := 0; y < ah; y++ {
		ai := ra.PixOffset(0, y)
		bi := rb.PixOffset(0, y)
		for x := 0; x < aw; x++ {
			// NRGBA stride is 4; the alpha byte is skipped.
			for c := 0; c < 3; c++ {
				d := float64(ra.Pix[ai+c]) - float64(rb.Pix[bi+c])
				sum += d * d
			}
			ai += 4
			bi += 4
		}
	}

	n := float64(aw*ah) * 3
	if n == 0 {
		return math.Inf(1)
	}
	mse := sum / n
	if mse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(255/math.Sqrt(mse))
}

// Compare composes PSNR and perceptual-hash distance for an image pair whose
// hashes were precomputed. sizeBytes is the encoded size of b.
func Compare(a, b image.Image, hashA, hashB string, sizeBytes int64) (Comparison, error) {
	dist, err := fingerprint.Distance(hashA, hashB)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		FileSizeBytes: sizeBytes,
		PSNRDb:        PSNR(a, b),
		HashDistance:  dist,
	}, nil
}
