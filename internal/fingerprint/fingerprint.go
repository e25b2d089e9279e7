// Package fingerprint produces the content hashes used for idempotent
// ingestion: an exact cryptographic digest of the raw bytes and a coarse
// perceptual fingerprint of the decoded pixels.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"math/bits"
	"strconv"

	"github.com/corona10/goimagehash"
)

// HashBits is the width of the perceptual fingerprint: an 8x8 luminance grid
// thresholded against its mean, packed into 64 bits.
const HashBits = 64

// ExactHash returns the sha256 digest of content as lowercase hex. It is the
// global dedup key for assets.
func ExactHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// PerceptualHash returns the 8x8 average hash of img as a 16-digit hex string.
// Visually identical images (including lossless re-encodes) usually produce
// identical or near-identical values; this is not a uniqueness guarantee.
func PerceptualHash(img image.Image) (string, error) {
	h, err := goimagehash.AverageHash(img)
	if err != nil {
		return "", fmt.Errorf("perceptual hash: %w", err)
	}
	return fmt.Sprintf("%016x", h.GetHash()), nil
}

// Distance returns the Hamming distance between two hex-encoded perceptual
// hashes: the popcount of their bitwise XOR. Zero iff equal, symmetric.
func Distance(a, b string) (int, error) {
	ha, err := strconv.ParseUint(a, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hash %q: %w", a, err)
	}
	hb, err := strconv.ParseUint(b, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hash %q: %w", b, err)
	}
	return bits.OnesCount64(ha ^ hb), nil
}
