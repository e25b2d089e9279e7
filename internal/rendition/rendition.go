// Package rendition derives the fixed set of resized variants from an
// original image. Preset names and target boxes are part of the external
// contract: callers request renditions by name.
package rendition

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"catalogpix/internal/domain/fault"
)

// JPEGQuality is the fixed encode quality for all renditions.
const JPEGQuality = 85

// FitMode selects how a preset's target box bounds the output.
type FitMode int

const (
	// FitBox bounds both dimensions, preserving aspect ratio, never upscaling.
	FitBox FitMode = iota
	// MaxEdge bounds only the longer edge; images already within the bound
	// pass through unchanged.
	MaxEdge
)

// Preset is a named target box plus fit mode.
type Preset struct {
	Name string
	Box  int
	Mode FitMode
}

// Presets is the fixed registry, in generation order.
var Presets = []Preset{
	{Name: "thumb", Box: 100, Mode: FitBox},
	{Name: "card", Box: 400, Mode: FitBox},
	{Name: "zoom", Box: 1200, Mode: MaxEdge},
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the registered preset names in generation order.
func Names() []string {
	out := make([]string, len(Presets))
	for i, p := range Presets {
		out[i] = p.Name
	}
	return out
}

// Result is an encoded rendition plus the metadata recorded on its row.
type Result struct {
	Data       []byte
	Width      int
	Height     int
	Quality    int
	ColorSpace string
}

// Resize applies the preset's geometry without encoding.
func Resize(img image.Image, p Preset) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch p.Mode {
	case MaxEdge:
		longer := w
		if h > longer {
			longer = h
		}
		if longer <= p.Box {
			return img
		}
		return imaging.Fit(img, p.Box, p.Box, imaging.Lanczos)
	default:
		if w <= p.Box && h <= p.Box {
			// Never upscale below the target box.
			return img
		}
		return imaging.Fit(img, p.Box, p.Box, imaging.Lanczos)
	}
}

// Generate resizes img per the preset and encodes it as JPEG.
func Generate(img image.Image, p Preset) (Result, error) {
	resized := Resize(img, p)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return Result{}, fault.Wrap(fault.KindTransient, fmt.Errorf("encode %s rendition: %w", p.Name, err))
	}

	b := resized.Bounds()
	return Result{
		Data:       buf.Bytes(),
		Width:      b.Dx(),
		Height:     b.Dy(),
		Quality:    JPEGQuality,
		ColorSpace: "RGB",
	}, nil
}

// ColorSpace names the color model of a decoded image, mirroring the labels
// recorded on asset rows (RGB, RGBA, L, CMYK).
func ColorSpace(img image.Image) string {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return "L"
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64:
		return "RGBA"
	case *image.CMYK:
		return "CMYK"
	default:
		return "RGB"
	}
}
