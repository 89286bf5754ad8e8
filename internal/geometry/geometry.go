// Package geometry implements the pure image-fitting operations used by the
// dataset preparation pipeline: center-cropping to an aspect ratio, exact
// resizing, bounds-constrained scaling, and letterboxing. Every operation
// returns a new image and never mutates its input.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Tolerance used for aspect-ratio and scale comparisons.
const epsilon = 1e-6

var (
	// ErrInvalidParameter indicates a non-positive aspect ratio, target
	// dimension, or malformed constraint.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateGeometry indicates a computed crop box or scale that
	// would produce a zero or negative dimension.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Constraints holds optional min/max dimension bounds for ResizeWithinBounds.
// Nil fields are absent. AllowUpscale controls whether min bounds may grow
// the image.
type Constraints struct {
	MinWidth     *int
	MinHeight    *int
	MaxWidth     *int
	MaxHeight    *int
	AllowUpscale bool
}

func (c Constraints) validate() error {
	for name, v := range map[string]*int{
		"min width":  c.MinWidth,
		"min height": c.MinHeight,
		"max width":  c.MaxWidth,
		"max height": c.MaxHeight,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParameter, name, *v)
		}
	}
	return nil
}

// AspectRatio returns width/height for an image.
func AspectRatio(img image.Image) float64 {
	b := img.Bounds()
	return float64(b.Dx()) / float64(b.Dy())
}

// CenterCropToAspect crops an image symmetrically around its center so that
// the result has the requested aspect ratio (width/height). If the source is
// already at the target aspect within tolerance the source is returned
// unchanged.
func CenterCropToAspect(img image.Image, targetAspect float64) (image.Image, error) {
	if targetAspect <= 0 || math.IsNaN(targetAspect) || math.IsInf(targetAspect, 0) {
		return nil, fmt.Errorf("%w: target aspect ratio must be positive, got %v", ErrInvalidParameter, targetAspect)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: source image is empty", ErrDegenerateGeometry)
	}

	current := float64(width) / float64(height)
	if math.Abs(current-targetAspect) < epsilon {
		return img, nil
	}

	var rect image.Rectangle
	if current > targetAspect {
		// Too wide: crop width symmetrically.
		newWidth := int(math.Round(float64(height) * targetAspect))
		if newWidth < 1 {
			return nil, fmt.Errorf("%w: crop width collapses to zero at aspect %v", ErrDegenerateGeometry, targetAspect)
		}
		x0 := (width - newWidth) / 2
		rect = image.Rect(x0, 0, x0+newWidth, height)
	} else {
		// Too tall: crop height symmetrically.
		newHeight := int(math.Round(float64(width) / targetAspect))
		if newHeight < 1 {
			return nil, fmt.Errorf("%w: crop height collapses to zero at aspect %v", ErrDegenerateGeometry, targetAspect)
		}
		y0 := (height - newHeight) / 2
		rect = image.Rect(0, y0, width, y0+newHeight)
	}

	return imaging.Crop(img, rect.Add(b.Min)), nil
}

// ResizeToExact resamples an image to exactly width x height without
// preserving aspect ratio. Callers wanting a particular aspect should crop
// first.
func ResizeToExact(img image.Image, width, height int, r Resample) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}
	return imaging.Resize(img, width, height, r.filter()), nil
}

// ResizeWithinBounds applies a single uniform scale factor so the image
// satisfies the given constraints while preserving its aspect ratio. Max
// bounds are applied first, then min bounds when upscaling is allowed; a
// conflicting min bound therefore wins over a max bound.
func ResizeWithinBounds(img image.Image, c Constraints, r Resample) (image.Image, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: source image is empty", ErrDegenerateGeometry)
	}

	scale := 1.0

	if c.MaxWidth != nil || c.MaxHeight != nil {
		maxW := orDim(c.MaxWidth, width)
		maxH := orDim(c.MaxHeight, height)
		scaleDown := math.Min(float64(maxW)/float64(width), float64(maxH)/float64(height))
		scale = math.Min(scale, scaleDown)
	}

	if c.AllowUpscale && (c.MinWidth != nil || c.MinHeight != nil) {
		minW := orDim(c.MinWidth, width)
		minH := orDim(c.MinHeight, height)
		scaleUp := math.Max(float64(minW)/float64(width), float64(minH)/float64(height))
		scale = math.Max(scale, scaleUp)
	}

	if math.Abs(scale-1.0) < epsilon {
		return img, nil
	}

	newW := maxInt(1, int(math.Round(float64(width)*scale)))
	newH := maxInt(1, int(math.Round(float64(height)*scale)))
	return imaging.Resize(img, newW, newH, r.filter()), nil
}

// LetterboxToAspect scales the source to fit entirely within width x height
// without cropping or upscaling, then centers it on a canvas of exactly that
// size filled with the given color.
func LetterboxToAspect(img image.Image, width, height int, fill color.NRGBA, r Resample) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size must be positive, got %dx%d", ErrInvalidParameter, width, height)
	}

	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("%w: source image is empty", ErrDegenerateGeometry)
	}

	scale := math.Min(float64(width)/float64(srcW), float64(height)/float64(srcH))
	if scale > 1.0 {
		// Fit-to-bounds only shrinks; smaller sources keep their size.
		scale = 1.0
	}

	scaled := img
	if math.Abs(scale-1.0) >= epsilon {
		newW := maxInt(1, int(math.Round(float64(srcW)*scale)))
		newH := maxInt(1, int(math.Round(float64(srcH)*scale)))
		scaled = imaging.Resize(img, newW, newH, r.filter())
	}

	sb := scaled.Bounds()
	x := (width - sb.Dx()) / 2
	y := (height - sb.Dy()) / 2

	canvas := imaging.New(width, height, fill)
	return imaging.Paste(canvas, scaled, image.Pt(x, y)), nil
}

func orDim(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
