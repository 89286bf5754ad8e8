package geometry

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Resample selects the pixel-interpolation filter used when changing image
// dimensions.
type Resample int

const (
	// Lanczos is the default: the highest-quality practical filter for
	// training-data preparation.
	Lanczos Resample = iota
	Nearest
	Bilinear
	Bicubic
)

// ParseResample maps a method name to a Resample value. Matching is
// case-insensitive.
func ParseResample(name string) (Resample, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lanczos":
		return Lanczos, nil
	case "nearest":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	case "bicubic":
		return Bicubic, nil
	default:
		return Lanczos, fmt.Errorf("%w: unknown resample method %q (want nearest, bilinear, bicubic or lanczos)", ErrInvalidParameter, name)
	}
}

func (r Resample) String() string {
	switch r {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	default:
		return "lanczos"
	}
}

func (r Resample) filter() imaging.ResampleFilter {
	switch r {
	case Nearest:
		return imaging.NearestNeighbor
	case Bilinear:
		return imaging.Linear
	case Bicubic:
		return imaging.CatmullRom
	default:
		return imaging.Lanczos
	}
}
