// Package params holds the tunable values that govern wind trail placement,
// motion and appearance, together with the ranges the debug panel exposes.
package params

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownField is returned for a field the store does not know.
	ErrUnknownField = errors.New("unknown parameter")
	// ErrOutOfRange is returned when a value falls outside the declared range.
	ErrOutOfRange = errors.New("parameter out of range")
	// ErrBadColour is returned for a malformed "#rrggbb" string.
	ErrBadColour = errors.New("bad colour")
)

// Params is the flat set of scene settings.
type Params struct {
	XSpreadGap       float32 `yaml:"x_spread_gap"`
	XSpread          float32 `yaml:"x_spread"`
	YSpread          float32 `yaml:"y_spread"`
	ZSpread          float32 `yaml:"z_spread"`
	TrailCount       int     `yaml:"trail_count"`
	TrailSpeed       float32 `yaml:"trail_speed"`
	TrailSize        float32 `yaml:"trail_size"`
	TrailLength      float32 `yaml:"trail_length"`
	TrailColour      Colour  `yaml:"trail_colour"`
	TrailStartLoc    float32 `yaml:"trail_start_loc"`
	TrailEndLoc      float32 `yaml:"trail_end_loc"`
	BackgroundColour Colour  `yaml:"background_colour"`
}

// Default returns the values the scene ships with.
func Default() Params {
	return Params{
		XSpreadGap:       0.3,
		XSpread:          5,
		YSpread:          5,
		ZSpread:          10,
		TrailCount:       42,
		TrailSpeed:       10,
		TrailSize:        0.036,
		TrailLength:      5,
		TrailColour:      MustParseHex("#f9a368"),
		TrailStartLoc:    -4,
		TrailEndLoc:      4,
		BackgroundColour: MustParseHex("#e1e2dc"),
	}
}

// Value returns the numeric value of a field. Colour fields report 0.
func (p *Params) Value(f Field) float32 {
	switch f {
	case FieldXSpreadGap:
		return p.XSpreadGap
	case FieldXSpread:
		return p.XSpread
	case FieldYSpread:
		return p.YSpread
	case FieldZSpread:
		return p.ZSpread
	case FieldTrailCount:
		return float32(p.TrailCount)
	case FieldTrailSpeed:
		return p.TrailSpeed
	case FieldTrailSize:
		return p.TrailSize
	case FieldTrailLength:
		return p.TrailLength
	case FieldTrailStartLoc:
		return p.TrailStartLoc
	case FieldTrailEndLoc:
		return p.TrailEndLoc
	}
	return 0
}

func (p *Params) setValue(f Field, v float32) {
	switch f {
	case FieldXSpreadGap:
		p.XSpreadGap = v
	case FieldXSpread:
		p.XSpread = v
	case FieldYSpread:
		p.YSpread = v
	case FieldZSpread:
		p.ZSpread = v
	case FieldTrailCount:
		p.TrailCount = int(math.Round(float64(v)))
	case FieldTrailSpeed:
		p.TrailSpeed = v
	case FieldTrailSize:
		p.TrailSize = v
	case FieldTrailLength:
		p.TrailLength = v
	case FieldTrailStartLoc:
		p.TrailStartLoc = v
	case FieldTrailEndLoc:
		p.TrailEndLoc = v
	}
}

// Colour returns the value of a colour field.
func (p *Params) Colour(f Field) Colour {
	if f == FieldBackgroundColour {
		return p.BackgroundColour
	}
	return p.TrailColour
}

// Validate checks every numeric field against its declared range, and that
// the x gap leaves room inside half the x spread.
func (p *Params) Validate() error {
	for _, f := range NumericFields() {
		if err := RangeOf(f).Check(f, p.Value(f)); err != nil {
			return err
		}
	}
	if half := p.XSpread / 2; p.XSpreadGap >= half {
		return fmt.Errorf("%w: %s=%g must be below half of %s (%g)",
			ErrOutOfRange, FieldXSpreadGap, p.XSpreadGap, FieldXSpread, half)
	}
	return nil
}

// Check reports ErrOutOfRange when v lies outside r.
func (r Range) Check(f Field, v float32) error {
	if v < r.Min || v > r.Max || v != v {
		return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrOutOfRange, f, v, r.Min, r.Max)
	}
	return nil
}

// Snap rounds v to the nearest multiple of the range step.
func (r Range) Snap(v float32) float32 {
	if r.Step <= 0 {
		return v
	}
	snapped := float32(math.Round(float64(v/r.Step))) * r.Step
	if snapped < r.Min {
		return r.Min
	}
	if snapped > r.Max {
		return r.Max
	}
	return snapped
}
