package params

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Colour is an opaque RGB colour with float components (0.0 to 1.0).
type Colour struct {
	R, G, B float32
}

// RGB creates a colour from 8-bit components.
func RGB(r, g, b uint8) Colour {
	return Colour{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
	}
}

// ParseHex parses "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (Colour, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	// colorful also takes "#rgb"; only the long form is accepted here.
	if len(h) != 6 {
		return Colour{}, fmt.Errorf("%w: %q", ErrBadColour, s)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return Colour{}, fmt.Errorf("%w: %q", ErrBadColour, s)
	}
	return RGB(c.RGB255()), nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) Colour {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the colour as "#rrggbb".
func (c Colour) Hex() string {
	return c.colorful().Clamped().Hex()
}

// Array returns the colour as [r, g, b], the layout ImGui colour editors use.
func (c Colour) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// ColourFromArray converts an [r, g, b] triple.
func ColourFromArray(a [3]float32) Colour {
	return Colour{R: a[0], G: a[1], B: a[2]}
}

func (c Colour) String() string {
	return c.Hex()
}

// MarshalYAML writes the colour as a hex string.
func (c Colour) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// UnmarshalYAML reads a hex string.
func (c *Colour) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Colour) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}
