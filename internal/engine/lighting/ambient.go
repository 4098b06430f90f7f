// Package lighting describes the lights the scene is shaded with.
package lighting

// Ambient is a uniform light that reaches every surface equally.
type Ambient struct {
	Colour    [3]float32 // RGB (0-1 range)
	Intensity float32
}

// WhiteAmbient returns a full-strength white ambient light.
func WhiteAmbient() Ambient {
	return Ambient{Colour: [3]float32{1, 1, 1}, Intensity: 1}
}

// Radiance returns the colour scaled by intensity, the value the shader
// multiplies base colours by.
func (a Ambient) Radiance() [3]float32 {
	return [3]float32{
		a.Colour[0] * a.Intensity,
		a.Colour[1] * a.Intensity,
		a.Colour[2] * a.Intensity,
	}
}
