package params

// Field identifies one tunable value.
type Field int

const (
	FieldXSpreadGap Field = iota
	FieldXSpread
	FieldYSpread
	FieldZSpread
	FieldTrailCount
	FieldTrailSpeed
	FieldTrailSize
	FieldTrailLength
	FieldTrailColour
	FieldTrailStartLoc
	FieldTrailEndLoc
	FieldBackgroundColour
	fieldCount
)

var fieldNames = [fieldCount]string{
	"xSpreadGap",
	"xSpread",
	"ySpread",
	"zSpread",
	"trailCount",
	"trailSpeed",
	"trailSize",
	"trailLength",
	"trailColour",
	"trailStartLoc",
	"trailEndLoc",
	"backgroundColour",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// IsColour reports whether the field holds a Colour.
func (f Field) IsColour() bool {
	return f == FieldTrailColour || f == FieldBackgroundColour
}

// Effect describes what the scene has to do after a field changes.
type Effect int

const (
	// EffectInPlace fields are read live every frame.
	EffectInPlace Effect = iota
	// EffectRegenerate fields change trail geometry; the field is rebuilt.
	EffectRegenerate
	// EffectBackground updates the renderer clear colour.
	EffectBackground
)

func (e Effect) String() string {
	switch e {
	case EffectRegenerate:
		return "regenerate"
	case EffectBackground:
		return "background"
	default:
		return "in-place"
	}
}

// Effect returns the consequence of changing f.
func (f Field) Effect() Effect {
	switch f {
	case FieldTrailSpeed, FieldTrailStartLoc, FieldTrailEndLoc:
		return EffectInPlace
	case FieldBackgroundColour:
		return EffectBackground
	default:
		return EffectRegenerate
	}
}

// Range is the declared numeric range and step of a field.
type Range struct {
	Min, Max, Step float32
}

var ranges = [fieldCount]Range{
	FieldXSpreadGap:    {Min: 0, Max: 2, Step: 0.1},
	FieldXSpread:       {Min: 1, Max: 10, Step: 1},
	FieldYSpread:       {Min: 1, Max: 10, Step: 1},
	FieldZSpread:       {Min: 1, Max: 10, Step: 1},
	FieldTrailCount:    {Min: 10, Max: 100, Step: 1},
	FieldTrailSpeed:    {Min: 1, Max: 10, Step: 0.01},
	FieldTrailSize:     {Min: 0.005, Max: 0.5, Step: 0.001},
	FieldTrailLength:   {Min: 0.1, Max: 5, Step: 0.01},
	FieldTrailStartLoc: {Min: -6, Max: -2, Step: 0.1},
	FieldTrailEndLoc:   {Min: 2, Max: 6, Step: 0.1},
}

// RangeOf returns the declared range of a numeric field.
func RangeOf(f Field) Range {
	if f < 0 || f >= fieldCount {
		return Range{}
	}
	return ranges[f]
}

// NumericFields lists the non-colour fields in display order.
func NumericFields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		if !f.IsColour() {
			out = append(out, f)
		}
	}
	return out
}

// ColourFields lists the colour fields in display order.
func ColourFields() []Field {
	return []Field{FieldTrailColour, FieldBackgroundColour}
}
