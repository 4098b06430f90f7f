package ui

import (
	"fmt"
	"math"

	"github.com/Faultbox/windmoth/internal/params"
)

// Form holds the panel's editable copies of the parameter values. Fields
// read live every frame apply while the slider moves; fields that rebuild
// the trails apply once the edit finishes.
type Form struct {
	store   *params.Store
	numeric []params.Field
	values  []float32
	colours [][3]float32
	editing int
}

// NewForm creates a form mirroring store.
func NewForm(store *params.Store) *Form {
	f := &Form{
		store:   store,
		numeric: params.NumericFields(),
		colours: make([][3]float32, len(params.ColourFields())),
		editing: -1,
	}
	f.values = make([]float32, len(f.numeric))
	f.Refresh()
	return f
}

// Refresh copies the store into the form, except a field mid-edit.
func (f *Form) Refresh() {
	p := f.store.Params()
	for i, field := range f.numeric {
		if i != f.editing {
			f.values[i] = p.Value(field)
		}
	}
	for i, field := range params.ColourFields() {
		f.colours[i] = p.Colour(field).Array()
	}
}

// Value returns a pointer to the editable copy of the i-th numeric field.
func (f *Form) Value(i int) *float32 {
	return &f.values[i]
}

// Colour returns a pointer to the editable copy of the i-th colour field.
func (f *Form) Colour(i int) *[3]float32 {
	return &f.colours[i]
}

// Changed records that the i-th numeric value moved.
func (f *Form) Changed(i int) error {
	if f.numeric[i].Effect() == params.EffectInPlace {
		return f.apply(i)
	}
	f.editing = i
	return nil
}

// Finished commits the i-th numeric value.
func (f *Form) Finished(i int) error {
	if f.editing == i {
		f.editing = -1
	}
	return f.apply(i)
}

func (f *Form) apply(i int) error {
	field := f.numeric[i]
	if err := f.store.Set(field, f.values[i]); err != nil {
		p := f.store.Params()
		f.values[i] = p.Value(field)
		return err
	}
	return nil
}

// ColourChanged applies the i-th colour immediately.
func (f *Form) ColourChanged(i int) error {
	field := params.ColourFields()[i]
	return f.store.SetColour(field, params.ColourFromArray(f.colours[i]))
}

// stepFormat returns a printf format showing as many decimals as step has.
func stepFormat(step float32) string {
	decimals := 0
	for s := float64(step); decimals < 6 && s > 0 && math.Abs(s-math.Round(s)) > 1e-6; s *= 10 {
		decimals++
	}
	return fmt.Sprintf("%%.%df", decimals)
}
