package params

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/logger"
)

// Listener is notified after a field changes.
type Listener func(f Field, effect Effect)

// Store owns the live parameter values. It is touched only from the render
// thread (the frame loop and the debug panel), so it carries no lock.
type Store struct {
	params    Params
	listeners []Listener
}

// NewStore validates p and wraps it in a store.
func NewStore(p Params) (*Store, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene parameters: %w", err)
	}
	return &Store{params: p}, nil
}

// Params returns a copy of the current values.
func (s *Store) Params() Params {
	return s.params
}

// OnChange registers a listener. Listeners run in registration order.
func (s *Store) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Set updates a numeric field. The value is range-checked and snapped to the
// field's step, and the resulting set must still validate as a whole; an
// unchanged value does not notify.
func (s *Store) Set(f Field, v float32) error {
	if f < 0 || f >= fieldCount || f.IsColour() {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	r := RangeOf(f)
	if err := r.Check(f, v); err != nil {
		return err
	}
	v = r.Snap(v)
	if s.params.Value(f) == v {
		return nil
	}

	next := s.params
	next.setValue(f, v)
	if err := next.Validate(); err != nil {
		return err
	}
	s.params = next
	logger.Debug("parameter changed", zap.Stringer("field", f), zap.Float32("value", v))
	s.notify(f)
	return nil
}

// SetColour updates a colour field.
func (s *Store) SetColour(f Field, c Colour) error {
	if !f.IsColour() {
		return fmt.Errorf("%w: %s is not a colour", ErrUnknownField, f)
	}
	if s.params.Colour(f) == c {
		return nil
	}

	if f == FieldBackgroundColour {
		s.params.BackgroundColour = c
	} else {
		s.params.TrailColour = c
	}
	logger.Debug("parameter changed", zap.Stringer("field", f), zap.Stringer("colour", c))
	s.notify(f)
	return nil
}

func (s *Store) notify(f Field) {
	effect := f.Effect()
	for _, l := range s.listeners {
		l(f, effect)
	}
}
