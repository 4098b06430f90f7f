package params

import (
	"errors"
	"testing"
)

type change struct {
	field  Field
	effect Effect
}

func newRecordingStore(t *testing.T) (*Store, *[]change) {
	t.Helper()
	s, err := NewStore(Default())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	var changes []change
	s.OnChange(func(f Field, e Effect) {
		changes = append(changes, change{f, e})
	})
	return s, &changes
}

func TestStoreSetNotifies(t *testing.T) {
	s, changes := newRecordingStore(t)

	if err := s.Set(FieldTrailCount, 80); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(FieldTrailSpeed, 3.5); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := s.Params().TrailCount; got != 80 {
		t.Errorf("TrailCount = %d, want 80", got)
	}
	want := []change{
		{FieldTrailCount, EffectRegenerate},
		{FieldTrailSpeed, EffectInPlace},
	}
	if len(*changes) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(*changes), len(want))
	}
	for i := range want {
		if (*changes)[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, (*changes)[i], want[i])
		}
	}
}

func TestStoreSetUnchangedIsSilent(t *testing.T) {
	s, changes := newRecordingStore(t)
	if err := s.Set(FieldXSpread, 5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(*changes) != 0 {
		t.Errorf("unchanged value should not notify, got %v", *changes)
	}
}

func TestStoreSetRejects(t *testing.T) {
	s, changes := newRecordingStore(t)

	if err := s.Set(FieldTrailEndLoc, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := s.Set(FieldTrailColour, 1); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField for colour via Set, got %v", err)
	}
	if err := s.SetColour(FieldTrailSpeed, Colour{}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField for numeric via SetColour, got %v", err)
	}
	if s.Params().TrailEndLoc != 4 {
		t.Error("rejected value must not be applied")
	}
	if len(*changes) != 0 {
		t.Errorf("rejected values should not notify, got %v", *changes)
	}
}

func TestStoreSetRejectsEmptySpread(t *testing.T) {
	s, changes := newRecordingStore(t)

	// Widening the gap past half the spread.
	if err := s.Set(FieldXSpread, 1); err != nil {
		t.Fatalf("Set(xSpread): %v", err)
	}
	if err := s.Set(FieldXSpreadGap, 0.5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("gap at half spread: expected ErrOutOfRange, got %v", err)
	}

	// Narrowing the spread under twice the gap.
	if err := s.Set(FieldXSpread, 5); err != nil {
		t.Fatalf("Set(xSpread): %v", err)
	}
	if err := s.Set(FieldXSpreadGap, 1.5); err != nil {
		t.Fatalf("Set(gap): %v", err)
	}
	if err := s.Set(FieldXSpread, 3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("spread at twice the gap: expected ErrOutOfRange, got %v", err)
	}

	p := s.Params()
	if p.XSpreadGap != 1.5 || p.XSpread != 5 {
		t.Errorf("rejected values applied: gap %v, spread %v", p.XSpreadGap, p.XSpread)
	}
	if len(*changes) != 3 {
		t.Errorf("expected only the three accepted changes to notify, got %v", *changes)
	}

	// Later edits still go through.
	if err := s.Set(FieldTrailCount, 20); err != nil {
		t.Errorf("Set(trailCount): %v", err)
	}
}

func TestStoreSetColour(t *testing.T) {
	s, changes := newRecordingStore(t)
	bg := MustParseHex("#000000")
	if err := s.SetColour(FieldBackgroundColour, bg); err != nil {
		t.Fatalf("SetColour: %v", err)
	}
	if s.Params().BackgroundColour != bg {
		t.Errorf("background not applied")
	}
	if len(*changes) != 1 || (*changes)[0].effect != EffectBackground {
		t.Errorf("expected one background notification, got %v", *changes)
	}
}

func TestNewStoreRejectsInvalid(t *testing.T) {
	p := Default()
	p.TrailSize = 2
	if _, err := NewStore(p); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}

	p = Default()
	p.XSpread = 3
	p.XSpreadGap = 2
	if _, err := NewStore(p); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("empty spread: expected ErrOutOfRange, got %v", err)
	}
}
