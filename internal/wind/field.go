package wind

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/logger"
	"github.com/Faultbox/windmoth/internal/params"
	"github.com/Faultbox/windmoth/pkg/math"
)

// ErrEmptySpread is returned when xSpreadGap leaves no room inside xSpread.
var ErrEmptySpread = errors.New("x spread gap leaves no valid positions")

// Field owns the current set of trails.
type Field struct {
	trails     []Trail
	generation uint64
	rng        *rand.Rand
}

// NewField creates an empty field drawing randomness from rng.
// A nil rng seeds a private source.
func NewField(rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Field{rng: rng}
}

// Trails returns the owned trails. The slice is replaced on every Generate,
// so callers must not hold it across regenerations.
func (f *Field) Trails() []Trail {
	return f.trails
}

// Len returns the number of owned trails.
func (f *Field) Len() int {
	return len(f.trails)
}

// Generation increments every time the trail set is rebuilt.
func (f *Field) Generation() uint64 {
	return f.generation
}

// Generate discards every owned trail and creates p.TrailCount new ones.
// On error the previous set is left untouched.
func (f *Field) Generate(p params.Params) error {
	if p.TrailCount < 0 {
		return fmt.Errorf("trail count %d is negative", p.TrailCount)
	}
	half := p.XSpread / 2
	if p.XSpreadGap >= half {
		return fmt.Errorf("%w: gap %g, half spread %g", ErrEmptySpread, p.XSpreadGap, half)
	}

	trails := make([]Trail, p.TrailCount)
	for i := range trails {
		trails[i] = f.newTrail(&p)
	}

	f.trails = trails
	f.generation++

	logger.Debug("wind trails generated",
		zap.Int("count", len(trails)),
		zap.Uint64("generation", f.generation),
	)
	return nil
}

// AdvanceAll advances every owned trail by dt seconds.
func (f *Field) AdvanceAll(dt float32, p *params.Params) {
	for i := range f.trails {
		Advance(&f.trails[i], dt, p)
	}
}

func (f *Field) newTrail(p *params.Params) Trail {
	pos := math.Vec3{
		X: f.sampleX(p.XSpreadGap, p.XSpread/2),
		Y: f.centered(p.YSpread),
		Z: f.centered(p.ZSpread),
	}
	return Trail{
		Position: pos,
		Length:   f.rng.Float32() * p.TrailLength,
		Opacity:  Opacity(pos.Z),
	}
}

// sampleX draws uniformly from [-half, -gap] ∪ [gap, half].
// The caller guarantees gap < half.
func (f *Field) sampleX(gap, half float32) float32 {
	if gap < 0 {
		gap = 0
	}
	x := gap + f.rng.Float32()*(half-gap)
	if f.rng.Intn(2) == 0 {
		return -x
	}
	return x
}

// centered draws uniformly from [-spread/2, spread/2].
func (f *Field) centered(spread float32) float32 {
	return (f.rng.Float32() - 0.5) * spread
}
