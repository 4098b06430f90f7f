package anim

import (
	gomath "math"
)

// Action plays one clip on a loop.
type Action struct {
	Clip *Clip
	Time float32
}

func (a *Action) advance(dt float32) {
	a.Time += dt
	d := a.Clip.Duration
	if d <= 0 {
		a.Time = 0
		return
	}
	if a.Time >= d || a.Time < 0 {
		a.Time = float32(gomath.Mod(float64(a.Time), float64(d)))
		if a.Time < 0 {
			a.Time += d
		}
	}
}

type target struct {
	node int
	path Path
}

// Mixer drives a pose from a set of looping actions. Actions that animate the
// same property share it equally.
type Mixer struct {
	// TimeScale multiplies the dt passed to Update; 0 freezes the mixer.
	TimeScale float32

	pose    *Pose
	actions []*Action
	counts  map[target]int
	scratch []float32
}

// NewMixer creates a mixer writing into pose.
func NewMixer(pose *Pose) *Mixer {
	return &Mixer{
		TimeScale: 1,
		pose:      pose,
		counts:    make(map[target]int),
	}
}

// Play starts a clip from time zero and returns its action.
func (m *Mixer) Play(clip *Clip) *Action {
	a := &Action{Clip: clip}
	m.actions = append(m.actions, a)
	return a
}

// Update advances every action by dt*TimeScale and writes the result into the pose.
func (m *Mixer) Update(dt float32) {
	step := dt * m.TimeScale
	clear(m.counts)

	for _, a := range m.actions {
		a.advance(step)
		for i := range a.Clip.Channels {
			ch := &a.Clip.Channels[i]
			if cap(m.scratch) < ch.Width {
				m.scratch = make([]float32, ch.Width)
			}
			v := m.scratch[:ch.Width]
			ch.Sample(a.Time, v)

			key := target{ch.Node, ch.Path}
			m.counts[key]++
			m.pose.apply(ch.Node, ch.Path, v, 1/float32(m.counts[key]))
		}
	}
}
