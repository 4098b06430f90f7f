// Package creature drives the loaded model: a default idle animation, a
// tumble animation toggled by the user, and a timed correction that returns
// the root to its upright orientation when tumbling stops.
package creature

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/anim"
	"github.com/Faultbox/windmoth/internal/logger"
	"github.com/Faultbox/windmoth/internal/tween"
	"github.com/Faultbox/windmoth/pkg/math"
)

// Phase is the observable controller state.
type Phase int

const (
	// NormalIdle plays the default animation.
	NormalIdle Phase = iota
	// NormalCorrecting rotates the root back to identity; no mixer runs.
	NormalCorrecting
	// Tumbling plays the tumble animation.
	Tumbling
)

func (p Phase) String() string {
	switch p {
	case NormalIdle:
		return "normal"
	case NormalCorrecting:
		return "correcting"
	case Tumbling:
		return "tumbling"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// DefaultTumbleClips are the clip names that belong to the tumble animation.
var DefaultTumbleClips = []string{"Key.002Action", "CNTRL_Action"}

// DefaultSmoothing is how long the root takes to return upright.
const DefaultSmoothing = 500 * time.Millisecond

// Options configures a Controller.
type Options struct {
	TumbleClips []string
	Smoothing   time.Duration
}

// DefaultOptions returns the stock clip partition and smoothing time.
func DefaultOptions() Options {
	return Options{
		TumbleClips: slices.Clone(DefaultTumbleClips),
		Smoothing:   DefaultSmoothing,
	}
}

// Controller switches the model between its default and tumble animations.
// It is owned by the render thread and is not safe for concurrent use.
type Controller struct {
	pose *anim.Pose
	root int

	normal *anim.Mixer
	tumble *anim.Mixer

	tumbling   bool
	correction *tween.Rotation // non-nil while correcting
	smoothing  time.Duration

	log *zap.Logger
}

// PartitionClips splits clips into the default set and the tumble set by name.
func PartitionClips(clips []*anim.Clip, tumbleNames []string) (normal, tumble []*anim.Clip) {
	for _, c := range clips {
		if slices.Contains(tumbleNames, c.Name) {
			tumble = append(tumble, c)
		} else {
			normal = append(normal, c)
		}
	}
	return normal, tumble
}

// New builds a controller over pose. Every clip starts playing on its mixer.
// root is the index of the node the correction rotates.
func New(pose *anim.Pose, clips []*anim.Clip, root int, opts Options) (*Controller, error) {
	if root < 0 || root >= len(pose.Nodes) {
		return nil, fmt.Errorf("root node %d out of range (%d nodes)", root, len(pose.Nodes))
	}
	if opts.TumbleClips == nil {
		opts.TumbleClips = DefaultTumbleClips
	}
	if opts.Smoothing <= 0 {
		opts.Smoothing = DefaultSmoothing
	}

	c := &Controller{
		pose:      pose,
		root:      root,
		normal:    anim.NewMixer(pose),
		tumble:    anim.NewMixer(pose),
		smoothing: opts.Smoothing,
		log:       logger.Named("creature"),
	}

	normalClips, tumbleClips := PartitionClips(clips, opts.TumbleClips)
	for _, clip := range normalClips {
		c.normal.Play(clip)
	}
	for _, clip := range tumbleClips {
		c.tumble.Play(clip)
	}
	c.tumble.TimeScale = 0

	c.log.Debug("controller ready",
		zap.Int("defaultClips", len(normalClips)),
		zap.Int("tumbleClips", len(tumbleClips)),
		zap.Int("root", root))
	return c, nil
}

// Phase reports the current state.
func (c *Controller) Phase() Phase {
	switch {
	case c.tumbling:
		return Tumbling
	case c.correction != nil:
		return NormalCorrecting
	default:
		return NormalIdle
	}
}

// Pose returns the pose the controller animates.
func (c *Controller) Pose() *anim.Pose {
	return c.pose
}

// Root returns the index of the corrected node.
func (c *Controller) Root() int {
	return c.root
}

// Toggle switches between normal and tumbling. Toggling while the root is
// still being corrected goes straight back to tumbling and drops the
// correction. Mixer rates change here, not in Update.
func (c *Controller) Toggle() {
	if !c.tumbling {
		c.tumbling = true
		c.correction = nil
		c.normal.TimeScale = 0
		c.tumble.TimeScale = 1
		c.log.Debug("tumble start")
		return
	}

	c.tumbling = false
	c.tumble.TimeScale = 0
	c.correction = tween.NewRotation(c.pose.Rotation(c.root), math.QuatIdentity(), c.smoothing)
	c.log.Debug("tumble stop, correcting",
		zap.Duration("smoothing", c.smoothing))
}

// Update advances the active animation by dt seconds.
func (c *Controller) Update(dt float32) {
	switch c.Phase() {
	case Tumbling:
		c.tumble.Update(dt)

	case NormalCorrecting:
		c.pose.SetRotation(c.root, c.correction.Advance(dt))
		if c.correction.Done() {
			c.correction = nil
			c.normal.TimeScale = 1
			c.log.Debug("correction done")
		}

	case NormalIdle:
		c.normal.Update(dt)
	}
}

// TimeScales reports the default and tumble mixer time scales.
func (c *Controller) TimeScales() (normal, tumble float32) {
	return c.normal.TimeScale, c.tumble.TimeScale
}
