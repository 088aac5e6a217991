// Package clipio reads and writes animation clips: named sets of keyframed
// channels stored as YAML or JSON.
package clipio

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-keyframe-reducer/internal/engine"
)

// ErrInvalidClip indicates a clip that fails validation.
var ErrInvalidClip = errors.New("invalid clip")

// Property names with special reduction modes.
const (
	activeProperty   = "m_IsActive"
	rotationFragment = "Rotation"
)

// Clip is a named set of animation channels.
type Clip struct {
	Name string `json:"name" yaml:"name"`

	// SampleStep is the interval the clip was authored at, in seconds.
	// Zero means unknown.
	SampleStep float32 `json:"sample_step,omitempty" yaml:"sample_step,omitempty"`

	Channels []Channel `json:"channels" yaml:"channels"`
}

// Channel is one animated property of an object in the clip.
type Channel struct {
	// Path locates the animated object, e.g. "Armature/Hips/Spine".
	Path string `json:"path" yaml:"path"`

	// Property is the animated property, e.g. "localEulerAnglesRaw.x".
	Property string `json:"property" yaml:"property"`

	// Mode overrides the reduction mode. Empty means ModeForProperty.
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	Keys []engine.Keyframe `json:"keys" yaml:"keys"`
}

// ID returns "path/property", or the property alone for root channels.
func (c *Channel) ID() string {
	if c.Path == "" {
		return c.Property
	}
	return c.Path + "/" + c.Property
}

// ResolveMode returns the explicit mode if set, otherwise the mode derived
// from the property name.
func (c *Channel) ResolveMode() (engine.Mode, error) {
	if c.Mode == "" {
		return ModeForProperty(c.Property), nil
	}
	return engine.ParseMode(c.Mode)
}

// ModeForProperty picks a reduction mode from a property name: activity flags
// are Discrete, rotations are Radian and everything else is Smooth.
func ModeForProperty(property string) engine.Mode {
	switch {
	case property == activeProperty:
		return engine.Discrete
	case strings.Contains(property, rotationFragment):
		return engine.Radian
	default:
		return engine.Smooth
	}
}

// Validate checks that every channel is named, has a known mode and has
// finite keys in strictly increasing time order.
func (c *Clip) Validate() error {
	if s := float64(c.SampleStep); math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return fmt.Errorf("%w: sample step %v", ErrInvalidClip, c.SampleStep)
	}

	seen := make(map[string]struct{}, len(c.Channels))
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Property == "" {
			return fmt.Errorf("%w: channel %d has no property", ErrInvalidClip, i)
		}
		id := ch.ID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate channel %q", ErrInvalidClip, id)
		}
		seen[id] = struct{}{}

		if _, err := ch.ResolveMode(); err != nil {
			return fmt.Errorf("%w: channel %q: %w", ErrInvalidClip, id, err)
		}
		if err := validateKeys(ch.Keys); err != nil {
			return fmt.Errorf("%w: channel %q: %w", ErrInvalidClip, id, err)
		}
	}
	return nil
}

func validateKeys(keys []engine.Keyframe) error {
	for i, k := range keys {
		for _, f := range [...]float32{k.Time, k.Value, k.InTangent, k.OutTangent} {
			if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
				return fmt.Errorf("key %d is not finite", i)
			}
		}
		if i > 0 && k.Time <= keys[i-1].Time {
			return fmt.Errorf("key %d at t=%v does not follow t=%v", i, k.Time, keys[i-1].Time)
		}
	}
	return nil
}
