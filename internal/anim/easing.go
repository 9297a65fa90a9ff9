package anim

import "math"

// EasingFunc maps linear progress [0,1] to eased progress [0,1].
type EasingFunc func(t float64) float64

var (
	// Linear has constant speed.
	Linear EasingFunc = func(t float64) float64 { return t }

	// EaseInSine starts slow and accelerates. Used for minimize.
	EaseInSine EasingFunc = func(t float64) float64 {
		return 1 - math.Cos(t*math.Pi/2)
	}

	// EaseOutQuad starts fast and decelerates. Used for map and destroy.
	EaseOutQuad EasingFunc = func(t float64) float64 {
		return t * (2 - t)
	}

	// EaseInOutQuad accelerates then decelerates.
	EaseInOutQuad EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}

	// EaseOutCubic is a stronger deceleration.
	EaseOutCubic EasingFunc = func(t float64) float64 {
		t1 := t - 1
		return t1*t1*t1 + 1
	}

	// Smoothstep is a symmetric S-curve.
	Smoothstep EasingFunc = func(t float64) float64 {
		return t * t * (3 - 2*t)
	}
)

// EasingByName returns a named easing, falling back to Linear.
func EasingByName(name string) EasingFunc {
	switch name {
	case "ease-in-sine":
		return EaseInSine
	case "ease-out-quad":
		return EaseOutQuad
	case "ease-in-out-quad":
		return EaseInOutQuad
	case "ease-out-cubic":
		return EaseOutCubic
	case "smoothstep":
		return Smoothstep
	default:
		return Linear
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
