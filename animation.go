package main

import (
	"time"
)

// DefaultFadeDuration is how long a window takes to fade in or out.
const DefaultFadeDuration = 250 * time.Millisecond

const animFade = "fade"

// Animation interpolates a scalar linearly between two values. It is
// immutable once created.
type Animation struct {
	Start    time.Time
	Duration time.Duration
	From, To float64
}

// NewAnimation creates an Animation starting at now. A zero duration is
// valid and resolves immediately to the end value.
func NewAnimation(now time.Time, from, to float64, d time.Duration) Animation {
	if d < 0 {
		d = 0
	}
	return Animation{Start: now, Duration: d, From: from, To: to}
}

// Value returns the interpolated value at now, clamped to [From, To].
func (a Animation) Value(now time.Time) float64 {
	elapsed := now.Sub(a.Start)
	if elapsed >= a.Duration {
		return a.To
	}
	if elapsed <= 0 {
		return a.From
	}
	progress := elapsed.Seconds() / a.Duration.Seconds()
	return a.From + (a.To-a.From)*progress
}

// Done reports whether the animation has reached its end value.
func (a Animation) Done(now time.Time) bool {
	return !now.Before(a.Start.Add(a.Duration))
}

// AnimationState is the presentation state of one window.
type AnimationState struct {
	Alpha float64
	// Scale is reserved; always 1.
	Scale      float64
	Animations map[string]Animation
}

func newAnimationState() *AnimationState {
	return &AnimationState{
		Alpha:      1,
		Scale:      1,
		Animations: map[string]Animation{},
	}
}

// Animator drives per-window presentation animations. Windows without
// state are opaque.
type Animator struct {
	states map[SurfaceID]*AnimationState
	fade   time.Duration
	now    func() time.Time
}

// NewAnimator creates an Animator using clock (time.Now if nil) and the
// given fade duration.
func NewAnimator(clock func() time.Time, fade time.Duration) *Animator {
	if clock == nil {
		clock = time.Now
	}
	return &Animator{
		states: map[SurfaceID]*AnimationState{},
		fade:   fade,
		now:    clock,
	}
}

func (a *Animator) state(id SurfaceID) *AnimationState {
	s, ok := a.states[id]
	if !ok {
		s = newAnimationState()
		a.states[id] = s
	}
	return s
}

func (a *Animator) startFade(id SurfaceID, from, to float64) {
	s := a.state(id)
	s.Animations[animFade] = NewAnimation(a.now(), from, to, a.fade)
	s.Alpha = from
}

// StartFadeIn replaces any fade on the window with a 0 to 1 transition.
func (a *Animator) StartFadeIn(id SurfaceID) { a.startFade(id, 0, 1) }

// StartFadeOut replaces any fade on the window with a 1 to 0 transition.
func (a *Animator) StartFadeOut(id SurfaceID) { a.startFade(id, 1, 0) }

// Tick advances every animation to the current time. It is called once
// per rendered frame.
func (a *Animator) Tick() {
	now := a.now()
	for _, s := range a.states {
		if anim, ok := s.Animations[animFade]; ok {
			s.Alpha = anim.Value(now)
		}
		for name, anim := range s.Animations {
			if anim.Done(now) {
				delete(s.Animations, name)
			}
		}
	}
}

// Alpha returns the window's current opacity.
func (a *Animator) Alpha(id SurfaceID) float64 {
	if s, ok := a.states[id]; ok {
		return s.Alpha
	}
	return 1
}

// Animating reports whether the window has an unfinished animation.
func (a *Animator) Animating(id SurfaceID) bool {
	s, ok := a.states[id]
	return ok && len(s.Animations) > 0
}

// Forget drops all state for a window that no longer exists.
func (a *Animator) Forget(id SurfaceID) {
	delete(a.states, id)
}
