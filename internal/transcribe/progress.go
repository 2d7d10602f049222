package transcribe

import (
	"math/rand/v2"
	"time"
)

const (
	// ProgressCeiling is the highest estimate shown while a job is outstanding.
	// Estimates stay strictly below 95 until the call resolves.
	ProgressCeiling = 94.0

	// DefaultTickInterval is how often the estimate advances.
	DefaultTickInterval = 400 * time.Millisecond

	// minStep keeps every increment positive even when the random source
	// returns zero.
	minStep = 0.1
	maxStep = 5.0
)

// Estimator produces the accelerating, clamped progress estimate for one job.
// The increment grows each tick, so the bar moves quickly early and then sits
// near the ceiling until the service answers.
type Estimator struct {
	value    float64
	velocity float64
	rnd      func() float64
}

// NewEstimator returns an estimator starting at 0. rnd must return values in
// [0, 1); nil uses math/rand.
func NewEstimator(rnd func() float64) *Estimator {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Estimator{rnd: rnd}
}

// Value is the current estimate.
func (e *Estimator) Value() float64 { return e.value }

// Next advances the estimate by one tick and returns it.
func (e *Estimator) Next() float64 {
	r := e.rnd()
	if r < 0 {
		r = 0
	} else if r >= 1 {
		r = 1
	}
	e.velocity += minStep + r*maxStep
	e.value = min(e.value+e.velocity, ProgressCeiling)
	return e.value
}

// Reset returns the estimate to 0.
func (e *Estimator) Reset() {
	e.value = 0
	e.velocity = 0
}
