package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

const (
	defaultDelayMin = 10
	defaultDelayMax = 45

	// maxDelaySeconds keeps Max+1 whole seconds representable as a
	// time.Duration.
	maxDelaySeconds = math.MaxInt64/1_000_000_000 - 1
)

// DefaultDelay is the pre-request wait range, in seconds, used when a call
// does not specify one.
var DefaultDelay = DelayRange{Min: defaultDelayMin, Max: defaultDelayMax}

// RandomSource supplies the random draws for request delays.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// globalRand draws from the math/rand/v2 top-level generator, which is safe
// for concurrent use and seeded per process.
type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DelayRange bounds a randomized pre-request wait, in whole seconds.
type DelayRange struct {
	Min int
	Max int
}

// IsZero reports whether both bounds are zero, meaning no wait at all.
func (d DelayRange) IsZero() bool {
	return d.Min == 0 && d.Max == 0
}

// Validate checks the bounds are non-negative, ordered and no larger than
// maxDelaySeconds.
func (d DelayRange) Validate() error {
	if d.IsZero() {
		return nil
	}
	if d.Min < 0 || d.Max < 0 || d.Min > d.Max {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidDelayRange, d.Min, d.Max)
	}
	if int64(d.Max) > maxDelaySeconds {
		return fmt.Errorf("%w: max=%d exceeds %d seconds", ErrInvalidDelayRange, d.Max, maxDelaySeconds)
	}
	return nil
}

// Draw picks the wait for one request: an integer number of seconds in
// [Min, Max] plus a fractional second in [0, 1). A zero range always yields
// exactly zero and does not touch r.
func (d DelayRange) Draw(r RandomSource) (time.Duration, error) {
	if d.IsZero() {
		return 0, nil
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	whole := d.Min + r.IntN(d.Max-d.Min+1)
	fraction := time.Duration(r.Float64() * float64(time.Second))
	return time.Duration(whole)*time.Second + fraction, nil
}

func (d DelayRange) String() string {
	return fmt.Sprintf("%d-%ds", d.Min, d.Max)
}
