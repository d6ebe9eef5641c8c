// Package proactive implements the probabilistic proactive-message path:
// a time-banded lottery decided on each scheduled tick, and a delayed task
// queue submission for accepted ticks.
package proactive

import (
	"math/rand/v2"
	"time"
)

// Policy holds the lottery bands and thresholds. Bands are product policy,
// not mechanism, and come from configuration.
type Policy struct {
	// QuietFrom..QuietThrough is an inclusive hour range that always rejects.
	QuietFrom    int
	QuietThrough int
	// HighHours accept draws up to HighThreshold.
	HighHours     []int
	HighThreshold int
	// Every other hour accepts draws up to BaseThreshold.
	BaseThreshold int
}

// Decision is the outcome of one lottery tick. It is derived fresh each tick
// and never stored.
type Decision struct {
	Hour     int
	Draw     int
	Accepted bool
}

// Decide applies the time-banded acceptance policy to the local hour of now
// and a uniform draw in [1,100].
func (p Policy) Decide(now time.Time, draw int) Decision {
	hour := now.Hour()
	d := Decision{Hour: hour, Draw: draw}

	if hour >= p.QuietFrom && hour <= p.QuietThrough {
		return d
	}
	for _, h := range p.HighHours {
		if hour == h {
			d.Accepted = draw <= p.HighThreshold
			return d
		}
	}
	d.Accepted = draw <= p.BaseThreshold
	return d
}

// UniformDraw returns a uniform random integer in [1,100].
func UniformDraw() int {
	return rand.IntN(100) + 1
}

// UniformDelay returns a uniform random whole-minute delay in [0,59] minutes.
func UniformDelay() time.Duration {
	return time.Duration(rand.IntN(60)) * time.Minute
}
