package server

import (
	"context"
	"math"
	"time"
)

// SineWave is the telemetry signal source: a sine of wall-clock time.
// The value at any instant is a pure function of the clock, so every
// subscriber observes the same signal without shared state.
type SineWave struct {
	Amplitude float64
	Offset    float64
	Period    time.Duration
	Phase     float64 // radians
}

// DefaultSineWave returns the signal used for generator objects:
// unit amplitude, 10 second period.
func DefaultSineWave() SineWave {
	return SineWave{Amplitude: 1, Period: 10 * time.Second}
}

// Value returns the signal value at time t.
func (w SineWave) Value(t time.Time) float64 {
	period := w.Period
	if period <= 0 {
		period = 10 * time.Second
	}
	x := float64(t.UnixNano()) / float64(period.Nanoseconds())
	return w.Amplitude*math.Sin(2*math.Pi*x+w.Phase) + w.Offset
}

// Sample is one timestamped telemetry value as sent on the wire.
type Sample struct {
	T time.Time `json:"t"`
	V float64   `json:"v"`
}

// At returns the sample for time t.
func (w SineWave) At(t time.Time) Sample {
	return Sample{T: t, V: w.Value(t)}
}

// Stream emits one sample per interval tick until the context is
// cancelled or emit returns an error. The first sample is emitted
// immediately so subscribers see a row without waiting a full tick.
func (w SineWave) Stream(ctx context.Context, interval time.Duration, emit func(Sample) error) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if err := emit(w.At(time.Now())); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := emit(w.At(now)); err != nil {
				return err
			}
		}
	}
}
