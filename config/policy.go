// Package config holds the decode-time policy knobs that have no single
// correct default: NSEC millisecond truncation and the reference/reported
// clock-drift correction threshold.
package config

import (
	"github.com/xyproto/env/v2"

	"github.com/afoxland/cstob/internal/options"
)

// Policy configures a stream.Reader's clock reconciliation and NSEC
// decoding behaviour. The value returned by Default matches the reference
// implementation: NSEC truncated to milliseconds, clock-drift correction
// disabled.
type Policy struct {
	TruncateNSECToMillis bool

	// ClockDriftEnabled, when true, resets reference_clock to
	// reported_clock and emits a warning when reported_clock differs from
	// the previous frame's reference start by more than
	// ClockDriftThreshold * frame_duration * frames_seen.
	ClockDriftEnabled   bool
	ClockDriftThreshold float64
}

// Option configures a Policy via New.
type Option = options.Option[*Policy]

// Default returns the reference-compatible policy.
func Default() Policy {
	return Policy{
		TruncateNSECToMillis: true,
		ClockDriftEnabled:    false,
		ClockDriftThreshold:  1.1,
	}
}

// New builds a Policy starting from Default and applying opts in order.
func New(opts ...Option) (Policy, error) {
	p := Default()
	if err := options.Apply(&p, opts...); err != nil {
		return Policy{}, err
	}

	return p, nil
}

// WithNSECMillisecondTruncation enables or disables quantising NSEC's
// nanosecond component to whole milliseconds.
func WithNSECMillisecondTruncation(enabled bool) Option {
	return options.NoError(func(p *Policy) {
		p.TruncateNSECToMillis = enabled
	})
}

// WithClockDriftPolicy enables or disables reference/reported clock
// reconciliation and sets its threshold multiplier.
func WithClockDriftPolicy(enabled bool, threshold float64) Option {
	return options.NoError(func(p *Policy) {
		p.ClockDriftEnabled = enabled
		p.ClockDriftThreshold = threshold
	})
}

// Environment variable names read by FromEnv.
const (
	EnvClockDriftEnabled   = "CSTOB_CLOCK_DRIFT_ENABLED"
	EnvClockDriftThreshold = "CSTOB_CLOCK_DRIFT_THRESHOLD"
	EnvNSECTruncateMillis  = "CSTOB_NSEC_TRUNCATE_MS"
)

// FromEnv builds a Policy from Default, overridden by any of
// CSTOB_CLOCK_DRIFT_ENABLED, CSTOB_CLOCK_DRIFT_THRESHOLD, and
// CSTOB_NSEC_TRUNCATE_MS present in the environment.
func FromEnv() Policy {
	p := Default()
	p.ClockDriftEnabled = env.Bool(EnvClockDriftEnabled)
	if v := env.Float64(EnvClockDriftThreshold); v != 0 {
		p.ClockDriftThreshold = v
	}
	if env.Has(EnvNSECTruncateMillis) {
		p.TruncateNSECToMillis = env.Bool(EnvNSECTruncateMillis)
	}

	return p
}
