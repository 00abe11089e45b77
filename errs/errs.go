// Package errs defines the sentinel errors and structured warnings produced
// while decoding Campbell Scientific datalogger files.
//
// Fatal conditions are plain sentinel errors, meant to be tested with
// errors.Is after being wrapped with additional context via fmt.Errorf's
// %w verb. Non-fatal conditions (truncation, clock drift) are reported as
// Warning values so callers can inspect the offending data instead of
// parsing a message string.
package errs

import "errors"

// Fatal sentinel errors. Each aborts header construction or frame
// iteration; any chunks already emitted before the error remain valid.
var (
	// ErrMalformedHeader is returned when one of the six ASCII header lines
	// fails to split into the fields its line number requires.
	ErrMalformedHeader = errors.New("cstob: malformed ASCII header line")

	// ErrUnsupportedFormat is returned for an unrecognised fmt token, or for
	// fmt = TOB1, whose frame header layout is not implemented upstream.
	ErrUnsupportedFormat = errors.New("cstob: unsupported or unimplemented format")

	// ErrUnknownDtype is returned when a column's dtype name is absent from
	// the type registry and does not have the ASCII(n) shape.
	ErrUnknownDtype = errors.New("cstob: unknown dtype")

	// ErrUnsupportedInterval is returned when the interval line's unit token
	// is outside the recognised vocabulary (MSEC, MIN).
	ErrUnsupportedInterval = errors.New("cstob: unsupported interval unit")

	// ErrSchemaMismatch is returned when frame_data_size is not an integer
	// multiple of the schema's row_stride.
	ErrSchemaMismatch = errors.New("cstob: frame data size is not a multiple of row stride")

	// ErrEndOfStream signals a clean, frame-boundary-aligned end of input.
	// It terminates the frame loop without error to the caller; any
	// accumulated rows are flushed as a final chunk.
	ErrEndOfStream = errors.New("cstob: end of stream")

	// ErrTruncatedFrame signals a short read in the middle of a frame. The
	// partial frame is discarded; previously decoded frames remain valid.
	ErrTruncatedFrame = errors.New("cstob: truncated frame")
)

// Kind identifies the category of a non-fatal Warning.
type Kind uint8

const (
	// KindTruncatedFrame marks a warning raised when a frame's data region
	// or footer could not be read in full.
	KindTruncatedFrame Kind = iota + 1
	// KindClockDrift marks a warning raised when the datalogger's reported
	// clock diverges from the reference clock beyond the configured policy
	// threshold.
	KindClockDrift
)

func (k Kind) String() string {
	switch k {
	case KindTruncatedFrame:
		return "TruncatedFrame"
	case KindClockDrift:
		return "ClockDrift"
	default:
		return "Unknown"
	}
}

// Warning is a structured, non-fatal condition encountered while decoding.
// It carries the offending values so a caller can act on them without
// resorting to string parsing.
type Warning struct {
	Kind    Kind
	Message string
	Values  map[string]any
}

// Error implements the error interface so a Warning can be passed anywhere
// an error is expected (e.g. wrapped into a fatal return with %w), while
// still being recoverable via errors.As for its structured fields.
func (w Warning) Error() string {
	return w.Message
}

// NewTruncatedFrameWarning builds a Warning for a frame that could not be
// fully read, recording how many bytes were expected and how many were
// actually read.
func NewTruncatedFrameWarning(frameIndex, expected, got int) Warning {
	return Warning{
		Kind:    KindTruncatedFrame,
		Message: "truncated frame: short read inside frame",
		Values: map[string]any{
			"frame_index": frameIndex,
			"expected":    expected,
			"got":         got,
		},
	}
}

// NewClockDriftWarning builds a Warning recording the reported and expected
// clock values and the policy threshold that was exceeded.
func NewClockDriftWarning(reported, expected int64, thresholdNanos int64) Warning {
	return Warning{
		Kind:    KindClockDrift,
		Message: "clock drift: reported clock diverges from reference clock beyond policy threshold",
		Values: map[string]any{
			"reported_unix_nanos": reported,
			"expected_unix_nanos": expected,
			"threshold_nanos":     thresholdNanos,
		},
	}
}
