package registry

import "time"

// nsecEpoch is the Campbell Scientific NSEC epoch: 1990-01-01T00:00:00 UTC.
var nsecEpoch = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

const nsecMillisecond = int64(time.Millisecond)

// registerProprietary populates NSEC/SecNano and FP2, both scalar-only.
func (r *Registry) registerProprietary() {
	nsec := Descriptor{
		Name:   "NSEC",
		Width:  8,
		Kind:   KindTimestamp,
		Native: false,
		DecodeScalar: func(b []byte) (any, error) {
			return r.decodeNSEC(b), nil
		},
	}
	r.register(nsec)
	secNano := nsec
	secNano.Name = "SecNano"
	r.register(secNano)

	r.register(Descriptor{
		Name:   "FP2",
		Width:  2,
		Kind:   KindFloat64,
		Native: false,
		DecodeScalar: func(b []byte) (any, error) {
			return DecodeFP2(b), nil
		},
	})
}

// decodeNSEC decodes Campbell's proprietary 8-byte instant: two
// little-endian uint32 words, seconds-since-epoch then nanoseconds-into-
// second.
//
// For bit-exact compatibility with the reference implementation, the
// nanosecond component is truncated to whole milliseconds when the
// registry's NSEC truncation policy is enabled (the default). See
// config.WithNSECMillisecondTruncation to disable it.
func (r *Registry) decodeNSEC(b []byte) time.Time {
	s := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	ns := uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24

	nanos := int64(ns)
	if r.truncateNSECToMillis {
		nanos = (nanos / nsecMillisecond) * nsecMillisecond
	}

	return nsecEpoch.Add(time.Duration(int64(s)*int64(time.Second) + nanos))
}

// SetNSECTruncation enables or disables millisecond quantisation of the
// NSEC nanosecond component. It is enabled by default to match the
// reference datalogger's precision; see DESIGN.md, "Open Question
// decisions", item 2.
func (r *Registry) SetNSECTruncation(enabled bool) {
	r.truncateNSECToMillis = enabled
}
