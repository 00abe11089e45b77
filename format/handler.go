package format

import (
	"fmt"
	"time"

	"github.com/afoxland/cstob/errs"
	"github.com/afoxland/cstob/registry"
)

// Header is the decoded content of one frame header: the datalogger's
// reported clock instant and, for TOB3 only, the frame's starting record
// number.
type Header struct {
	Clock  time.Time
	Recnum *uint32
}

type tob1Handler struct{}

func (tob1Handler) HeaderSize() int { return 8 }
func (tob1Handler) FooterSize() int { return 4 }

func (tob1Handler) ParseHeader(b []byte) (Header, error) {
	return Header{}, fmt.Errorf("%w: TOB1 frame header parsing", errs.ErrUnsupportedFormat)
}

func (tob1Handler) ParseFooter(b []byte) error {
	return fmt.Errorf("%w: TOB1 frame footer parsing", errs.ErrUnsupportedFormat)
}

type tob2Handler struct {
	r *registry.Registry
}

func (tob2Handler) HeaderSize() int { return 8 }
func (tob2Handler) FooterSize() int { return 4 }

func (h tob2Handler) ParseHeader(b []byte) (Header, error) {
	clock, err := decodeNSEC(h.r, b[0:8])
	if err != nil {
		return Header{}, err
	}

	return Header{Clock: clock}, nil
}

func (tob2Handler) ParseFooter(b []byte) error {
	return nil
}

type tob3Handler struct {
	r *registry.Registry
}

func (tob3Handler) HeaderSize() int { return 12 }
func (tob3Handler) FooterSize() int { return 4 }

func (h tob3Handler) ParseHeader(b []byte) (Header, error) {
	clock, err := decodeNSEC(h.r, b[0:8])
	if err != nil {
		return Header{}, err
	}

	d, err := h.r.Resolve("ULONG")
	if err != nil {
		return Header{}, err
	}

	v, err := d.DecodeScalar(b[8:12])
	if err != nil {
		return Header{}, err
	}

	recnum := v.(uint32)

	return Header{Clock: clock, Recnum: &recnum}, nil
}

func (tob3Handler) ParseFooter(b []byte) error {
	return nil
}

type toa5Handler struct{}

func (toa5Handler) HeaderSize() int { return 0 }
func (toa5Handler) FooterSize() int { return 0 }

func (toa5Handler) ParseHeader(b []byte) (Header, error) {
	return Header{}, nil
}

func (toa5Handler) ParseFooter(b []byte) error {
	return nil
}

func decodeNSEC(r *registry.Registry, b []byte) (time.Time, error) {
	d, err := r.Resolve("NSEC")
	if err != nil {
		return time.Time{}, err
	}

	v, err := d.DecodeScalar(b)
	if err != nil {
		return time.Time{}, err
	}

	return v.(time.Time), nil
}
