// Package format dispatches per-format frame layout: header and footer
// sizes, and how to decode a frame header into a reported clock instant
// and, for TOB3, a starting record number.
package format

import "github.com/afoxland/cstob/registry"

// Format identifies which of the four Campbell Scientific file formats a
// stream carries.
type Format uint8

const (
	TOB1 Format = iota + 1
	TOB2
	TOB3
	TOA5
)

func (f Format) String() string {
	switch f {
	case TOB1:
		return "TOB1"
	case TOB2:
		return "TOB2"
	case TOB3:
		return "TOB3"
	case TOA5:
		return "TOA5"
	default:
		return "Unknown"
	}
}

// Parse maps the "fmt" token from a file's first ASCII header line to a
// Format. An unrecognised token reports ok = false.
func Parse(token string) (f Format, ok bool) {
	switch token {
	case "TOB1":
		return TOB1, true
	case "TOB2":
		return TOB2, true
	case "TOB3":
		return TOB3, true
	case "TOA5":
		return TOA5, true
	default:
		return 0, false
	}
}

// Handler is the per-format capability set: frame header/footer sizes and
// how to decode a header into a reported clock (and, for TOB3, a starting
// record number).
type Handler interface {
	HeaderSize() int
	FooterSize() int

	// ParseHeader decodes exactly HeaderSize() bytes of a frame header.
	// recnum is nil for formats that don't carry one.
	ParseHeader(b []byte) (clock Header, err error)

	// ParseFooter validates exactly FooterSize() bytes of a frame footer.
	// None of the four formats currently place meaningful data in the
	// footer; it exists to read past and discard those bytes.
	ParseFooter(b []byte) error
}

// HandlerFor returns the Handler for f, constructed against r for NSEC
// decoding. It panics for an invalid Format value, since Format is meant
// to always originate from Parse or a registry.Kind-style closed set.
func HandlerFor(f Format, r *registry.Registry) Handler {
	switch f {
	case TOB1:
		return tob1Handler{}
	case TOB2:
		return tob2Handler{r: r}
	case TOB3:
		return tob3Handler{r: r}
	case TOA5:
		return toa5Handler{}
	default:
		panic("format: invalid Format value")
	}
}
