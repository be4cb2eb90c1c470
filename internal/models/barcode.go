package models

import (
	"fmt"
	"strings"
	"time"
)

// PayloadSentinel prefixes every generated payload.
const PayloadSentinel = "$$"

// MaxSegmentCount is the hard ceiling on either count of a request.
// Configured limits may be lower, never higher.
const MaxSegmentCount = 100_000

// Symbology identifies the barcode encoding used to render a payload
type Symbology string

const (
	Code128 Symbology = "code128"
	Code39  Symbology = "code39"
	QR      Symbology = "qr"
)

// Symbologies lists the supported symbologies in display order
func Symbologies() []Symbology {
	return []Symbology{Code128, Code39, QR}
}

// ParseSymbology accepts the canonical name in any letter case
func ParseSymbology(name string) (Symbology, error) {
	s := Symbology(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSymbology, name)
	}
	return s, nil
}

// Valid reports whether s is one of the supported symbologies
func (s Symbology) Valid() bool {
	for _, known := range Symbologies() {
		if s == known {
			return true
		}
	}
	return false
}

func (s Symbology) String() string {
	return string(s)
}

// DigitRange is an inclusive range of single base-10 digits
type DigitRange struct {
	Min int
	Max int
}

// Validate checks that both bounds are digits and ordered
func (r DigitRange) Validate() error {
	if r.Min < 0 || r.Max > 9 || r.Min > r.Max {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether d lies inside the range
func (r DigitRange) Contains(d int) bool {
	return d >= r.Min && d <= r.Max
}

func (r DigitRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Segment is a run of records sharing one digit range
type Segment struct {
	Count int
	Range DigitRange
}

// GenerationRequest carries the parameters of one "generate" action
type GenerationRequest struct {
	CountA    int
	CountB    int
	RangeA    DigitRange
	RangeB    DigitRange
	Symbology Symbology
	// ReferenceCodes is read-only for the lifetime of the run.
	ReferenceCodes []string
	// Directory is only consulted at export time.
	Directory string
	// BatchID names the resulting batch; the generator assigns one when empty.
	BatchID string
}

// Segments returns the ordered (count, range) pairs the generator walks
func (r GenerationRequest) Segments() []Segment {
	return []Segment{
		{Count: r.CountA, Range: r.RangeA},
		{Count: r.CountB, Range: r.RangeB},
	}
}

// Total returns the number of records the request produces
func (r GenerationRequest) Total() int {
	total := 0
	for _, seg := range r.Segments() {
		total += seg.Count
	}
	return total
}

// Validate checks the request before any record is produced
func (r GenerationRequest) Validate() error {
	for _, seg := range r.Segments() {
		if seg.Count < 0 || seg.Count > MaxSegmentCount {
			return fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidCount, seg.Count, MaxSegmentCount)
		}
		if err := seg.Range.Validate(); err != nil {
			return err
		}
	}
	if r.Total() == 0 {
		return ErrEmptyRequest
	}
	if !r.Symbology.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSymbology, r.Symbology)
	}
	if len(r.ReferenceCodes) == 0 {
		return ErrEmptyReferenceList
	}
	return nil
}

// BarcodeRecord is one generated barcode. It is never mutated after creation.
type BarcodeRecord struct {
	Payload       string
	ReferenceCode string
	Symbology     Symbology
	Image         []byte
}

// NewPayload builds the encoded string for two digits and a reference code
func NewPayload(first, second int, referenceCode string) string {
	return fmt.Sprintf("%s%d%d%s", PayloadSentinel, first, second, referenceCode)
}

// Digits returns the two random digits embedded in the payload
func (r BarcodeRecord) Digits() (int, int, bool) {
	p := strings.TrimPrefix(r.Payload, PayloadSentinel)
	if len(p) < 2 || p[0] < '0' || p[0] > '9' || p[1] < '0' || p[1] > '9' {
		return 0, 0, false
	}
	return int(p[0] - '0'), int(p[1] - '0'), true
}

// Caption is the preview label shown next to a thumbnail
func (r BarcodeRecord) Caption() string {
	return fmt.Sprintf("Barcode: %s - EAN: %s", r.Payload, r.ReferenceCode)
}

// Batch is the complete, successful result of one generation run
type Batch struct {
	ID          string
	Symbology   Symbology
	Records     []BarcodeRecord
	StartedAt   time.Time
	CompletedAt time.Time
}

// Duration returns how long the run took
func (b *Batch) Duration() time.Duration {
	return b.CompletedAt.Sub(b.StartedAt)
}
