package feed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for whole-record rejection. Zone and date failures are
// not errors; they degrade the field to absent.
var (
	// ErrMalformedRecord marks a line that cannot be decomposed into the
	// expected fields.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrOutOfScope marks a record whose other-id field is populated.
	// Such records belong to a different transaction type and are
	// discarded before validation.
	ErrOutOfScope = errors.New("record out of scope")
)

// dateLayout is the FEC transaction date format (MMDDYYYY).
const dateLayout = "01022006"

// Layout describes where the relevant fields sit in a delimited line.
type Layout struct {
	Delimiter string

	// Positional field indexes.
	Recipient int
	Zone      int
	Date      int
	Amount    int
	OtherID   int
}

// DefaultLayout returns the FEC individual-contribution layout.
func DefaultLayout() Layout {
	return Layout{
		Delimiter: "|",
		Recipient: 0,
		Zone:      10,
		Date:      13,
		Amount:    14,
		OtherID:   15,
	}
}

// minFields returns the field count a line must have for the mandatory
// fields to be addressable.
func (l Layout) minFields() int {
	n := l.Recipient
	if l.Zone > n {
		n = l.Zone
	}
	if l.Date > n {
		n = l.Date
	}
	if l.Amount > n {
		n = l.Amount
	}
	return n + 1
}

// Parser parses raw contribution lines according to a Layout.
type Parser struct {
	layout    Layout
	minFields int
}

// NewParser creates a Parser for the given layout.
func NewParser(layout Layout) *Parser {
	if layout.Delimiter == "" {
		layout.Delimiter = "|"
	}
	return &Parser{layout: layout, minFields: layout.minFields()}
}

// Parse decomposes one raw line into a Contribution.
//
// It returns ErrOutOfScope when the other-id field is populated, and
// ErrMalformedRecord when a mandatory field is missing or unusable. Zone
// and date failures never reject the record; the field is reported absent.
func (p *Parser) Parse(line string) (*Contribution, error) {
	fields := strings.Split(line, p.layout.Delimiter)

	if len(fields) > p.layout.OtherID && fields[p.layout.OtherID] != "" {
		return nil, ErrOutOfScope
	}

	if len(fields) < p.minFields {
		return nil, fmt.Errorf("%w: %d fields, need %d", ErrMalformedRecord, len(fields), p.minFields)
	}

	recipient := fields[p.layout.Recipient]
	if recipient == "" {
		return nil, fmt.Errorf("%w: empty recipient id", ErrMalformedRecord)
	}

	amount, err := strconv.ParseFloat(fields[p.layout.Amount], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad amount %q", ErrMalformedRecord, fields[p.layout.Amount])
	}

	c := &Contribution{
		RecipientID: recipient,
		AmountCents: amount * 100,
	}

	if zone, ok := validateZone(fields[p.layout.Zone]); ok {
		c.Zone = zone
		c.HasZone = true
	}

	if date, ok := validateDate(fields[p.layout.Date]); ok {
		c.DateStr = fields[p.layout.Date]
		c.Date = date
		c.HasDate = true
	}

	return c, nil
}

// validateZone normalizes a raw zone field to its 5-digit form.
// Longer zones (zip+4 and beyond) are truncated to the first 5 digits;
// shorter or non-positive zones are rejected.
func validateZone(raw string) (string, bool) {
	if len(raw) < 5 {
		return "", false
	}
	zone := raw[:5]
	n, err := strconv.Atoi(zone)
	if err != nil || n <= 0 {
		return "", false
	}
	return zone, true
}

// validateDate checks the MMDDYYYY shape and ranges before handing the
// string to the calendar parser, so impossible dates are rejected rather
// than leniently adjusted.
func validateDate(raw string) (time.Time, bool) {
	if len(raw) != 8 {
		return time.Time{}, false
	}
	m, errM := strconv.Atoi(raw[0:2])
	d, errD := strconv.Atoi(raw[2:4])
	y, errY := strconv.Atoi(raw[4:8])
	if errM != nil || errD != nil || errY != nil {
		return time.Time{}, false
	}
	if y <= 0 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
