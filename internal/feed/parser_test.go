package feed

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// buildLine assembles a 21-field FEC-style line with the given values in
// the fields the parser cares about.
func buildLine(recipient, zone, date, amount, otherID string) string {
	fields := make([]string, 21)
	fields[0] = recipient
	fields[10] = zone
	fields[13] = date
	fields[14] = amount
	fields[15] = otherID
	return strings.Join(fields, "|")
}

func TestParser_ValidRecord(t *testing.T) {
	p := NewParser(DefaultLayout())

	c, err := p.Parse(buildLine("C00177436", "30004", "01312017", "384", ""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.RecipientID != "C00177436" {
		t.Errorf("expected recipient C00177436, got %q", c.RecipientID)
	}
	if !c.HasZone || c.Zone != "30004" {
		t.Errorf("expected zone 30004, got %q (has=%v)", c.Zone, c.HasZone)
	}
	if !c.HasDate || c.DateStr != "01312017" {
		t.Errorf("expected date 01312017, got %q (has=%v)", c.DateStr, c.HasDate)
	}
	if want := time.Date(2017, time.January, 31, 0, 0, 0, 0, time.UTC); !c.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, c.Date)
	}
	if c.AmountCents != 38400 {
		t.Errorf("expected 38400 cents, got %f", c.AmountCents)
	}
}

func TestParser_OtherIDRejectsRecord(t *testing.T) {
	p := NewParser(DefaultLayout())

	_, err := p.Parse(buildLine("C00177436", "30004", "01312017", "384", "H6CA34245"))
	if !errors.Is(err, ErrOutOfScope) {
		t.Fatalf("expected ErrOutOfScope, got %v", err)
	}
}

func TestParser_StructuralFailures(t *testing.T) {
	p := NewParser(DefaultLayout())

	tests := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"too few fields", "C00177436|30004|01312017"},
		{"empty recipient", buildLine("", "30004", "01312017", "384", "")},
		{"bad amount", buildLine("C00177436", "30004", "01312017", "x384", "")},
		{"empty amount", buildLine("C00177436", "30004", "01312017", "", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Parse(tt.line); !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestParser_ZoneDegradation(t *testing.T) {
	p := NewParser(DefaultLayout())

	tests := []struct {
		name     string
		zone     string
		wantZone string
		wantHas  bool
	}{
		{"five digits", "30004", "30004", true},
		{"zip plus four", "300042145", "30004", true},
		{"too short", "3000", "", false},
		{"empty", "", "", false},
		{"non-numeric", "3OOO4", "", false},
		{"zero", "00000", "", false},
		{"long non-numeric tail kept out", "30004xxxx", "30004", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := p.Parse(buildLine("C00177436", tt.zone, "01312017", "384", ""))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if c.HasZone != tt.wantHas || c.Zone != tt.wantZone {
				t.Errorf("zone %q: expected (%q, %v), got (%q, %v)",
					tt.zone, tt.wantZone, tt.wantHas, c.Zone, c.HasZone)
			}
			// A degraded zone never rejects the record.
			if !c.HasDate {
				t.Error("date should be unaffected by zone validation")
			}
		})
	}
}

func TestParser_DateDegradation(t *testing.T) {
	p := NewParser(DefaultLayout())

	tests := []struct {
		name    string
		date    string
		wantHas bool
	}{
		{"valid", "01312017", true},
		{"too short", "0131201", false},
		{"too long", "013120170", false},
		{"empty", "", false},
		{"month zero", "00312017", false},
		{"month thirteen", "13012017", false},
		{"day zero", "01002017", false},
		{"day thirty-two", "01322017", false},
		{"year zero", "01310000", false},
		{"non-numeric", "01a12017", false},
		{"impossible calendar date", "02302017", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := p.Parse(buildLine("C00177436", "30004", tt.date, "384", ""))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if c.HasDate != tt.wantHas {
				t.Errorf("date %q: expected has=%v, got %v", tt.date, tt.wantHas, c.HasDate)
			}
			if !c.HasZone {
				t.Error("zone should be unaffected by date validation")
			}
		})
	}
}

func TestParser_BothFieldsAbsent(t *testing.T) {
	p := NewParser(DefaultLayout())

	c, err := p.Parse(buildLine("C00177436", "", "", "384", ""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.HasZone || c.HasDate {
		t.Errorf("expected both fields absent, got zone=%v date=%v", c.HasZone, c.HasDate)
	}
}

func TestParser_CustomLayout(t *testing.T) {
	p := NewParser(Layout{
		Delimiter: ";",
		Recipient: 1,
		Zone:      2,
		Date:      3,
		Amount:    0,
		OtherID:   4,
	})

	c, err := p.Parse("250.50;C001;10001;01152017;")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.RecipientID != "C001" || c.Zone != "10001" || c.AmountCents != 25050 {
		t.Errorf("unexpected record: %+v", c)
	}
}
