package registry

import (
	"strings"
	"testing"
)

// buildLine lays fields out at the fixed registry offsets.
func buildLine(doc, name, addr1, addr2, officer string) string {
	var b strings.Builder
	pad := func(s string, upto int) {
		b.WriteString(s)
		if b.Len() < upto {
			b.WriteString(strings.Repeat(" ", upto-b.Len()))
		}
	}
	pad(doc, docNumberEnd)
	pad(name, nameEnd)
	pad(addr1, addr1End)
	pad(addr2, addr2End)
	pad("", officerWindowStart)
	pad(officer, officerWindowEnd)
	return b.String()
}

func TestParseLine_Full(t *testing.T) {
	line := buildLine(
		"L24000326550",
		"WOYUNTANG LLC",
		"123 MAIN ST",
		"SUITE 200 FT. LAUDERDALE FL33304",
		"MGR  MDOE-WILLIAMS          ALEXANDRIA           B   ",
	)

	rec, ok := ParseLine(line)
	if !ok {
		t.Fatal("expected line to parse")
	}

	if rec.DocNumber != "L24000326550" {
		t.Errorf("DocNumber = %q", rec.DocNumber)
	}
	if rec.CompanyName != "WOYUNTANG LLC" {
		t.Errorf("CompanyName = %q", rec.CompanyName)
	}
	if rec.City != "FT. LAUDERDALE" || rec.State != "FL" || rec.Zip != "33304" {
		t.Errorf("locality = %q/%q/%q", rec.City, rec.State, rec.Zip)
	}
	if rec.Address != "123 MAIN ST SUITE 200" {
		t.Errorf("Address = %q", rec.Address)
	}
	if rec.OfficerRole != "MGR" || rec.OfficerStatus != "M" {
		t.Errorf("officer role/status = %q/%q", rec.OfficerRole, rec.OfficerStatus)
	}
	if rec.OfficerLast != "DOE-WILLIAMS" || rec.OfficerFirst != "ALEXANDRIA" || rec.OfficerMiddle != "B" {
		t.Errorf("officer name = %q %q %q", rec.OfficerFirst, rec.OfficerMiddle, rec.OfficerLast)
	}
	if got := rec.OfficerFullName(); got != "ALEXANDRIA B DOE-WILLIAMS" {
		t.Errorf("OfficerFullName() = %q", got)
	}
	if got := rec.CityStateZip(); got != "FT. LAUDERDALE, FL, 33304" {
		t.Errorf("CityStateZip() = %q", got)
	}
}

func TestParseLine_MinimalFields(t *testing.T) {
	// Short line: only doc number and name, no address or officer block.
	rec, ok := ParseLine(buildLine("P12345", "ACME CORP", "", "", "")[:nameEnd])
	if !ok {
		t.Fatal("expected line to parse")
	}
	if rec.DocNumber != "P12345" || rec.CompanyName != "ACME CORP" {
		t.Errorf("got %q / %q", rec.DocNumber, rec.CompanyName)
	}
	if rec.OfficerFullName() != "" {
		t.Errorf("OfficerFullName() = %q, want empty", rec.OfficerFullName())
	}
	if rec.CityStateZip() != "" {
		t.Errorf("CityStateZip() = %q, want empty", rec.CityStateZip())
	}
}

func TestParseLine_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"blank", strings.Repeat(" ", 200)},
		{"missing name", buildLine("P12345", "", "", "", "")},
		{"missing doc", buildLine("", "ACME CORP", "", "", "")},
		{"doc only short", "P12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ParseLine(tt.line); ok {
				t.Error("expected line to be rejected")
			}
		})
	}
}

func TestParseLine_CityStateWithoutZip(t *testing.T) {
	line := buildLine("P9", "BETA LLC", "", "MIAMI FL", "")
	rec, ok := ParseLine(line)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if rec.City != "MIAMI" || rec.State != "FL" || rec.Zip != "" {
		t.Errorf("locality = %q/%q/%q, want MIAMI/FL/", rec.City, rec.State, rec.Zip)
	}
}
