// Package registry parses fixed-width corporate registry data files
// ("cordata" exports): one filing per line, fields at fixed byte offsets.
package registry

import (
	"regexp"
	"strings"
)

// Fixed field offsets of a registry line.
const (
	docNumberEnd = 12
	nameEnd      = 165
	addr1End     = 315
	addr2End     = 465

	// The officer block floats inside this window.
	officerWindowStart = 600
	officerWindowEnd   = 900
)

var (
	// ROLE + status char + LASTNAME + FIRSTNAME + optional MIDDLE initial.
	officerRe = regexp.MustCompile(
		`(AMBR|MGRM|MGR|CEO|CFO|COO|PRES|VP|SEC|DIR|AP|P)\s*([PCMD])([A-Z][A-Z\-' ]{8,20})\s+([A-Z][A-Z\-' ]{8,20})\s+([A-Z]?)\s+`,
	)

	// CITY STATE ZIP variants: "FT. LAUDERDALE FL33304", "MIAMI, FL 33130", "TAMPA FL 33602".
	cityStateZipRes = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z\s\-\.]+?)\s+([A-Z]{2})(\d{5})`),
		regexp.MustCompile(`([A-Z\s\-\.]+?),\s*([A-Z]{2})(\d{5})`),
		regexp.MustCompile(`([A-Z\s\-\.]+?)\s+([A-Z]{2})\s+(\d{5})`),
	}
	cityStateRe = regexp.MustCompile(`([A-Z\s\-\.]+?)\s+([A-Z]{2})`)

	spaceRunRe = regexp.MustCompile(`\s+`)
)

// Record is one parsed registry filing. Document number and company name are
// always present on a parsed record; officer and address fields are best-effort.
type Record struct {
	DocNumber   string
	CompanyName string

	OfficerRole   string
	OfficerStatus string
	OfficerFirst  string
	OfficerMiddle string
	OfficerLast   string

	Address string
	City    string
	State   string
	Zip     string
}

// OfficerFullName joins the officer name parts ("" when no officer was parsed).
func (r Record) OfficerFullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.OfficerFirst, r.OfficerMiddle, r.OfficerLast} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// CityStateZip joins the locality fields with commas ("" when none parsed).
func (r Record) CityStateZip() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.City, r.State, r.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ParseLine extracts a Record from one registry line. It returns false when
// the line carries no document number or no company name; such lines are
// skipped by the reader, never treated as errors.
func ParseLine(line string) (Record, bool) {
	rec := Record{
		DocNumber:   strings.TrimSpace(slice(line, 0, docNumberEnd)),
		CompanyName: strings.TrimSpace(slice(line, docNumberEnd, nameEnd)),
	}
	if rec.DocNumber == "" || rec.CompanyName == "" {
		return Record{}, false
	}

	parseOfficer(line, &rec)
	parseAddress(line, &rec)
	return rec, true
}

func parseOfficer(line string, rec *Record) {
	window := slice(line, officerWindowStart, officerWindowEnd)
	m := officerRe.FindStringSubmatch(window)
	if m == nil {
		return
	}
	rec.OfficerRole = m[1]
	rec.OfficerStatus = m[2]
	rec.OfficerLast = strings.TrimSpace(m[3])
	rec.OfficerFirst = strings.TrimSpace(m[4])
	rec.OfficerMiddle = strings.TrimSpace(m[5])
}

func parseAddress(line string, rec *Record) {
	addr1 := strings.TrimSpace(slice(line, nameEnd, addr1End))

	// The second address field carries the locality.
	addr2 := spaceRunRe.ReplaceAllString(
		strings.TrimSpace(slice(line, addr1End, addr2End)), " ",
	)

	street2 := addr2
	for _, re := range cityStateZipRes {
		if m := re.FindStringSubmatchIndex(addr2); m != nil {
			rec.City = strings.TrimSpace(addr2[m[2]:m[3]])
			rec.State = addr2[m[4]:m[5]]
			rec.Zip = addr2[m[6]:m[7]]
			street2 = strings.TrimSpace(addr2[:m[0]])
			break
		}
	}
	if rec.City == "" {
		if m := cityStateRe.FindStringSubmatchIndex(addr2); m != nil {
			rec.City = strings.TrimSpace(addr2[m[2]:m[3]])
			rec.State = addr2[m[4]:m[5]]
			street2 = strings.TrimSpace(addr2[:m[0]])
		}
	}

	parts := make([]string, 0, 2)
	for _, p := range []string{addr1, street2} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	rec.Address = strings.Join(parts, " ")
}

// slice returns line[from:to] tolerating short lines.
func slice(line string, from, to int) string {
	if len(line) <= from {
		return ""
	}
	if len(line) < to {
		to = len(line)
	}
	return line[from:to]
}
