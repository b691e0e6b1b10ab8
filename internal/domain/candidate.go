package domain

import (
	"fmt"
	"strings"
)

// Candidate is one entry of the candidate pool: a registry document number
// paired with the company name it was filed under (immutable value object).
// Duplicate normalized names across different document numbers are allowed;
// the index retains all of them.
type Candidate struct {
	docNumber  string
	rawName    string
	normalized string
}

// NewCandidate validates and creates a Candidate. The document number and raw
// name must be non-blank; the normalized name may be empty (a name made solely
// of stripped characters normalizes to "").
func NewCandidate(docNumber, rawName, normalized string) (Candidate, error) {
	if strings.TrimSpace(docNumber) == "" {
		return Candidate{}, fmt.Errorf("document number is required: %w", ErrMalformedCandidate)
	}
	if strings.TrimSpace(rawName) == "" {
		return Candidate{}, fmt.Errorf("company name is required: %w", ErrMalformedCandidate)
	}
	return Candidate{docNumber: docNumber, rawName: rawName, normalized: normalized}, nil
}

// ReconstructCandidate creates a Candidate without validation (test fixtures,
// pre-validated sources).
func ReconstructCandidate(docNumber, rawName, normalized string) Candidate {
	return Candidate{docNumber: docNumber, rawName: rawName, normalized: normalized}
}

// DocumentNumber returns the registry document number.
func (c Candidate) DocumentNumber() string { return c.docNumber }

// RawName returns the company name as it appears in the registry.
func (c Candidate) RawName() string { return c.rawName }

// NormalizedName returns the comparison key derived from the raw name.
func (c Candidate) NormalizedName() string { return c.normalized }
