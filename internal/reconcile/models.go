package reconcile

import (
	"fmt"

	"netreconciler/internal/models"
)

// DetailType tags a per-field finding.
type DetailType string

const (
	// DetailMismatch means sources asserted two or more distinct values
	DetailMismatch DetailType = "mismatch"
	// DetailMissing means some, but not all, sources lack the field
	DetailMissing DetailType = "missing"
)

// Options configures a reconciliation run. The zero value checks every
// record type with the built-in field policy, sequentially.
type Options struct {
	Types         []models.RecordType // nil means every type; an empty non-nil filter is rejected
	AllowMissing  PolicyOverride
	FieldsToCheck PolicyOverride
	AllowNull     PolicyOverride
	Concurrency   int // Maximum number of groups compared at once (0 or 1 = sequential)
}

// IdentityKey identifies one logical network entity across sources.
type IdentityKey struct {
	Name string
	Type models.RecordType
}

func (k IdentityKey) String() string {
	return fmt.Sprintf("%s-%s", k.Name, k.Type)
}

// ValueGroup is one distinct value and the sources that asserted it.
type ValueGroup struct {
	Value   models.Value `json:"value"`
	Sources []string     `json:"sources"`
}

// Detail is a single inconsistent field.
type Detail struct {
	Field          string       `json:"field"`
	Type           DetailType   `json:"type"`
	Values         []ValueGroup `json:"values,omitempty"`
	MissingSources []string     `json:"missingSources,omitempty"`
	Message        string       `json:"message"`
}

// Inconsistency collects every finding for one identity key.
type Inconsistency struct {
	Name    string            `json:"name"`
	Type    models.RecordType `json:"type"`
	Key     string            `json:"key"`
	Sources []string          `json:"sources"`
	Details []Detail          `json:"details"`
}

// Summary counts the findings of a reconciliation.
type Summary struct {
	Inconsistencies int `json:"inconsistencies"`
	Mismatches      int `json:"mismatches"`
	Missing         int `json:"missing"`
}

// Summarize counts inconsistencies and their details by type.
func Summarize(inconsistencies []Inconsistency) Summary {
	summary := Summary{Inconsistencies: len(inconsistencies)}
	for _, inc := range inconsistencies {
		for _, d := range inc.Details {
			switch d.Type {
			case DetailMismatch:
				summary.Mismatches++
			case DetailMissing:
				summary.Missing++
			}
		}
	}
	return summary
}

// EntityResult holds the inconsistencies found for one inventory entity.
type EntityResult struct {
	ID              string          `json:"id"`
	Inconsistencies []Inconsistency `json:"inconsistencies"`
}

// SummarizeEntities counts findings across every entity result.
func SummarizeEntities(results []EntityResult) Summary {
	var summary Summary
	for _, r := range results {
		s := Summarize(r.Inconsistencies)
		summary.Inconsistencies += s.Inconsistencies
		summary.Mismatches += s.Mismatches
		summary.Missing += s.Missing
	}
	return summary
}
