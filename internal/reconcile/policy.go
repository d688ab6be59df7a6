package reconcile

import (
	"slices"

	"netreconciler/internal/models"
)

// PolicyOverride maps a record type to a replacement field set.
// A type present in the override replaces the default set for that type
// entirely, even when the replacement is empty.
type PolicyOverride map[models.RecordType][]string

// Policy holds the effective per-type field rules for one reconciliation.
type Policy struct {
	FieldsToCheck map[models.RecordType][]string `json:"fields_to_check" yaml:"fields_to_check"`
	AllowMissing  map[models.RecordType][]string `json:"allow_missing" yaml:"allow_missing"`
	AllowNull     map[models.RecordType][]string `json:"allow_null" yaml:"allow_null"`
}

// DefaultPolicy returns the built-in field rules.
func DefaultPolicy() Policy {
	return Policy{
		FieldsToCheck: map[models.RecordType][]string{
			models.RecordTypeIP:         {"ip", "subnet_mask", "mac"},
			models.RecordTypeCIDR:       {"cidrs"},
			models.RecordTypeHostSubnet: {"hostname", "egress_cidrs"},
		},
		AllowMissing: map[models.RecordType][]string{
			models.RecordTypeIP:         {"subnet_mask", "mac"},
			models.RecordTypeCIDR:       {"cidrs"},
			models.RecordTypeHostSubnet: {"egress_ips", "mac"},
		},
		AllowNull: map[models.RecordType][]string{
			models.RecordTypeIP:         {"subnet_mask", "mac"},
			models.RecordTypeCIDR:       {"cidrs"},
			models.RecordTypeHostSubnet: {"egress_ips"},
		},
	}
}

// ResolvePolicy applies the overrides in opts on top of the defaults.
func ResolvePolicy(opts Options) Policy {
	defaults := DefaultPolicy()
	return Policy{
		FieldsToCheck: applyOverride(defaults.FieldsToCheck, opts.FieldsToCheck),
		AllowMissing:  applyOverride(defaults.AllowMissing, opts.AllowMissing),
		AllowNull:     applyOverride(defaults.AllowNull, opts.AllowNull),
	}
}

// applyOverride replaces whole per-type sets; it never merges element-wise.
// Override keys for unknown types are ignored.
func applyOverride(defaults map[models.RecordType][]string, override PolicyOverride) map[models.RecordType][]string {
	result := make(map[models.RecordType][]string, len(defaults))
	for t, fields := range defaults {
		result[t] = slices.Clone(fields)
	}
	for t, fields := range override {
		if !t.Valid() {
			continue
		}
		result[t] = slices.Clone(fields)
	}
	return result
}

func (p Policy) allowsMissing(t models.RecordType, field string) bool {
	return slices.Contains(p.AllowMissing[t], field)
}

func (p Policy) allowsNull(t models.RecordType, field string) bool {
	return slices.Contains(p.AllowNull[t], field)
}
