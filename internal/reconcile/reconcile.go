package reconcile

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"netreconciler/internal/models"
)

// entry is one source's assertion about an identity key.
type entry struct {
	source string
	record models.Record
}

// group holds every entry for one identity key, in iteration order.
type group struct {
	key     IdentityKey
	entries []entry
}

// Reconcile compares the records asserted by each source against each other
// and against the truth records, which act as a synthetic source named
// "Truth" that is iterated first.
//
// Configuration errors are returned before any comparison happens. The result
// lists one Inconsistency per identity key with at least one finding, in the
// order the keys were first seen.
func Reconcile(truth []models.Record, sources []models.Source, opts Options) ([]Inconsistency, error) {
	types, err := resolveTypes(opts.Types)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name)
	}
	if err := ValidateSourceNames(names); err != nil {
		return nil, err
	}

	policy := ResolvePolicy(opts)
	groups := buildIndex(truth, sources, types)

	// Every group writes only its own slot, so discovery order survives
	// whatever order the comparisons finish in.
	results := make([]*Inconsistency, len(groups))
	if opts.Concurrency > 1 {
		var g errgroup.Group
		g.SetLimit(opts.Concurrency)
		for i, grp := range groups {
			i, grp := i, grp
			g.Go(func() error {
				results[i] = compareGroup(grp, policy)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, grp := range groups {
			results[i] = compareGroup(grp, policy)
		}
	}

	inconsistencies := make([]Inconsistency, 0, len(results))
	for _, r := range results {
		if r != nil {
			inconsistencies = append(inconsistencies, *r)
		}
	}

	return inconsistencies, nil
}

// ReconcileEntities reconciles every entity against its own baseline and
// sources, and returns only the entities with at least one inconsistency,
// in input order. A configuration error in any entity aborts the batch.
func ReconcileEntities(entities []models.Entity, opts Options) ([]EntityResult, error) {
	if err := ValidateTypes(opts.Types); err != nil {
		return nil, err
	}

	results := make([]EntityResult, 0)
	for _, e := range entities {
		inconsistencies, err := Reconcile(e.Networks, e.Sources, opts)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.ID, err)
		}
		if len(inconsistencies) > 0 {
			results = append(results, EntityResult{ID: e.ID, Inconsistencies: inconsistencies})
		}
	}

	return results, nil
}

// ValidateTypes checks a type filter. nil selects every type.
func ValidateTypes(types []models.RecordType) error {
	_, err := resolveTypes(types)
	return err
}

func resolveTypes(types []models.RecordType) ([]models.RecordType, error) {
	if types == nil {
		return models.AllRecordTypes(), nil
	}
	if len(types) == 0 {
		return nil, NewConfigError(ErrInvalidTypeFilter, "Type filter must not be empty", "", nil)
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, NewConfigError(ErrInvalidTypeFilter, "Unknown record type", string(t), nil)
		}
	}
	return types, nil
}

// ValidateSourceNames rejects the reserved baseline name and duplicates.
func ValidateSourceNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == models.TruthSource {
			return NewConfigError(ErrReservedSourceName,
				fmt.Sprintf("Cannot use %s as a source name", models.TruthSource), name, nil)
		}
		if _, dup := seen[name]; dup {
			return NewConfigError(ErrDuplicateSourceName, "Source name used more than once", name, nil)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// buildIndex groups records by identity key. Truth comes first, then each
// source in order; groups keep the order in which their key was first seen.
func buildIndex(truth []models.Record, sources []models.Source, types []models.RecordType) []*group {
	var groups []*group
	byKey := make(map[IdentityKey]*group)

	add := func(sourceName string, records []models.Record) {
		for _, rec := range records {
			if !slices.Contains(types, rec.Type) {
				continue
			}
			key := IdentityKey{Name: rec.Name, Type: rec.Type}
			grp, ok := byKey[key]
			if !ok {
				grp = &group{key: key}
				byKey[key] = grp
				groups = append(groups, grp)
			}
			grp.entries = append(grp.entries, entry{source: sourceName, record: rec})
		}
	}

	add(models.TruthSource, truth)
	for _, src := range sources {
		add(src.Name, src.Networks)
	}

	return groups
}

// compareGroup checks every configured field of one identity key and returns
// nil when nothing is inconsistent.
func compareGroup(grp *group, policy Policy) *Inconsistency {
	recordType := grp.key.Type

	var details []Detail
	for _, field := range policy.FieldsToCheck[recordType] {
		details = append(details, compareField(grp.entries, recordType, field, policy)...)
	}
	if len(details) == 0 {
		return nil
	}

	sources := make([]string, len(grp.entries))
	for i, e := range grp.entries {
		sources[i] = e.source
	}

	return &Inconsistency{
		Name:    grp.key.Name,
		Type:    recordType,
		Key:     grp.key.String(),
		Sources: sources,
		Details: details,
	}
}

// compareField classifies one field across all entries of a group and
// returns a mismatch and/or a missing detail.
func compareField(entries []entry, recordType models.RecordType, field string, policy Policy) []Detail {
	allowMissing := policy.allowsMissing(recordType, field)
	allowNull := policy.allowsNull(recordType, field)

	var values []ValueGroup
	missingCount := 0

	for _, e := range entries {
		value := e.record.Field(field)
		switch {
		case value.IsAbsent():
			if !allowMissing {
				missingCount++
			}
		case value.IsNull():
			if !allowNull {
				missingCount++
			}
		default:
			values = addValue(values, value, e.source)
		}
	}

	var details []Detail

	if len(values) > 1 {
		details = append(details, Detail{
			Field:   field,
			Type:    DetailMismatch,
			Values:  values,
			Message: fmt.Sprintf("%s mismatch across sources", strings.ToUpper(field)),
		})
	}

	// Unanimous absence has nothing to compare against and is not reported.
	if missingCount > 0 && !allowMissing && missingCount < len(entries) {
		details = append(details, Detail{
			Field:          field,
			Type:           DetailMissing,
			MissingSources: lackingSources(entries, field),
			Message:        fmt.Sprintf("%s missing in some sources", strings.ToUpper(field)),
		})
	}

	return details
}

// addValue records source against the first group whose value is equal,
// or opens a new group.
func addValue(values []ValueGroup, value models.Value, source string) []ValueGroup {
	for i := range values {
		if valuesEqual(values[i].Value, value) {
			if !slices.Contains(values[i].Sources, source) {
				values[i].Sources = append(values[i].Sources, source)
			}
			return values
		}
	}
	return append(values, ValueGroup{Value: value, Sources: []string{source}})
}

// lackingSources lists the source of every entry whose value for field is falsy.
func lackingSources(entries []entry, field string) []string {
	var sources []string
	for _, e := range entries {
		if e.record.Field(field).Falsy() {
			sources = append(sources, e.source)
		}
	}
	return sources
}
