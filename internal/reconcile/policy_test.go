package reconcile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"netreconciler/internal/models"
)

func TestResolvePolicy_Defaults(t *testing.T) {
	policy := ResolvePolicy(Options{})
	assert.Equal(t, DefaultPolicy(), policy)
}

func TestResolvePolicy_WholeTypeReplacement(t *testing.T) {
	policy := ResolvePolicy(Options{
		AllowMissing: PolicyOverride{models.RecordTypeIP: {"ip"}},
		AllowNull:    PolicyOverride{models.RecordTypeCIDR: {}},
	})

	assert.Equal(t, []string{"ip"}, policy.AllowMissing[models.RecordTypeIP], "Override replaces, it does not merge")
	assert.Equal(t, []string{"cidrs"}, policy.AllowMissing[models.RecordTypeCIDR], "Types without override keep defaults")
	assert.Empty(t, policy.AllowNull[models.RecordTypeCIDR], "An empty override clears the default set")
	assert.Equal(t, []string{"egress_ips"}, policy.AllowNull[models.RecordTypeHostSubnet])
}

func TestResolvePolicy_UnknownTypeIgnored(t *testing.T) {
	policy := ResolvePolicy(Options{
		FieldsToCheck: PolicyOverride{"vlan": {"id"}},
	})

	_, exists := policy.FieldsToCheck["vlan"]
	assert.False(t, exists)
	assert.Len(t, policy.FieldsToCheck, 3)
}

func TestResolvePolicy_DoesNotAliasInputs(t *testing.T) {
	override := PolicyOverride{models.RecordTypeIP: {"ip"}}
	policy := ResolvePolicy(Options{FieldsToCheck: override})

	policy.FieldsToCheck[models.RecordTypeIP][0] = "changed"
	assert.Equal(t, "ip", override[models.RecordTypeIP][0])
	assert.Equal(t, "ip", DefaultPolicy().FieldsToCheck[models.RecordTypeIP][0])
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     models.Value
		expected bool
	}{
		{"identical strings", models.String("a"), models.String("a"), true},
		{"different strings", models.String("a"), models.String("b"), false},
		{"string vs list", models.String("a"), models.List("a"), false},
		{"reordered lists", models.List("a", "b"), models.List("b", "a"), true},
		{"different lengths", models.List("a"), models.List("a", "a"), false},
		{"same set different counts", models.List("a", "a", "b"), models.List("a", "b", "b"), false},
		{"empty lists", models.List(), models.List(), true},
		{"numbers never equal", models.Other(1), models.Other(1), false},
		{"booleans never equal", models.Other(true), models.Other(true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, valuesEqual(tt.a, tt.b))
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err1 := NewConfigError(ErrInvalidTypeFilter, "Unknown record type", "vlan", nil)
	assert.Equal(t, "invalid_type_filter: Unknown record type (value: vlan)", err1.Error())

	err2 := NewConfigError(ErrInvalidTypeFilter, "Type filter must not be empty", "", nil)
	assert.Equal(t, "invalid_type_filter: Type filter must not be empty", err2.Error())
}

func TestIsErrorCategory(t *testing.T) {
	err := NewConfigError(ErrReservedSourceName, "reserved", "Truth", nil)
	assert.True(t, IsErrorCategory(err, ErrReservedSourceName))
	assert.False(t, IsErrorCategory(err, ErrInvalidTypeFilter))

	wrapped := fmt.Errorf("outer wrapper: %w", err)
	assert.True(t, IsErrorCategory(wrapped, ErrReservedSourceName), "Should find category in wrapped error")

	assert.False(t, IsErrorCategory(nil, ErrReservedSourceName))
	assert.False(t, IsErrorCategory(fmt.Errorf("regular error"), ErrReservedSourceName))
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewConfigError(ErrInvalidTypeFilter, "wrapper", "", cause)
	assert.Equal(t, cause, err.Unwrap())
}
