package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind tags the state of a record field.
type ValueKind int

const (
	// KindAbsent means the field is not present on the record at all
	KindAbsent ValueKind = iota
	// KindNull means the field is present but explicitly null
	KindNull
	// KindString is a present string value
	KindString
	// KindList is a present ordered collection
	KindList
	// KindOther is any other present value (numbers, booleans, nested objects)
	KindOther
)

// Value is a tagged field value. The zero Value is absent.
type Value struct {
	kind  ValueKind
	str   string
	items []string
	other any
}

// Absent returns a value for a field that is not present.
func Absent() Value {
	return Value{}
}

// Null returns a present but null value.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a present string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// List returns a present list value. The items are copied.
func List(items ...string) Value {
	copied := make([]string, len(items))
	copy(copied, items)
	return Value{kind: KindList, items: copied}
}

// Other returns a present value of any shape that is neither string nor list.
func Other(v any) Value {
	return Value{kind: KindOther, other: v}
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether the field is not present.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// IsNull reports whether the field is present but null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsPresent reports whether the field carries a non-null value.
func (v Value) IsPresent() bool {
	return v.kind != KindAbsent && v.kind != KindNull
}

// Str returns the string payload when the value is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Items returns the list payload when the value is a list.
func (v Value) Items() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.items, true
}

// Raw returns the payload as a plain Go value (nil for absent and null).
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindList:
		return v.items
	case KindOther:
		return v.other
	default:
		return nil
	}
}

// Falsy reports whether a source should be listed as lacking this value:
// absent, null, the empty string, false and numeric zero.
// Lists are never falsy, even when empty.
func (v Value) Falsy() bool {
	switch v.kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		return v.str == ""
	case KindOther:
		return isZeroScalar(v.other)
	default:
		return false
	}
}

func isZeroScalar(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case uint64:
		return t == 0
	case float64:
		return t == 0
	default:
		return false
	}
}

// MarshalJSON renders the payload; absent and null both render as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		return json.Marshal(v.items)
	case KindOther:
		return json.Marshal(v.other)
	default:
		return []byte("null"), nil
	}
}

// String formats the value for human-readable output.
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindNull:
		return "<null>"
	case KindString:
		if v.str == "" {
			return "<empty>"
		}
		return v.str
	case KindList:
		return "[" + strings.Join(v.items, ", ") + "]"
	default:
		if raw, ok := v.other.(json.RawMessage); ok {
			return string(raw)
		}
		return fmt.Sprintf("%v", v.other)
	}
}
