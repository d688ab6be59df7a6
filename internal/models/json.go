package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnmarshalJSON decodes a record from a JSON object, keeping absent keys
// absent and explicit nulls null.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("record must be an object: %w", err)
	}

	record := NewRecord("", "", nil)
	for key, raw := range fields {
		switch key {
		case "name":
			record.Name = jsonText(raw)
		case "type":
			record.Type = RecordType(jsonText(raw))
		default:
			value, err := ValueFromJSON(raw)
			if err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			record.Fields[key] = value
		}
	}

	*r = record
	return nil
}

// ValueFromJSON converts a raw JSON value into a tagged Value.
func ValueFromJSON(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("empty JSON value")
	}

	switch raw[0] {
	case 'n':
		return Null(), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return String(s), nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return Value{}, err
		}
		items := make([]string, 0, len(elems))
		for _, elem := range elems {
			text, err := jsonElementText(elem)
			if err != nil {
				return Value{}, err
			}
			items = append(items, text)
		}
		return List(items...), nil
	}

	v, err := decodeAny(raw)
	if err != nil {
		return Value{}, err
	}
	if n, ok := v.(json.Number); ok {
		return Other(numberValue(n)), nil
	}
	return Other(v), nil
}

// NumberText renders a numeric literal in canonical form so that 1, 1.0
// and 1e0 share one multiset key. Literals that are not decimal numbers
// are returned unchanged.
func NumberText(literal string) string {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return literal
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func jsonElementText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("empty JSON value")
	}

	switch c := raw[0]; {
	case c == 'n':
		return "null", nil
	case c == 't', c == 'f':
		return string(raw), nil
	case c == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case c == '-' || (c >= '0' && c <= '9'):
		return NumberText(string(raw)), nil
	}

	v, err := decodeAny(raw)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func decodeAny(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeObject splits a JSON object into its members. A JSON null is not
// an object.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("got null")
	}
	return fields, nil
}

// jsonText returns the text of a string or other scalar, "" for null.
func jsonText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	return string(raw)
}

// orderedMember is one member of a JSON object in document order.
type orderedMember struct {
	Key   string
	Value json.RawMessage
}

// decodeOrderedObject reads the members of a JSON object in the order they
// appear; encoding/json maps lose that order.
func decodeOrderedObject(data []byte) ([]orderedMember, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object")
	}

	var members []orderedMember
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, orderedMember{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}
