package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	tagNull  = "!!null"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
)

// UnmarshalYAML decodes a record from a YAML (or JSON) mapping, keeping
// absent keys absent and explicit nulls null.
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: record must be a mapping", node.Line)
	}

	record := NewRecord("", "", nil)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		valueNode := resolveAlias(node.Content[i+1])

		switch key {
		case "name":
			record.Name = scalarText(valueNode)
		case "type":
			record.Type = RecordType(scalarText(valueNode))
		default:
			value, err := ValueFromYAML(valueNode)
			if err != nil {
				return fmt.Errorf("line %d: field %q: %w", valueNode.Line, key, err)
			}
			record.Fields[key] = value
		}
	}

	*r = record
	return nil
}

// ValueFromYAML converts a YAML node into a tagged Value.
func ValueFromYAML(node *yaml.Node) (Value, error) {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case tagNull:
			return Null(), nil
		case tagInt, tagFloat, tagBool:
			var v any
			if err := node.Decode(&v); err != nil {
				return Value{}, err
			}
			return Other(v), nil
		default:
			return String(node.Value), nil
		}
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			text, err := elementText(resolveAlias(child))
			if err != nil {
				return Value{}, err
			}
			items = append(items, text)
		}
		return List(items...), nil
	case yaml.MappingNode:
		var v map[string]any
		if err := node.Decode(&v); err != nil {
			return Value{}, err
		}
		return Other(v), nil
	default:
		return Value{}, fmt.Errorf("unsupported YAML node kind %d", node.Kind)
	}
}

// elementText renders a list element as the key used for multiset comparison.
func elementText(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		switch node.Tag {
		case tagNull:
			return "null", nil
		case tagInt, tagFloat:
			return NumberText(node.Value), nil
		case tagBool:
			var b bool
			if err := node.Decode(&b); err != nil {
				return "", err
			}
			return strconv.FormatBool(b), nil
		}
		return node.Value, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return "", err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func scalarText(node *yaml.Node) string {
	if node.Kind != yaml.ScalarNode || node.Tag == tagNull {
		return ""
	}
	return node.Value
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
