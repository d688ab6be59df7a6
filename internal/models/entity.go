package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entity is one inventory item (a server or a cluster) that carries its own
// baseline networks and the records each named source reports for it.
type Entity struct {
	ID       string
	Networks []Record
	Sources  []Source // in document order
}

// entityIDKeys are the keys accepted as an entity identifier.
var entityIDKeys = map[string]bool{
	"id":         true,
	"server_id":  true,
	"cluster_id": true,
}

const (
	networksKey = "networks"
	sourcesKey  = "sources"
)

// UnmarshalYAML decodes an entity mapping. Sources keep their mapping order.
func (e *Entity) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: entity must be a mapping", node.Line)
	}

	var entity Entity
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := resolveAlias(node.Content[i+1])

		switch {
		case entityIDKeys[key]:
			entity.ID = scalarText(value)
		case key == networksKey:
			records, err := recordsFromYAML(value)
			if err != nil {
				return err
			}
			entity.Networks = records
		case key == sourcesKey:
			sources, err := sourcesFromYAML(value)
			if err != nil {
				return err
			}
			entity.Sources = sources
		}
	}

	*e = entity
	return nil
}

func recordsFromYAML(node *yaml.Node) ([]Record, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == tagNull {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %q must be a list", node.Line, networksKey)
	}

	records := make([]Record, 0, len(node.Content))
	for _, item := range node.Content {
		var r Record
		if err := item.Decode(&r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func sourcesFromYAML(node *yaml.Node) ([]Source, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == tagNull {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %q must be a mapping of source names", node.Line, sourcesKey)
	}

	sources := make([]Source, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		source := Source{Name: node.Content[i].Value}
		body := resolveAlias(node.Content[i+1])

		switch {
		case body.Kind == yaml.MappingNode:
			for j := 0; j+1 < len(body.Content); j += 2 {
				if body.Content[j].Value != networksKey {
					continue
				}
				records, err := recordsFromYAML(resolveAlias(body.Content[j+1]))
				if err != nil {
					return nil, fmt.Errorf("source %s: %w", source.Name, err)
				}
				source.Networks = records
			}
		case body.Kind == yaml.ScalarNode && body.Tag == tagNull:
		default:
			return nil, fmt.Errorf("line %d: source %s must be a mapping", body.Line, source.Name)
		}

		sources = append(sources, source)
	}
	return sources, nil
}

// UnmarshalJSON decodes an entity object. Sources keep their document order.
func (e *Entity) UnmarshalJSON(data []byte) error {
	members, err := decodeOrderedObject(data)
	if err != nil {
		return fmt.Errorf("entity must be an object: %w", err)
	}

	var entity Entity
	for _, m := range members {
		switch {
		case entityIDKeys[m.Key]:
			entity.ID = jsonText(m.Value)
		case m.Key == networksKey:
			if err := json.Unmarshal(m.Value, &entity.Networks); err != nil {
				return fmt.Errorf("%q: %w", networksKey, err)
			}
		case m.Key == sourcesKey:
			sources, err := sourcesFromJSON(m.Value)
			if err != nil {
				return err
			}
			entity.Sources = sources
		}
	}

	*e = entity
	return nil
}

func sourcesFromJSON(raw json.RawMessage) ([]Source, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	members, err := decodeOrderedObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%q must be an object of source names: %w", sourcesKey, err)
	}

	sources := make([]Source, 0, len(members))
	for _, m := range members {
		source := Source{Name: m.Key}
		var body struct {
			Networks []Record `json:"networks"`
		}
		if err := json.Unmarshal(m.Value, &body); err != nil {
			return nil, fmt.Errorf("source %s: %w", source.Name, err)
		}
		source.Networks = body.Networks
		sources = append(sources, source)
	}
	return sources, nil
}
