package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"netreconciler/internal/models"
	"netreconciler/pkg/logging"
)

const entitiesKey = "entities"

// InventoryProvider reads an inventory of entities, each with its own
// baseline and sources, from a JSON or YAML document.
type InventoryProvider struct {
	path   string
	logger logging.Logger
}

// NewInventoryProvider creates a provider for the inventory at path
func NewInventoryProvider(path string, logger logging.Logger) *InventoryProvider {
	return &InventoryProvider{
		path:   path,
		logger: logger,
	}
}

// FetchEntities reads and decodes the inventory.
func (p *InventoryProvider) FetchEntities(ctx context.Context) ([]models.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	entities, err := ParseInventory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.path, err)
	}

	p.logger.Debug("Loaded %d entities from %s", len(entities), p.path)
	return entities, nil
}

// ParseInventory decodes either a top-level list of entities or a mapping
// with an "entities" list.
func ParseInventory(data []byte) ([]models.Entity, error) {
	if isJSON(data) {
		return parseJSONInventory(trimDocument(data))
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		var wrapper struct {
			Entities []models.Entity `yaml:"entities"`
		}
		if err := root.Decode(&wrapper); err != nil {
			return nil, err
		}
		return wrapper.Entities, nil
	}

	var entities []models.Entity
	if err := root.Decode(&entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func parseJSONInventory(data []byte) ([]models.Entity, error) {
	if data[0] == '{' {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		entities, ok := doc[entitiesKey]
		if !ok {
			return nil, nil
		}
		data = entities
	}

	var out []models.Entity
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return out, nil
}
