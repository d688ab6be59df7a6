package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"netreconciler/internal/models"
	"netreconciler/pkg/logging"
)

const networksKey = "networks"

var utf8BOM = []byte("\xef\xbb\xbf")

// Provider reads network records from a JSON or YAML document.
type Provider struct {
	path   string
	logger logging.Logger
}

// NewProvider creates a provider for the document at path
func NewProvider(path string, logger logging.Logger) *Provider {
	return &Provider{
		path:   path,
		logger: logger,
	}
}

// FetchRecords reads and decodes the document.
func (p *Provider) FetchRecords(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	records, err := ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.path, err)
	}

	p.logger.Debug("Loaded %d records from %s", len(records), p.path)
	return records, nil
}

// ParseRecords decodes either a top-level list of records or a mapping with
// a "networks" list. A mapping without "networks" holds no records.
// JSON documents go through encoding/json; everything else is read as YAML.
func ParseRecords(data []byte) ([]models.Record, error) {
	if isJSON(data) {
		return parseJSONRecords(data)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Empty document
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.AliasNode && root.Alias != nil {
		root = root.Alias
	}

	switch root.Kind {
	case yaml.SequenceNode:
		return decodeRecords(root)
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value != networksKey {
				continue
			}
			networks := root.Content[i+1]
			if networks.Kind == yaml.ScalarNode && networks.Tag == "!!null" {
				return nil, nil
			}
			if networks.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("line %d: %q must be a list", networks.Line, networksKey)
			}
			return decodeRecords(networks)
		}
		return nil, nil
	case yaml.ScalarNode:
		if root.Tag == "!!null" {
			return nil, nil
		}
	}

	return nil, fmt.Errorf("line %d: expected a list of records or a mapping with %q", root.Line, networksKey)
}

func decodeRecords(seq *yaml.Node) ([]models.Record, error) {
	records := make([]models.Record, 0, len(seq.Content))
	for _, item := range seq.Content {
		var r models.Record
		if err := item.Decode(&r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// isJSON reports whether data is a JSON array or object. YAML flow
// collections that are not valid JSON fall through to the YAML parser.
func isJSON(data []byte) bool {
	trimmed := trimDocument(data)
	if len(trimmed) == 0 || (trimmed[0] != '[' && trimmed[0] != '{') {
		return false
	}
	return json.Valid(trimmed)
}

func parseJSONRecords(data []byte) ([]models.Record, error) {
	data = trimDocument(data)

	if data[0] == '[' {
		var records []models.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return records, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	networks, ok := doc[networksKey]
	if !ok || string(networks) == "null" {
		return nil, nil
	}

	var records []models.Record
	if err := json.Unmarshal(networks, &records); err != nil {
		return nil, fmt.Errorf("%q must be a list of records: %w", networksKey, err)
	}
	return records, nil
}

func trimDocument(data []byte) []byte {
	return bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
}
