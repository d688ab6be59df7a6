package hclsource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"netreconciler/internal/models"
	"netreconciler/pkg/logging"
)

const typeAttribute = "type"

// Parser reads network records from an HCL file.
type Parser struct {
	path   string
	logger logging.Logger
}

// NewParser creates a new Parser for the file at path
func NewParser(path string, logger logging.Logger) *Parser {
	return &Parser{
		path:   path,
		logger: logger,
	}
}

// FetchRecords parses the HCL file and returns one record per network block.
func (p *Parser) FetchRecords(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(p.path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", p.path, diags.Error())
	}

	return p.decodeFile(file, p.path)
}

// ParseHCL parses HCL source held in memory.
func (p *Parser) ParseHCL(src []byte, filename string) ([]models.Record, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %s", filename, diags.Error())
	}

	return p.decodeFile(file, filename)
}

func (p *Parser) decodeFile(file *hcl.File, filename string) ([]models.Record, error) {
	if file == nil || file.Body == nil {
		return nil, fmt.Errorf("parsed HCL file is empty or invalid: %s", filename)
	}

	var cfg ConfigFile
	diags := gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL body %s: %s", filename, diags.Error())
	}

	p.logger.Debug("Found %d network blocks in %s", len(cfg.Networks), filename)

	records := make([]models.Record, 0, len(cfg.Networks))
	for _, block := range cfg.Networks {
		record, err := decodeNetwork(block)
		if err != nil {
			p.logger.Warn("Skipping network '%s' in %s: %s", block.Name, filename, err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// decodeNetwork evaluates every attribute of a network block. Attributes
// set to null become null values; attributes left out stay absent.
func decodeNetwork(block *NetworkBlock) (models.Record, error) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return models.Record{}, fmt.Errorf("%s", diags.Error())
	}

	typeAttr, ok := attrs[typeAttribute]
	if !ok {
		return models.Record{}, fmt.Errorf("missing required attribute %q", typeAttribute)
	}
	typeValue, diags := typeAttr.Expr.Value(nil)
	if diags.HasErrors() {
		return models.Record{}, fmt.Errorf("%s", diags.Error())
	}
	if typeValue.IsNull() || !typeValue.Type().Equals(cty.String) {
		return models.Record{}, fmt.Errorf("attribute %q must be a string", typeAttribute)
	}

	fields := make(map[string]models.Value, len(attrs)-1)
	for name, attr := range attrs {
		if name == typeAttribute {
			continue
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return models.Record{}, fmt.Errorf("%s", diags.Error())
		}
		value, err := valueFromCty(val)
		if err != nil {
			return models.Record{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		fields[name] = value
	}

	return models.NewRecord(block.Name, models.RecordType(typeValue.AsString()), fields), nil
}

func valueFromCty(v cty.Value) (models.Value, error) {
	if !v.IsWhollyKnown() {
		return models.Value{}, fmt.Errorf("value is not known")
	}
	if v.IsNull() {
		return models.Null(), nil
	}

	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return models.String(v.AsString()), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		items := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			text, err := elementText(elem)
			if err != nil {
				return models.Value{}, err
			}
			items = append(items, text)
		}
		return models.List(items...), nil
	case ty.Equals(cty.Number):
		f, _ := v.AsBigFloat().Float64()
		return models.Other(f), nil
	case ty.Equals(cty.Bool):
		return models.Other(v.True()), nil
	default:
		raw, err := ctyjson.Marshal(v, ty)
		if err != nil {
			return models.Value{}, err
		}
		return models.Other(json.RawMessage(raw)), nil
	}
}

// elementText renders a list element as the key used for multiset comparison.
func elementText(v cty.Value) (string, error) {
	if v.IsNull() {
		return "null", nil
	}

	switch ty := v.Type(); {
	case ty.Equals(cty.String):
		return v.AsString(), nil
	case ty.Equals(cty.Number):
		return v.AsBigFloat().Text('f', -1), nil
	case ty.Equals(cty.Bool):
		if v.True() {
			return "true", nil
		}
		return "false", nil
	}

	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
