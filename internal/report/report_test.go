package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netreconciler/internal/models"
	"netreconciler/internal/reconcile"
)

func sampleInconsistencies() []reconcile.Inconsistency {
	return []reconcile.Inconsistency{
		{
			Name:    "host1",
			Type:    models.RecordTypeIP,
			Key:     "host1-ip",
			Sources: []string{"Truth", "A", "B"},
			Details: []reconcile.Detail{
				{
					Field: "ip",
					Type:  reconcile.DetailMismatch,
					Values: []reconcile.ValueGroup{
						{Value: models.String("1.1.1.1"), Sources: []string{"Truth", "A"}},
						{Value: models.String("2.2.2.2"), Sources: []string{"B"}},
					},
					Message: "ip mismatch across sources",
				},
				{
					Field:          "subnet_mask",
					Type:           reconcile.DetailMissing,
					MissingSources: []string{"B"},
					Message:        "subnet_mask missing in some sources",
				},
			},
		},
	}
}

func TestPrintReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := PrintReport(&buf, sampleInconsistencies(), OutputFormatTypeJSON)
	require.NoError(t, err)

	var decoded struct {
		RunID           string            `json:"run_id"`
		GeneratedAt     string            `json:"generated_at"`
		Summary         reconcile.Summary `json:"summary"`
		Inconsistencies []json.RawMessage `json:"inconsistencies"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	_, err = uuid.Parse(decoded.RunID)
	assert.NoError(t, err, "run_id should be a UUID")
	assert.NotEmpty(t, decoded.GeneratedAt)
	assert.Equal(t, reconcile.Summary{Inconsistencies: 1, Mismatches: 1, Missing: 1}, decoded.Summary)
	require.Len(t, decoded.Inconsistencies, 1)

	expected := `{
		"name": "host1",
		"type": "ip",
		"key": "host1-ip",
		"sources": ["Truth", "A", "B"],
		"details": [
			{
				"field": "ip",
				"type": "mismatch",
				"values": [
					{"value": "1.1.1.1", "sources": ["Truth", "A"]},
					{"value": "2.2.2.2", "sources": ["B"]}
				],
				"message": "ip mismatch across sources"
			},
			{
				"field": "subnet_mask",
				"type": "missing",
				"missingSources": ["B"],
				"message": "subnet_mask missing in some sources"
			}
		]
	}`
	assert.JSONEq(t, expected, string(decoded.Inconsistencies[0]))
}

func TestPrintReport_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, nil, OutputFormatTypeJSON))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.JSONEq(t, `[]`, string(decoded["inconsistencies"]))
}

func TestPrintReport_Table(t *testing.T) {
	var buf bytes.Buffer
	err := PrintReport(&buf, sampleInconsistencies(), OutputFormatTypeTABLE)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "host1-ip")
	assert.Contains(t, out, "Truth, A, B")
	assert.Contains(t, out, "FIELD")

	lines := strings.Split(out, "\n")
	var mismatchRows, missingRows int
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[1] {
		case "MISMATCH":
			mismatchRows++
		case "MISSING":
			missingRows++
			assert.Equal(t, "subnet_mask", fields[0])
		}
	}
	assert.Equal(t, 2, mismatchRows, "One row per value group")
	assert.Equal(t, 1, missingRows)
	assert.Contains(t, out, "Summary: 1 inconsistent records, 1 mismatches, 1 missing fields")
}

func TestPrintReport_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, []reconcile.Inconsistency{}, OutputFormatTypeTABLE))
	assert.Equal(t, "No inconsistencies found\n", buf.String())
}

func TestPrintReport_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := PrintReport(&buf, nil, OutputFormatType("XML"))
	assert.EqualError(t, err, "unsupported output format: XML")
	assert.Empty(t, buf.String())
}

func TestNewReport_UniqueRunIDs(t *testing.T) {
	first := NewReport(nil)
	second := NewReport(nil)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.NotNil(t, first.Inconsistencies)
}

func TestPrintEntityReport_JSON(t *testing.T) {
	results := []reconcile.EntityResult{{ID: "srv-1", Inconsistencies: sampleInconsistencies()}}

	var buf bytes.Buffer
	require.NoError(t, PrintEntityReport(&buf, results, OutputFormatTypeJSON))

	var decoded struct {
		RunID    string            `json:"run_id"`
		Summary  reconcile.Summary `json:"summary"`
		Entities []struct {
			ID              string            `json:"id"`
			Inconsistencies []json.RawMessage `json:"inconsistencies"`
		} `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	_, err := uuid.Parse(decoded.RunID)
	assert.NoError(t, err)
	assert.Equal(t, reconcile.Summary{Inconsistencies: 1, Mismatches: 1, Missing: 1}, decoded.Summary)
	require.Len(t, decoded.Entities, 1)
	assert.Equal(t, "srv-1", decoded.Entities[0].ID)
	assert.Len(t, decoded.Entities[0].Inconsistencies, 1)
}

func TestPrintEntityReport_Table(t *testing.T) {
	results := []reconcile.EntityResult{
		{ID: "srv-1", Inconsistencies: sampleInconsistencies()},
		{ID: "srv-2", Inconsistencies: sampleInconsistencies()},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintEntityReport(&buf, results, OutputFormatTypeTABLE))

	out := buf.String()
	assert.Contains(t, out, "=== ENTITY: srv-1 ===")
	assert.Contains(t, out, "=== ENTITY: srv-2 ===")
	assert.Less(t, strings.Index(out, "srv-1"), strings.Index(out, "srv-2"), "Entities keep their input order")
	assert.Contains(t, out, "Summary: 2 inconsistent records, 2 mismatches, 2 missing fields")
	assert.Contains(t, out, "Entities with inconsistencies: 2")
}

func TestPrintEntityReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintEntityReport(&buf, nil, OutputFormatTypeTABLE))
	assert.Equal(t, "No inconsistencies found\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintEntityReport(&buf, nil, OutputFormatTypeJSON))
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.JSONEq(t, `[]`, string(decoded["entities"]))

	assert.Error(t, PrintEntityReport(&buf, nil, OutputFormatType("XML")))
}
