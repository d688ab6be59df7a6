package hclsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netreconciler/internal/models"
	"netreconciler/pkg/logging"
)

func TestFetchRecords_CompleteNetworks(t *testing.T) {
	parser := NewParser(filepath.Join("testdata", "networks.hcl"), logging.NewMockLogger())
	records, err := parser.FetchRecords(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 3)

	web := records[0]
	assert.Equal(t, "web-1", web.Name)
	assert.Equal(t, models.RecordTypeIP, web.Type)
	assert.Equal(t, models.String("10.0.0.10"), web.Field("ip"))
	assert.Equal(t, models.String("255.255.255.0"), web.Field("subnet_mask"))
	assert.True(t, web.Field("mac").IsNull(), "null attribute must decode as null")

	core := records[1]
	assert.Equal(t, models.RecordTypeCIDR, core.Type)
	assert.Equal(t, models.List("10.0.0.0/8", "172.16.0.0/12"), core.Field("cidrs"))

	node := records[2]
	assert.Equal(t, models.RecordTypeHostSubnet, node.Type)
	assert.Equal(t, models.List(), node.Field("egress_cidrs"))
	assert.True(t, node.Field("egress_ips").IsAbsent())
	assert.Equal(t, models.Other(float64(4096)), node.Field("vni"))
}

func TestFetchRecords_SkipsInvalidBlocks(t *testing.T) {
	parser := NewParser(filepath.Join("testdata", "invalid_network.hcl"), logging.NewMockLogger())
	records, err := parser.FetchRecords(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1, "Blocks without a type or with nested blocks are skipped")
	assert.Equal(t, "ok", records[0].Name)
}

func TestFetchRecords_InvalidHCL(t *testing.T) {
	parser := NewParser(filepath.Join("testdata", "invalid_hcl.hcl"), logging.NewMockLogger())
	records, err := parser.FetchRecords(context.Background())

	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestFetchRecords_NonExistentFile(t *testing.T) {
	parser := NewParser("testdata/non_existent_file.hcl", logging.NewMockLogger())
	records, err := parser.FetchRecords(context.Background())

	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestParseHCL_ListElementsAndObjects(t *testing.T) {
	src := []byte(`
network "mixed" {
  type   = "cidr"
  cidrs  = ["10.0.0.0/8", 5, true, null]
  labels = { env = "prod" }
}
`)
	parser := NewParser("", logging.NewMockLogger())
	records, err := parser.ParseHCL(src, "inline.hcl")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.List("10.0.0.0/8", "5", "true", "null"), records[0].Field("cidrs"))

	labels := records[0].Field("labels")
	assert.Equal(t, models.KindOther, labels.Kind())
	assert.JSONEq(t, `{"env": "prod"}`, labels.String())
}

func TestParseHCL_NonStringType(t *testing.T) {
	parser := NewParser("", logging.NewMockLogger())
	records, err := parser.ParseHCL([]byte(`network "n" { type = 3 }`), "inline.hcl")

	require.NoError(t, err)
	assert.Empty(t, records)
}
