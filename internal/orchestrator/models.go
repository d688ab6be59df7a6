package orchestrator

import (
	"netreconciler/internal/models"
	"netreconciler/internal/providers"
	"netreconciler/internal/reconcile"
)

// SourceKind selects the provider that reads a source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindHCL  SourceKind = "hcl"
	SourceKindAWS  SourceKind = "aws"
)

// SourceSpec describes where one source's records come from.
type SourceSpec struct {
	Name   string     // Source name as it appears in the report
	Kind   SourceKind // Provider kind
	Path   string     // File path (file and hcl kinds)
	Region string     // AWS region (aws kind; empty uses the SDK default chain)
	VPCID  string     // Optional VPC restriction (aws kind)
}

// Config contains all the parameters needed for a reconciliation run.
type Config struct {
	Truth            SourceSpec          // Authoritative baseline
	Sources          []SourceSpec        // Sources to reconcile, in report order
	Inventory        string              // Path to an entity inventory (inventory runs only)
	Types            []models.RecordType // Record types to check (nil = all)
	FieldsToCheck    reconcile.PolicyOverride
	AllowMissing     reconcile.PolicyOverride
	AllowNull        reconcile.PolicyOverride
	OutputFormat     string // Output format (json or table)
	ConcurrencyLimit int    // Maximum number of concurrent source fetches (0 = unlimited)
}

// NamedProvider binds a provider to the source name it reports under.
type NamedProvider struct {
	Name     string
	Provider providers.Provider
}

// SourceFetchResult contains the records fetched for a single source.
type SourceFetchResult struct {
	Name    string
	Records []models.Record
	Error   error
}
