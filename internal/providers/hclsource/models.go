package hclsource

import "github.com/hashicorp/hcl/v2"

// NetworkBlock represents a single `network "<name>" { ... }` block in HCL.
type NetworkBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// ConfigFile represents the top-level structure containing network blocks.
type ConfigFile struct {
	Networks []*NetworkBlock `hcl:"network,block"`
	Remain   hcl.Body        `hcl:",remain"` // Catch-all for other blocks
}
