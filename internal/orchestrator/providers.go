package orchestrator

import (
	"context"
	"fmt"

	"netreconciler/internal/providers"
	"netreconciler/internal/providers/aws"
	"netreconciler/internal/providers/file"
	"netreconciler/internal/providers/hclsource"
	"netreconciler/pkg/logging"
)

// NewProvider builds the provider for a source spec.
func NewProvider(ctx context.Context, spec SourceSpec, logger logging.Logger) (providers.Provider, error) {
	switch spec.Kind {
	case SourceKindFile:
		if spec.Path == "" {
			return nil, fmt.Errorf("source %q: path is required", spec.Name)
		}
		return file.NewProvider(spec.Path, logger), nil
	case SourceKindHCL:
		if spec.Path == "" {
			return nil, fmt.Errorf("source %q: path is required", spec.Name)
		}
		return hclsource.NewParser(spec.Path, logger), nil
	case SourceKindAWS:
		service, err := aws.NewNetworkServiceWithDefaultConfig(ctx, spec.Region, spec.VPCID, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AWS service: %w", err)
		}
		return service, nil
	default:
		return nil, fmt.Errorf("source %q: unsupported source kind %q", spec.Name, spec.Kind)
	}
}
