package orchestrator

import (
	"context"
	"fmt"

	"netreconciler/internal/providers"
	"netreconciler/internal/providers/file"
	"netreconciler/internal/reconcile"
	"netreconciler/internal/report"
	"netreconciler/pkg/logging"
)

// InventoryService reconciles every entity of an inventory against its own
// baseline and sources.
type InventoryService struct {
	config        Config
	inventory     providers.InventoryProvider
	reportPrinter report.IPrinter
	logger        logging.Logger
}

// NewInventoryService creates a new inventory service with the given configuration.
func NewInventoryService(
	config Config,
	inventory providers.InventoryProvider,
	reportPrinter report.IPrinter,
	logger logging.Logger,
) *InventoryService {
	return &InventoryService{
		config:        config,
		inventory:     inventory,
		reportPrinter: reportPrinter,
		logger:        logger,
	}
}

// NewDefaultInventoryService reads the inventory file named in config.
func NewDefaultInventoryService(config Config, logger logging.Logger) (*InventoryService, error) {
	if config.Inventory == "" {
		return nil, fmt.Errorf("inventory path is required")
	}
	provider := file.NewInventoryProvider(config.Inventory, logger)
	return NewInventoryService(config, provider, report.DefaultPrinter{}, logger), nil
}

// Run reconciles every entity and prints the entities with inconsistencies.
// It reports whether any entity had an inconsistency; loading or
// configuration failures are returned as errors.
func (s *InventoryService) Run(ctx context.Context) (bool, bool, error) {
	if s.inventory == nil {
		return false, true, fmt.Errorf("inventory source is required")
	}
	if err := reconcile.ValidateTypes(s.config.Types); err != nil {
		return false, true, err
	}

	entities, err := s.inventory.FetchEntities(ctx)
	if err != nil {
		return false, true, fmt.Errorf("error fetching inventory: %w", err)
	}

	results, err := reconcile.ReconcileEntities(entities, reconcileOptions(s.config))
	if err != nil {
		return false, true, fmt.Errorf("error reconciling inventory: %w", err)
	}
	anyInconsistency := len(results) > 0

	if err := s.reportPrinter.PrintEntityReport(results, outputFormat(s.config.OutputFormat)); err != nil {
		return anyInconsistency, true, fmt.Errorf("error generating report: %w", err)
	}

	s.logger.Info("Summary: Checked %d entities, %d with inconsistencies",
		len(entities), len(results))

	return anyInconsistency, false, nil
}
