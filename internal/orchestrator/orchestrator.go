package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"netreconciler/internal/models"
	"netreconciler/internal/providers"
	"netreconciler/internal/reconcile"
	"netreconciler/internal/report"
	"netreconciler/pkg/logging"
)

// Service orchestrates the reconciliation process.
type Service struct {
	config        Config
	truth         providers.Provider
	sources       []NamedProvider
	reportPrinter report.IPrinter
	logger        logging.Logger
}

// NewService creates a new orchestrator service with the given configuration.
func NewService(
	config Config,
	truth providers.Provider,
	sources []NamedProvider,
	reportPrinter report.IPrinter,
	logger logging.Logger,
) *Service {
	return &Service{
		config:        config,
		truth:         truth,
		sources:       sources,
		reportPrinter: reportPrinter,
		logger:        logger,
	}
}

// NewDefaultService creates a new service with providers built from the
// source specs in config.
func NewDefaultService(ctx context.Context, config Config, logger logging.Logger) (*Service, error) {
	truth, err := NewProvider(ctx, config.Truth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize truth provider: %w", err)
	}

	sources := make([]NamedProvider, 0, len(config.Sources))
	for _, spec := range config.Sources {
		provider, err := NewProvider(ctx, spec, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, NamedProvider{Name: spec.Name, Provider: provider})
	}

	return NewService(config, truth, sources, report.DefaultPrinter{}, logger), nil
}

// Run executes the reconciliation workflow. It reports whether any
// inconsistency was found and whether any source failed to load.
// A failing source is excluded from the comparison; a failing truth
// provider aborts the run.
func (s *Service) Run(ctx context.Context) (bool, bool, error) {
	if err := s.validateConfig(); err != nil {
		return false, true, err
	}

	truth, err := s.truth.FetchRecords(ctx)
	if err != nil {
		return false, true, fmt.Errorf("error fetching truth records: %w", err)
	}
	s.logger.Debug("Fetched %d truth records", len(truth))

	results, err := s.fetchSources(ctx)
	if err != nil {
		return false, true, fmt.Errorf("error in concurrent source fetch: %w", err)
	}

	var anyError bool
	sources := make([]models.Source, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			anyError = true
			continue
		}
		sources = append(sources, models.Source{Name: r.Name, Networks: r.Records})
	}

	inconsistencies, err := reconcile.Reconcile(truth, sources, reconcileOptions(s.config))
	if err != nil {
		return false, true, fmt.Errorf("error reconciling sources: %w", err)
	}
	anyInconsistency := len(inconsistencies) > 0

	if err := s.reportPrinter.PrintReport(inconsistencies, s.getOutputFormat()); err != nil {
		return anyInconsistency, true, fmt.Errorf("error generating report: %w", err)
	}

	s.generateSummaryReport(results, inconsistencies)

	return anyInconsistency, anyError, nil
}

// fetchSources loads every source concurrently. Each result lands in the
// slot of its source so the report keeps the configured source order.
func (s *Service) fetchSources(ctx context.Context) ([]SourceFetchResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	if s.config.ConcurrencyLimit > 0 {
		g.SetLimit(s.config.ConcurrencyLimit)
	}

	results := make([]SourceFetchResult, len(s.sources))
	for i, src := range s.sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = s.fetchSource(gctx, src)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchSource fetches the records of a single source.
func (s *Service) fetchSource(ctx context.Context, src NamedProvider) SourceFetchResult {
	result := SourceFetchResult{Name: src.Name}

	records, err := src.Provider.FetchRecords(ctx)
	if err != nil {
		result.Error = fmt.Errorf("error fetching records: %w", err)
		return result
	}

	s.logger.Debug("Fetched %d records from source %s", len(records), src.Name)
	result.Records = records
	return result
}

// validateConfig checks the providers and the settings the reconciler
// would otherwise reject only after every source was fetched.
func (s *Service) validateConfig() error {
	if s.truth == nil {
		return fmt.Errorf("truth source is required")
	}
	if len(s.sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		if src.Name == "" {
			return fmt.Errorf("source name must not be empty")
		}
		if src.Provider == nil {
			return fmt.Errorf("source %s has no provider", src.Name)
		}
		names = append(names, src.Name)
	}
	if err := reconcile.ValidateSourceNames(names); err != nil {
		return err
	}

	return reconcile.ValidateTypes(s.config.Types)
}

func reconcileOptions(config Config) reconcile.Options {
	return reconcile.Options{
		Types:         config.Types,
		FieldsToCheck: config.FieldsToCheck,
		AllowMissing:  config.AllowMissing,
		AllowNull:     config.AllowNull,
		Concurrency:   config.ConcurrencyLimit,
	}
}

// generateSummaryReport logs failed sources and an overview of the run.
func (s *Service) generateSummaryReport(results []SourceFetchResult, inconsistencies []reconcile.Inconsistency) {
	for _, r := range results {
		if r.Error != nil {
			s.logger.Error("Source %s: Error - %s", r.Name, r.Error)
		}
	}

	summary := reconcile.Summarize(inconsistencies)
	s.logger.Info("Summary: Checked %d sources, %d inconsistent records, %d sources with errors",
		len(results),
		summary.Inconsistencies,
		countErrors(results),
	)
}

// getOutputFormat converts the string format to report.OutputFormatType.
func (s *Service) getOutputFormat() report.OutputFormatType {
	return outputFormat(s.config.OutputFormat)
}

func outputFormat(format string) report.OutputFormatType {
	switch strings.ToUpper(format) {
	case "JSON":
		return report.OutputFormatTypeJSON
	default:
		return report.OutputFormatTypeTABLE
	}
}

// countErrors counts the number of sources that failed to load.
func countErrors(results []SourceFetchResult) int {
	count := 0
	for _, r := range results {
		if r.Error != nil {
			count++
		}
	}
	return count
}
