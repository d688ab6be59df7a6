package report

import "netreconciler/internal/reconcile"

// IPrinter is the interface for generating reports
//
//go:generate mockery --name=IPrinter --output=./mocks
type IPrinter interface {
	PrintReport(inconsistencies []reconcile.Inconsistency, format OutputFormatType) error
	PrintEntityReport(results []reconcile.EntityResult, format OutputFormatType) error
}
