package providers

import (
	"context"

	"netreconciler/internal/models"
)

// Provider fetches the network records asserted by one source.
//
//go:generate mockery --name=Provider --output=./mocks
type Provider interface {
	FetchRecords(ctx context.Context) ([]models.Record, error)
}

// InventoryProvider fetches entities that each carry their own baseline and sources.
//
//go:generate mockery --name=InventoryProvider --output=./mocks
type InventoryProvider interface {
	FetchEntities(ctx context.Context) ([]models.Entity, error)
}
