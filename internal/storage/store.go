// Package storage persists collected properties.
package storage

import (
	"context"

	"github.com/Beigelman/house-crawler/internal/models"
)

// Store keeps properties keyed by link.
type Store interface {
	// InsertNew stores the properties whose link is unknown and returns them.
	InsertNew(ctx context.Context, props []models.Property) ([]models.Property, error)
	All(ctx context.Context) ([]models.Property, error)
	DeleteByLinks(ctx context.Context, links []string) (int64, error)
}
