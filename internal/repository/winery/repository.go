package winery

import (
	"context"

	"winetour-backend/internal/domain"
)

// Repository is read-only: the winery catalog is owned elsewhere, this core
// only reads display fields.
type Repository interface {
	List(ctx context.Context) ([]domain.Winery, error)
	GetByID(ctx context.Context, id int64) (*domain.Winery, error)
}
