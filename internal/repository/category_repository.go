package repository

import (
	"context"

	"pos/internal/domain/model"
)

type CategoryRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Category, error)
	FindByID(ctx context.Context, userID int64, categoryID int64) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Rename(ctx context.Context, userID int64, categoryID int64, name string) error
	Delete(ctx context.Context, userID int64, categoryID int64) error
}
