package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
)

// emailのユニーク制約に衝突した
var ErrEmailTaken = errors.New("email already taken")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}
