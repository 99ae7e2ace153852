package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

type CategoryListOutput struct {
	Items []model.Category `json:"items"`
}

func (u *CategoryUsecase) ListCategories(ctx context.Context, userID int64) (CategoryListOutput, error) {
	if userID <= 0 {
		return CategoryListOutput{}, ErrAuthRequired
	}

	items, err := u.categoryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CategoryListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CategoryListOutput{Items: items}, nil
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, userID int64, name string) (model.Category, error) {
	if userID <= 0 {
		return model.Category{}, ErrAuthRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if len(name) > 255 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name too long")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{UserID: userID, Name: name})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CategoryUsecase) RenameCategory(ctx context.Context, userID int64, categoryID int64, name string) error {
	if userID <= 0 {
		return ErrAuthRequired
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}

	err := u.categoryRepo.Rename(ctx, userID, categoryID, name)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CategoryUsecase) DeleteCategory(ctx context.Context, userID int64, categoryID int64) error {
	if userID <= 0 {
		return ErrAuthRequired
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	err := u.categoryRepo.Delete(ctx, userID, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
