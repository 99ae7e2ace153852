package usecase_test

import (
	"context"
	"testing"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
	"pos/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCategoryUsecase_CreateCategory_TrimsName(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("Create", mock.Anything, model.Category{UserID: 7, Name: "Drinks"}).
		Return(model.Category{ID: 1, UserID: 7, Name: "Drinks"}, nil)

	created, err := uc.CreateCategory(context.Background(), 7, "  Drinks  ")
	assert.NoError(t, err)
	assert.Equal(t, "Drinks", created.Name)
	categories.AssertExpectations(t)
}

func TestCategoryUsecase_CreateCategory_EmptyName(t *testing.T) {
	uc := usecase.NewCategoryUsecase(new(CategoryRepoMock))

	_, err := uc.CreateCategory(context.Background(), 7, "   ")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCategoryUsecase_RenameCategory_NotFound(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("Rename", mock.Anything, int64(7), int64(99), "Food").Return(repo.ErrNotFound)

	err := uc.RenameCategory(context.Background(), 7, 99, "Food")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCategoryUsecase_DeleteCategory(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("Delete", mock.Anything, int64(7), int64(3)).Return(nil)

	assert.NoError(t, uc.DeleteCategory(context.Background(), 7, 3))
	categories.AssertExpectations(t)
}
