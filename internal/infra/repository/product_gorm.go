package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) List(ctx context.Context, userID int64, q repo.ProductListQuery) ([]model.Product, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}

	base := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("products.user_id = ? AND products.is_active = ?", userID, true)

	//カテゴリ絞り込み（多対多join）
	if q.CategoryID != nil {
		base = base.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", *q.CategoryID)
	}

	//名前・SKUの部分一致
	if q.Q != "" {
		like := "%" + q.Q + "%"
		base = base.Where("products.name ILIKE ? OR products.sku ILIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	var items []model.Product
	offset := (q.Page - 1) * q.Limit
	err := base.Preload("Categories").
		Order("products.name asc").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Product{}, 0, err
	}

	return items, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, userID int64, productID int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ? AND user_id = ?", productID, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product, categoryIDs []int64) (model.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Categories").Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	if err := r.replaceCategories(ctx, &p, categoryIDs); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product, categoryIDs []int64) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Select("name", "description", "price", "sku", "image_url", "stock_quantity", "is_active").
		Updates(map[string]interface{}{
			"name":           p.Name,
			"description":    p.Description,
			"price":          p.Price,
			"sku":            p.SKU,
			"image_url":      p.ImageURL,
			"stock_quantity": p.StockQuantity,
			"is_active":      p.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return r.replaceCategories(ctx, &p, categoryIDs)
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, userID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", productID, userID).
		Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫の権威ある現在値を点読みする。NULL（在庫管理なし）はnil。
func (r *ProductGormRepository) QueryStock(ctx context.Context, userID int64, productID int64) (*int64, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Select("id", "stock_quantity").
		Where("id = ? AND user_id = ?", productID, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p.StockQuantity, nil
}

// 多対多の張り替え。nilなら触らない、空スライスなら全解除。
func (r *ProductGormRepository) replaceCategories(ctx context.Context, p *model.Product, categoryIDs []int64) error {
	if categoryIDs == nil {
		return nil
	}
	cats := make([]model.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		cats = append(cats, model.Category{ID: id})
	}
	return r.db.WithContext(ctx).Model(p).Association("Categories").Replace(cats)
}
