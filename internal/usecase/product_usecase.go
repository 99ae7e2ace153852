package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
	idGen         IDGenerator
	clock         Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		idGen:         idGen,
		clock:         clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	CategoryID *int64
	Q          string
	Page       int
	Limit      int
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, userID int64, in ListProductsInput) (ProductListOutput, error) {
	if userID <= 0 {
		return ProductListOutput{}, ErrAuthRequired
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 50
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	items, total, err := u.productRepo.List(ctx, userID, repo.ProductListQuery{
		CategoryID: in.CategoryID,
		Q:          strings.TrimSpace(in.Q),
		Page:       in.Page,
		Limit:      in.Limit,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, userID int64, productID int64) (model.Product, error) {
	if userID <= 0 {
		return model.Product{}, ErrAuthRequired
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

type SaveProductInput struct {
	Name        string
	Description string
	Price       int64
	SKU         string
	ImageURL    string

	//nil = 在庫管理しない
	StockQuantity *int64

	//nil = カテゴリを変更しない、空 = 全カテゴリ解除
	CategoryIDs []int64
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, userID int64, in SaveProductInput) (model.Product, error) {
	if userID <= 0 {
		return model.Product{}, ErrAuthRequired
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		//未指定ならSKUを採番する
		sku = "SKU-" + strings.ToUpper(strings.ReplaceAll(u.idGen.NewID(), "-", "")[:8])
	}

	p := model.Product{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		SKU:           sku,
		ImageURL:      in.ImageURL,
		StockQuantity: in.StockQuantity,
		IsActive:      true,
	}

	created, err := u.productRepo.Create(ctx, p, in.CategoryIDs)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, userID int64, productID int64, in SaveProductInput) (model.Product, error) {
	if userID <= 0 {
		return model.Product{}, ErrAuthRequired
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	current, err := u.productRepo.FindByID(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Description = in.Description
	current.Price = in.Price
	if strings.TrimSpace(in.SKU) != "" {
		current.SKU = strings.TrimSpace(in.SKU)
	}
	current.ImageURL = in.ImageURL
	current.StockQuantity = in.StockQuantity

	if err := u.productRepo.Update(ctx, current, in.CategoryIDs); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.productRepo.FindByID(ctx, userID, productID)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return ErrAuthRequired
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// SetStockは在庫の絶対値を設定する。調整履歴と監査ログも残す。
func (u *ProductUsecase) SetStock(ctx context.Context, userID int64, productID int64, newStock int64, reason string) error {
	if userID <= 0 {
		return ErrAuthRequired
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "manual adjustment"
	}

	current, err := u.productRepo.FindByID(ctx, userID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var before int64
	if current.StockQuantity != nil {
		before = *current.StockQuantity
	}

	if err := u.inventoryRepo.SetStock(ctx, userID, productID, newStock); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID: productID,
		UserID:    userID,
		Delta:     newStock - before,
		Reason:    reason,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	beforeJSON, _ := json.Marshal(map[string]*int64{"stock_quantity": current.StockQuantity})
	afterJSON, _ := json.Marshal(map[string]int64{"stock_quantity": newStock})

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  userID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

type AuditLogListOutput struct {
	Items []model.AuditLog `json:"items"`
}

// 直近の操作履歴（在庫・商品の変更）
func (u *ProductUsecase) ListAuditLogs(ctx context.Context, userID int64, limit int) (AuditLogListOutput, error) {
	if userID <= 0 {
		return AuditLogListOutput{}, ErrAuthRequired
	}

	items, err := u.auditRepo.ListByActor(ctx, userID, limit)
	if err != nil {
		return AuditLogListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AuditLogListOutput{Items: items}, nil
}

func validateProductInput(in SaveProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}
