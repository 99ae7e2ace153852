package repository

import (
	"context"

	"pos/internal/domain/model"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *AuditLogGormRepository) ListByActor(ctx context.Context, actorUserID int64, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var items []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("actor_user_id = ?", actorUserID).
		Order("id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.AuditLog{}, err
	}
	return items, nil
}
