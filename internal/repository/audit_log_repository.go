package repository

import (
	"context"

	"pos/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	ListByActor(ctx context.Context, actorUserID int64, limit int) ([]model.AuditLog, error)
}
