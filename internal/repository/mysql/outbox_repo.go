package mysql

import (
	"context"

	"River_Social/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func (r *OutboxRepository) InsertEvents(ctx context.Context, events []model.RealtimeOutbox) error {
	if len(events) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&events).Error
}

func (r *OutboxRepository) PendingEvents(ctx context.Context, batchSize int) ([]model.RealtimeOutbox, error) {
	var list []model.RealtimeOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OutboxRepository) MarkEventSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.RealtimeOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}

// MarkEventFailed 失败留表，重试计数加一
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.RealtimeOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}
