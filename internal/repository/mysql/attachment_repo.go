package mysql

import (
	"context"

	"River_Social/internal/model"

	"gorm.io/gorm"
)

type AttachmentRepository struct {
	DB *gorm.DB
}

func (r *AttachmentRepository) AttachmentsByIDs(ctx context.Context, ids []uint64) ([]model.Attachment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Attachment
	err := r.DB.WithContext(ctx).Find(&list, ids).Error
	return list, err
}

func (r *AttachmentRepository) LinkAttachment(ctx context.Context, attachmentID, postID uint64, ord int) error {
	return r.DB.WithContext(ctx).Model(&model.Attachment{}).
		Where("id = ?", attachmentID).
		Updates(map[string]any{"post_id": postID, "ord": ord}).Error
}

// UnlinkAttachment 只解除关联，文件记录保留
func (r *AttachmentRepository) UnlinkAttachment(ctx context.Context, attachmentID, postID uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Attachment{}).
		Where("id = ? AND post_id = ?", attachmentID, postID).
		Updates(map[string]any{"post_id": 0, "ord": 0}).Error
}

func (r *AttachmentRepository) AttachmentIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Attachment{}).
		Where("post_id = ?", postID).
		Order("ord").
		Pluck("id", &ids).Error
	return ids, err
}
