package mysql

import (
	"context"

	"River_Social/internal/model"

	"gorm.io/gorm"
)

// PostCounters 对账用的帖子计数快照
type PostCounters struct {
	ID            uint64
	CommentsCount int64
	LikesCount    int64
}

// CounterReconcilerRepository 冗余计数对账的查询集合
type CounterReconcilerRepository struct {
	DB *gorm.DB
}

// RecentPostCounters 最近活跃的帖子优先对账
func (r *CounterReconcilerRepository) RecentPostCounters(ctx context.Context, batchSize int) ([]PostCounters, error) {
	var rows []PostCounters
	err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Select("id", "comments_count", "likes_count").
		Order("bumped_at DESC").
		Limit(batchSize).
		Scan(&rows).Error
	return rows, err
}

func (r *CounterReconcilerRepository) RealCommentsCount(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *CounterReconcilerRepository) RealLikesCount(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *CounterReconcilerRepository) ReconcileCommentsCount(ctx context.Context, postID uint64, count int64) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comments_count", count).Error
}

func (r *CounterReconcilerRepository) ReconcileLikesCount(ctx context.Context, postID uint64, count int64) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("likes_count", count).Error
}
