package mysql

import (
	"context"

	"River_Social/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

func (r *CommentRepository) CommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).First(&comment, id).Error
	return &comment, err
}

// CommentsOfPost 按创建顺序（自增 ID）升序
func (r *CommentRepository) CommentsOfPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) CommenterIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Distinct("author_id").
		Where("post_id = ?", postID).
		Pluck("author_id", &ids).Error
	return ids, err
}

func (r *CommentRepository) CommentsCountOfPost(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *CommentRepository) UpdateCommentBody(ctx context.Context, comment *model.Comment) error {
	return r.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]any{"body": comment.Body, "updated_at": comment.UpdatedAt}).Error
}

// DeleteComment 连带评论点赞与计数，计数用 CASE 防负
func (r *CommentRepository) DeleteComment(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Comment{}, id).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("CASE WHEN comments_count > 0 THEN comments_count - 1 ELSE 0 END")).Error
	})
}
