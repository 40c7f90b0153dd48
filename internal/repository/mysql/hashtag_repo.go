package mysql

import (
	"context"

	"River_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HashtagRepository struct {
	DB *gorm.DB
}

// LinkPostHashtags 标签不存在则建，再幂等挂接到帖子
func (r *HashtagRepository) LinkPostHashtags(ctx context.Context, names []string, postID uint64) error {
	if len(names) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			var tag model.Hashtag
			if err := tx.Where(model.Hashtag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			link := model.PostHashtag{PostID: postID, HashtagID: tag.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *HashtagRepository) UnlinkPostHashtags(ctx context.Context, names []string, postID uint64) error {
	if len(names) == 0 {
		return nil
	}
	var tagIDs []uint64
	if err := r.DB.WithContext(ctx).Model(&model.Hashtag{}).
		Where("name IN ?", names).
		Pluck("id", &tagIDs).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("post_id = ? AND hashtag_id IN ?", postID, tagIDs).
		Delete(&model.PostHashtag{}).Error
}

// PostsWithHashtag 标签页按 bumped_at 倒序分页
func (r *HashtagRepository) PostsWithHashtag(ctx context.Context, name string, offset, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.DB.WithContext(ctx).
		Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("hashtags.name = ?", name).
		Order("posts.bumped_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// HashtagNamesOfPost 按挂接顺序返回
func (r *HashtagRepository) HashtagNamesOfPost(ctx context.Context, postID uint64) ([]string, error) {
	var names []string
	err := r.DB.WithContext(ctx).Model(&model.PostHashtag{}).
		Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
		Where("post_hashtags.post_id = ?", postID).
		Order("post_hashtags.id").
		Pluck("hashtags.name", &names).Error
	return names, err
}
