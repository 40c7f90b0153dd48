package mysql

import (
	"context"
	"time"

	"River_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	DB *gorm.DB
}

// CreatePost 写主行并建立目标 feed 成员关系（is_destination=1）
func (r *PostRepository) CreatePost(ctx context.Context, post *model.Post, destFeedIDs []uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, fid := range destFeedIDs {
			pf := model.PostFeed{PostID: post.ID, FeedID: fid, IsDestination: true}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pf).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostRepository) PostByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	return &post, err
}

func (r *PostRepository) UpdatePostBody(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{"body": post.Body, "updated_at": post.UpdatedAt}).Error
}

func (r *PostRepository) SetCommentsDisabled(ctx context.Context, postID uint64, disabled bool) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		Update("comments_disabled", disabled).Error
}

// DeletePost 同步清理成员关系、点赞、本地冒泡、标签关联；评论由上层先行级联
func (r *PostRepository) DeletePost(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostFeed{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.LocalBump{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostHashtag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

// FeedIDsOfPost 按插入顺序返回，先到先得的去重语义依赖这个顺序
func (r *PostRepository) FeedIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.PostFeed{}).
		Where("post_id = ?", postID).
		Order("id").
		Pluck("feed_id", &ids).Error
	return ids, err
}

func (r *PostRepository) DestinationFeedIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.PostFeed{}).
		Where("post_id = ? AND is_destination = ?", postID, true).
		Order("id").
		Pluck("feed_id", &ids).Error
	return ids, err
}

func (r *PostRepository) InsertPostIntoFeeds(ctx context.Context, feedIDs []uint64, postID uint64) error {
	if len(feedIDs) == 0 {
		return nil
	}
	rows := make([]model.PostFeed, 0, len(feedIDs))
	for _, fid := range feedIDs {
		rows = append(rows, model.PostFeed{PostID: postID, FeedID: fid})
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *PostRepository) WithdrawPostFromFeeds(ctx context.Context, feedIDs []uint64, postID uint64) error {
	if len(feedIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("post_id = ? AND feed_id IN ?", postID, feedIDs).
		Delete(&model.PostFeed{}).Error
}

func (r *PostRepository) IsPostInFeed(ctx context.Context, feedID, postID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.PostFeed{}).
		Where("post_id = ? AND feed_id = ?", postID, feedID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostRepository) SetBumpedAt(ctx context.Context, postID uint64, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("bumped_at", at).Error
}

// SetLocalBumps 幂等：已有记录的用户不重复冒泡
func (r *PostRepository) SetLocalBumps(ctx context.Context, postID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]model.LocalBump, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, model.LocalBump{PostID: postID, UserID: uid})
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *PostRepository) LocalBumpsOfUser(ctx context.Context, userID uint64) ([]model.LocalBump, error) {
	var bumps []model.LocalBump
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&bumps).Error
	return bumps, err
}

// DiscussionPosts 自己发过/评过/赞过的帖子，讨论流每次现算不落库
func (r *PostRepository) DiscussionPosts(ctx context.Context, userID uint64, offset, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.DB.WithContext(ctx).Raw(`
		SELECT p.* FROM posts p WHERE p.id IN (
			SELECT id FROM posts WHERE author_id = ?
			UNION
			SELECT post_id FROM comments WHERE author_id = ?
			UNION
			SELECT post_id FROM post_likes WHERE user_id = ?
		)
		ORDER BY p.bumped_at DESC, p.id DESC
		LIMIT ? OFFSET ?`,
		userID, userID, userID, limit, offset).
		Scan(&posts).Error
	return posts, err
}

// PostsOfFeeds 时间线分页，按 bumped_at 倒序；本地冒泡的重排在 service 层做
func (r *PostRepository) PostsOfFeeds(ctx context.Context, feedIDs []uint64, offset, limit int) ([]model.Post, error) {
	if len(feedIDs) == 0 {
		return nil, nil
	}
	var posts []model.Post
	err := r.DB.WithContext(ctx).
		Distinct("posts.*").
		Joins("JOIN post_feeds ON post_feeds.post_id = posts.id").
		Where("post_feeds.feed_id IN ?", feedIDs).
		Order("posts.bumped_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
