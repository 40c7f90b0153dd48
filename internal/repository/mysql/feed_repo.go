package mysql

import (
	"context"

	"River_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedRepository struct {
	DB *gorm.DB
}

// FeedOfUser 懒创建：每个用户每种类型恰好一条
func (r *FeedRepository) FeedOfUser(ctx context.Context, userID uint64, name string) (*model.Feed, error) {
	var feed model.Feed
	err := r.DB.WithContext(ctx).
		Where(model.Feed{UserID: userID, Name: name}).
		FirstOrCreate(&feed).Error
	return &feed, err
}

// FeedsOfUsers 批量懒创建，返回顺序跟随 userIDs
func (r *FeedRepository) FeedsOfUsers(ctx context.Context, userIDs []uint64, name string) ([]model.Feed, error) {
	feeds := make([]model.Feed, 0, len(userIDs))
	for _, uid := range userIDs {
		feed, err := r.FeedOfUser(ctx, uid, name)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, *feed)
	}
	return feeds, nil
}

func (r *FeedRepository) FeedByID(ctx context.Context, id uint64) (*model.Feed, error) {
	var feed model.Feed
	err := r.DB.WithContext(ctx).First(&feed, id).Error
	return &feed, err
}

func (r *FeedRepository) FeedsByIDs(ctx context.Context, ids []uint64) ([]model.Feed, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var feeds []model.Feed
	err := r.DB.WithContext(ctx).Find(&feeds, ids).Error
	return feeds, err
}

// SubscriberIDs 订阅了任一给定 feed 的用户
func (r *FeedRepository) SubscriberIDs(ctx context.Context, feedIDs []uint64) ([]uint64, error) {
	if len(feedIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Distinct("user_id").
		Where("feed_id IN ?", feedIDs).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// Subscribe 幂等订阅，新建时返回 true
func (r *FeedRepository) Subscribe(ctx context.Context, userID, feedID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Subscription{UserID: userID, FeedID: feedID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *FeedRepository) Unsubscribe(ctx context.Context, userID, feedID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND feed_id = ?", userID, feedID).
		Delete(&model.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *FeedRepository) SubscriptionFeedIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("feed_id", &ids).Error
	return ids, err
}

// VisiblePrivateFeedIDs 查看者有权读取的私有 feed：自己拥有的加上已订阅的
func (r *FeedRepository) VisiblePrivateFeedIDs(ctx context.Context, viewerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Raw(`
		SELECT id FROM feeds WHERE user_id = ?
		UNION
		SELECT feed_id FROM subscriptions WHERE user_id = ?`,
		viewerID, viewerID,
	).Scan(&ids).Error
	return ids, err
}

// UserIDsWhoCanSeePrivateFeeds 能读取任一给定私有 feed 的用户：属主加订阅者
func (r *FeedRepository) UserIDsWhoCanSeePrivateFeeds(ctx context.Context, feedIDs []uint64) ([]uint64, error) {
	if len(feedIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := r.DB.WithContext(ctx).Raw(`
		SELECT user_id FROM feeds WHERE id IN ?
		UNION
		SELECT user_id FROM subscriptions WHERE feed_id IN ?`,
		feedIDs, feedIDs,
	).Scan(&ids).Error
	return ids, err
}
