package model

import "time"

// 每个用户每种类型各有一条 feed，(user_id, name) 为自然键
const (
	FeedPosts         = "Posts"
	FeedDirects       = "Directs"
	FeedLikes         = "Likes"
	FeedComments      = "Comments"
	FeedRiverOfNews   = "RiverOfNews"
	FeedMyDiscussions = "MyDiscussions"
	FeedHides         = "Hides"
	FeedSavedPosts    = "SavedPosts"
)

type Feed struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_feed_owner_name"`
	Name      string `gorm:"size:16;not null;uniqueIndex:uk_feed_owner_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f *Feed) IsPosts() bool       { return f.Name == FeedPosts }
func (f *Feed) IsDirects() bool     { return f.Name == FeedDirects }
func (f *Feed) IsLikes() bool       { return f.Name == FeedLikes }
func (f *Feed) IsComments() bool    { return f.Name == FeedComments }
func (f *Feed) IsRiverOfNews() bool { return f.Name == FeedRiverOfNews }
func (f *Feed) IsHides() bool       { return f.Name == FeedHides }

// IsActivity 点赞/评论产生的动态 feed
func (f *Feed) IsActivity() bool { return f.IsLikes() || f.IsComments() }

// IsDestination 帖子可直接投递的 feed
func (f *Feed) IsDestination() bool { return f.IsPosts() || f.IsDirects() }

// Subscription 用户订阅某条 feed（订阅一个用户即订阅其 Posts feed）
type Subscription struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_sub_user_feed"`
	FeedID    uint64 `gorm:"not null;index;uniqueIndex:uk_sub_user_feed"`
	CreatedAt time.Time
}
