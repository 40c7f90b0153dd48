package model

import "time"

type Post struct {
	ID       uint64 `gorm:"primaryKey"`
	AuthorID uint64 `gorm:"not null;index:idx_post_author"`
	Body     string `gorm:"type:text;not null"`
	// 评论是否被作者关闭（作者本人仍可评论）
	CommentsDisabled bool `gorm:"not null;default:false"`
	// 可见性标志在创建时由目标 feed 推导，之后不随订阅关系变化
	IsPrivate     bool  `gorm:"not null;default:false"`
	IsProtected   bool  `gorm:"not null;default:false"`
	IsPropagable  bool  `gorm:"not null;default:false"`
	CommentsCount int64 `gorm:"not null;default:0"`
	LikesCount    int64 `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// BumpedAt 决定时间线排序，点赞不改动它
	BumpedAt time.Time `gorm:"index:idx_post_bumped"`
}

// PostFeed 帖子与 feed 的成员关系。is_destination 标记作者显式投递的子集，
// 其余行由扇出产生；成员集合只增不减（整帖删除除外）。
type PostFeed struct {
	ID            uint64 `gorm:"primaryKey"`
	PostID        uint64 `gorm:"not null;index;uniqueIndex:uk_post_feed"`
	FeedID        uint64 `gorm:"not null;index;uniqueIndex:uk_post_feed"`
	IsDestination bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

func (PostFeed) TableName() string { return "post_feeds" }

// LocalBump 针对单个用户的置顶覆盖：点赞扇出触达的新用户在自己的 river
// 里把帖子视为刚刚冒泡，全局 bumped_at 不动。
type LocalBump struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_bump_post_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_bump_post_user"`
	CreatedAt time.Time
}

func (LocalBump) TableName() string { return "local_bumps" }
