package model

import "time"

type Hashtag struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
}

// PostHashtag 保留 created_at：更新正文时未变化的标签不重写，
// 维持标签与帖子的关联时间顺序。
type PostHashtag struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_post_hashtag"`
	HashtagID uint64 `gorm:"not null;index;uniqueIndex:uk_post_hashtag"`
	CreatedAt time.Time
}

func (PostHashtag) TableName() string { return "post_hashtags" }
