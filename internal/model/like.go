package model

import "time"

// PostLike (post_id, user_id) 唯一，存在即事实
type PostLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_post_like"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_post_like"`
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_likes" }

type CommentLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_comment_like"`
	CommentID uint64 `gorm:"not null;index;uniqueIndex:uk_comment_like"`
	CreatedAt time.Time
}

func (CommentLike) TableName() string { return "comment_likes" }
