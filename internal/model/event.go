package model

import "time"

// 实时事件类型
const (
	EventPostNew       = "post:new"
	EventPostUpdate    = "post:update"
	EventPostDestroy   = "post:destroy"
	EventPostHide      = "post:hide"
	EventPostUnhide    = "post:unhide"
	EventPostSave      = "post:save"
	EventPostUnsave    = "post:unsave"
	EventCommentNew    = "comment:new"
	EventCommentUpdate = "comment:update"
	EventCommentDelete = "comment:destroy"
	EventLikeNew       = "like:new"
	EventLikeRemove    = "like:remove"
	EventCommentLike   = "comment_like:new"
	EventCommentUnlike = "comment_like:remove"
)

// RealtimeOutbox 实时事件监控表：发布器按接收者逐行写入，
// 中继器批量取走投给 kafka。user_id=0 表示匿名房间。
type RealtimeOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventID   string `gorm:"size:36;not null"`
	EventType string `gorm:"size:32;not null"`
	Room      string `gorm:"size:64;not null"`
	UserID    uint64 `gorm:"not null;default:0"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RealtimeOutbox) TableName() string { return "realtime_outbox" }
