package model

import "time"

// Attachment 上传后先以 post_id=0 存在，发帖/改帖时挂接。
// ord 保持作者给出的附件顺序。
type Attachment struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"not null;default:0;index"`
	UserID    uint64 `gorm:"not null;index"`
	FileName  string `gorm:"size:255;not null"`
	FileSize  int64  `gorm:"not null;default:0"`
	Ord       int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
