package model

import "time"

// Ban 有向边：banner 拉黑 banned。对硬排除判断而言任一方向等价，
// 但占位渲染要区分方向。
type Ban struct {
	ID        uint64 `gorm:"primaryKey"`
	BannerID  uint64 `gorm:"not null;index;uniqueIndex:uk_ban_pair"`
	BannedID  uint64 `gorm:"not null;index;uniqueIndex:uk_ban_pair"`
	CreatedAt time.Time
}

func (Ban) TableName() string { return "bans" }
