package model

import (
	"encoding/json"
	"time"
)

const (
	AccountUser  = "user"
	AccountGroup = "group"
)

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	Username    string `gorm:"uniqueIndex;size:32;not null"`
	Password    string `gorm:"size:255"`
	Email       string `gorm:"size:64"`
	Kind        string `gorm:"size:8;not null;default:user"` // user=普通用户 group=群组
	IsPrivate   bool   `gorm:"not null;default:false"`
	IsProtected bool   `gorm:"not null;default:false"`
	// HideCommentsOfTypes 存 JSON 数组（评论 hideType 列表）。
	// 空串表示未设置，按默认值处理：两类被屏蔽评论都整条省略。
	HideCommentsOfTypes string `gorm:"size:64;not null;default:''"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (u *User) IsUser() bool  { return u.Kind != AccountGroup }
func (u *User) IsGroup() bool { return u.Kind == AccountGroup }

// HiddenCommentTypes 解析 hideCommentsOfTypes 偏好
func (u *User) HiddenCommentTypes() []HideType {
	if u.HideCommentsOfTypes == "" {
		return []HideType{HiddenAuthorBanned, HiddenViewerBanned}
	}
	var types []HideType
	if err := json.Unmarshal([]byte(u.HideCommentsOfTypes), &types); err != nil {
		return []HideType{HiddenAuthorBanned, HiddenViewerBanned}
	}
	return types
}

// SetHiddenCommentTypes 写回偏好（显式空列表与未设置含义不同）
func (u *User) SetHiddenCommentTypes(types []HideType) {
	if types == nil {
		types = []HideType{}
	}
	b, _ := json.Marshal(types)
	u.HideCommentsOfTypes = string(b)
}
