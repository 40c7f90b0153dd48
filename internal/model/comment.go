package model

import "time"

type Comment struct {
	ID       uint64 `gorm:"primaryKey"`
	PostID   uint64 `gorm:"not null;index:idx_comment_post"`
	AuthorID uint64 `gorm:"not null;index"`
	Body     string `gorm:"type:text;not null"`
	// 创建顺序由自增 ID 保证，列表按 ID 升序返回
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HideType 评论在某个查看者眼中的隐藏类别。可见性是推导出来的，
// 底层评论行从不被改写。
type HideType int

const (
	Visible HideType = 0
	// HiddenBanned 通用类别：当前上下文无法区分拉黑方向时使用（如按 ID 单查）
	HiddenBanned HideType = 1
	// HiddenAuthorBanned 查看者拉黑了评论作者：正文替换为占位符，作者置空
	HiddenAuthorBanned HideType = 2
	// HiddenViewerBanned 评论作者拉黑了查看者：正文保留，仅打附加标记
	HiddenViewerBanned HideType = 3
)

// HiddenCommentBody 各隐藏类别的固定占位正文
func HiddenCommentBody(t HideType) string {
	switch t {
	case HiddenBanned:
		return "Hidden comment"
	case HiddenAuthorBanned:
		return "Comment from a blocked user"
	case HiddenViewerBanned:
		return "Comment hidden by its author"
	}
	return ""
}
