package service

import (
	"context"

	"River_Social/internal/model"
)

// VisibilityService 读路径的可见性引擎。帖子级是硬排除（任一方向拉黑
// 即不可见），评论级是软渲染（占位/打标，底层行不动）。
type VisibilityService struct {
	users UserStore
	feeds FeedStore
	posts PostStore
	bans  *BanService
}

func NewVisibilityService(users UserStore, feeds FeedStore, posts PostStore, bans *BanService) *VisibilityService {
	return &VisibilityService{users: users, feeds: feeds, posts: posts, bans: bans}
}

// IsPostVisibleFor viewerID 为 0 表示匿名。
// 作者恒可见；与作者互在拉黑对里不可见；受保护帖匿名不可见；
// 私密帖要求查看者的私有可达集合覆盖至少一个目标 feed。
func (s *VisibilityService) IsPostVisibleFor(ctx context.Context, post *model.Post, viewerID uint64) (bool, error) {
	if viewerID == post.AuthorID && viewerID != 0 {
		return true, nil
	}
	if viewerID == 0 {
		// 私密帖必然受保护（deriveFlags 保证），匿名只需看 protected
		return !post.IsProtected, nil
	}
	banned, err := s.bans.InBanPair(ctx, viewerID, post.AuthorID)
	if err != nil {
		return false, err
	}
	if banned {
		return false, nil
	}
	if !post.IsPrivate {
		return true, nil
	}
	destIDs, err := s.posts.DestinationFeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return false, err
	}
	reachable, err := s.feeds.VisiblePrivateFeedIDs(ctx, viewerID)
	if err != nil {
		return false, err
	}
	set := idSet(reachable)
	for _, id := range destIDs {
		if _, ok := set[id]; ok {
			return true, nil
		}
	}
	return false, nil
}

// OnlyUsersCanSeePost 过滤一批用户 id，只留下能看到帖子的。
// 实时扇出用它决定收件人集合。
func (s *VisibilityService) OnlyUsersCanSeePost(ctx context.Context, post *model.Post, userIDs []uint64) ([]uint64, error) {
	out := make([]uint64, 0, len(userIDs))
	for _, uid := range uniqIDs(userIDs) {
		ok, err := s.IsPostVisibleFor(ctx, post, uid)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, uid)
		}
	}
	return out, nil
}

// CommentHideType 某个查看者眼中这条评论的类别。
// 返回 (主类别, 附加类别)：查看者拉黑作者 → HiddenAuthorBanned；
// 作者拉黑查看者 → 主类别仍 Visible，附加 HiddenViewerBanned。
func (s *VisibilityService) CommentHideType(ctx context.Context, comment *model.Comment, viewerID uint64) (model.HideType, model.HideType, error) {
	if viewerID == 0 || viewerID == comment.AuthorID {
		return model.Visible, model.Visible, nil
	}
	viewerBannedAuthor, err := s.bans.HasBanned(ctx, viewerID, comment.AuthorID)
	if err != nil {
		return model.Visible, model.Visible, err
	}
	if viewerBannedAuthor {
		return model.HiddenAuthorBanned, model.Visible, nil
	}
	authorBannedViewer, err := s.bans.HasBanned(ctx, comment.AuthorID, viewerID)
	if err != nil {
		return model.Visible, model.Visible, err
	}
	if authorBannedViewer {
		return model.Visible, model.HiddenViewerBanned, nil
	}
	return model.Visible, model.Visible, nil
}

// CommentView 对外呈现的评论。被隐藏时正文换占位符、作者置空，
// 附加类别只打标不改正文。
type CommentView struct {
	ID                uint64         `json:"id"`
	Body              string         `json:"body"`
	CreatedBy         *uint64        `json:"createdBy"`
	HideType          model.HideType `json:"hideType"`
	SecondaryHideType model.HideType `json:"_hideType,omitempty"`
	CreatedAt         int64          `json:"createdAt"`
}

func serveCommentView(c *model.Comment, hideType, secondary model.HideType) CommentView {
	v := CommentView{
		ID:        c.ID,
		HideType:  hideType,
		CreatedAt: c.CreatedAt.UnixMilli(),
	}
	if hideType == model.Visible {
		author := c.AuthorID
		v.Body = c.Body
		v.CreatedBy = &author
		v.SecondaryHideType = secondary
	} else {
		v.Body = model.HiddenCommentBody(hideType)
	}
	return v
}

// ServeOptions 单次读取的折叠参数
type ServeOptions struct {
	MaxComments int
	AllComments bool
	MaxLikes    int
	AllLikes    bool
}

func DefaultServeOptions() ServeOptions {
	return ServeOptions{MaxComments: 2, MaxLikes: 3}
}

// ServeComments 整个评论列表在查看者眼中的样子。
// 偏好命中的类别整条省略；折叠只在省略后数量 > maxComments 且 > 3 时
// 发生，保留前 maxComments-1 条与最后一条。
func (s *VisibilityService) ServeComments(ctx context.Context, postID, viewerID uint64, comments []model.Comment, opts ServeOptions) ([]CommentView, int, error) {
	var hiddenTypes []model.HideType
	if viewerID != 0 {
		viewer, err := s.users.UserByID(ctx, viewerID)
		if err != nil {
			return nil, 0, err
		}
		hiddenTypes = viewer.HiddenCommentTypes()
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		hideType, secondary, err := s.CommentHideType(ctx, c, viewerID)
		if err != nil {
			return nil, 0, err
		}
		if hideType != model.Visible && containsHideType(hiddenTypes, hideType) {
			continue
		}
		if secondary != model.Visible && containsHideType(hiddenTypes, secondary) {
			continue
		}
		views = append(views, serveCommentView(c, hideType, secondary))
	}

	total := len(views)
	if opts.AllComments || opts.MaxComments <= 0 || total <= opts.MaxComments || total <= 3 {
		return views, 0, nil
	}
	head := opts.MaxComments - 1
	folded := make([]CommentView, 0, opts.MaxComments)
	folded = append(folded, views[:head]...)
	folded = append(folded, views[total-1])
	return folded, total - opts.MaxComments, nil
}

// ServeLikes 点赞者列表：与查看者互拉黑的剔除，查看者自己的赞浮到
// 最前，其余按点赞时间新到旧。超过 maxLikes+1 才折叠，从尾部截断。
func (s *VisibilityService) ServeLikes(ctx context.Context, likerIDs []uint64, viewerID uint64, opts ServeOptions) ([]uint64, int, error) {
	filtered := likerIDs
	if viewerID != 0 {
		banSet, err := s.bans.BannedOrBannedBy(ctx, viewerID)
		if err != nil {
			return nil, 0, err
		}
		exclude := idSet(banSet)
		filtered = make([]uint64, 0, len(likerIDs))
		for _, id := range likerIDs {
			if _, ok := exclude[id]; ok {
				continue
			}
			filtered = append(filtered, id)
		}
		for i, id := range filtered {
			if id == viewerID && i > 0 {
				copy(filtered[1:i+1], filtered[:i])
				filtered[0] = viewerID
				break
			}
		}
	}

	total := len(filtered)
	if opts.AllLikes || opts.MaxLikes <= 0 || total <= opts.MaxLikes+1 {
		return filtered, 0, nil
	}
	return filtered[:opts.MaxLikes], total - opts.MaxLikes, nil
}

func containsHideType(types []model.HideType, t model.HideType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
