package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"River_Social/internal/model"
	"River_Social/internal/pkg"

	"golang.org/x/sync/errgroup"
)

// PostService 发帖路径的变更引擎。主行落库成功后扇出、标签、附件等
// 子操作并发执行，失败向上冒泡但不回滚主行。
type PostService struct {
	users       UserStore
	feeds       FeedStore
	posts       PostStore
	comments    CommentStore
	likes       LikeStore
	hashtags    HashtagStore
	attachments AttachmentStore
	bans        *BanService
	resolver    *FeedService
	vis         *VisibilityService
	pub         Publisher
}

func NewPostService(store Store, bans *BanService, resolver *FeedService, vis *VisibilityService, pub Publisher) *PostService {
	return &PostService{
		users: store, feeds: store, posts: store, comments: store, likes: store,
		hashtags: store, attachments: store,
		bans: bans, resolver: resolver, vis: vis, pub: pub,
	}
}

// CreatePost destFeedIDs 为空时投到作者自己的 Posts feed。
// 可见性标志在这里一次性推导，此后不随订阅关系变化。
func (s *PostService) CreatePost(ctx context.Context, authorID uint64, body string, destFeedIDs []uint64, attachmentIDs []uint64, commentsDisabled bool) (*model.Post, error) {
	trimmed, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	author, err := s.users.UserByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: author", ErrNotFound)
	}

	if len(destFeedIDs) == 0 {
		own, err := s.feeds.FeedOfUser(ctx, authorID, model.FeedPosts)
		if err != nil {
			return nil, err
		}
		destFeedIDs = []uint64{own.ID}
	}
	destFeedIDs = uniqIDs(destFeedIDs)

	destFeeds, err := s.feeds.FeedsByIDs(ctx, destFeedIDs)
	if err != nil {
		return nil, err
	}
	if len(destFeeds) != len(destFeedIDs) {
		return nil, fmt.Errorf("%w: destination feed", ErrNotFound)
	}
	owners, err := s.ownersOf(ctx, destFeeds)
	if err != nil {
		return nil, err
	}
	if err := s.checkDestinations(ctx, author, destFeeds, owners); err != nil {
		return nil, err
	}

	isPrivate, isProtected, isPropagable := deriveFlags(destFeeds, owners)
	now := time.Now()
	post := &model.Post{
		AuthorID:         authorID,
		Body:             trimmed,
		CommentsDisabled: commentsDisabled,
		IsPrivate:        isPrivate,
		IsProtected:      isProtected,
		IsPropagable:     isPropagable,
		BumpedAt:         now,
	}
	if err := s.posts.CreatePost(ctx, post, destFeedIDs); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.linkAttachments(gctx, post.ID, attachmentIDs) })
	g.Go(func() error {
		names := pkg.ExtractHashtags(strings.ToLower(trimmed))
		return s.hashtags.LinkPostHashtags(gctx, names, post.ID)
	})
	g.Go(func() error { return s.fanOutOnCreate(gctx, post) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.touchGroups(ctx, destFeeds, owners, post.CreatedAt); err != nil {
		return nil, err
	}
	if err := s.pub.NewPost(ctx, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost 仅作者可改。标签做差量调和，未变的标签保留原关联时间。
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint64, body string, attachmentIDs []uint64) (*model.Post, error) {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}
	if post.AuthorID != userID {
		return nil, fmt.Errorf("%w: you can not update another user's post", ErrPermission)
	}
	trimmed, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	post.Body = trimmed
	post.UpdatedAt = time.Now()
	if err := s.posts.UpdatePostBody(ctx, post); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.reconcileHashtags(gctx, post.ID, trimmed) })
	if attachmentIDs != nil {
		g.Go(func() error { return s.reconcileAttachments(gctx, post.ID, attachmentIDs) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.pub.UpdatePost(ctx, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) SetCommentsDisabled(ctx context.Context, userID, postID uint64, disabled bool) error {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("%w: post", ErrNotFound)
	}
	if post.AuthorID != userID {
		return fmt.Errorf("%w: you can not manage another user's post", ErrPermission)
	}
	if err := s.posts.SetCommentsDisabled(ctx, postID, disabled); err != nil {
		return err
	}
	return s.pub.UpdatePost(ctx, postID)
}

// DeletePost 先取房间列表再删行，删完才能把 destroy 事件发给原受众
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("%w: post", ErrNotFound)
	}
	if post.AuthorID != userID {
		return fmt.Errorf("%w: you can not delete another user's post", ErrPermission)
	}
	rooms, err := s.pub.RoomsOfPost(ctx, postID)
	if err != nil {
		return err
	}
	comments, err := s.comments.CommentsOfPost(ctx, postID)
	if err != nil {
		return err
	}
	for i := range comments {
		if err := s.comments.DeleteComment(ctx, comments[i].ID); err != nil {
			return err
		}
	}
	names, err := s.hashtags.HashtagNamesOfPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.hashtags.UnlinkPostHashtags(ctx, names, postID); err != nil {
		return err
	}
	attIDs, err := s.attachments.AttachmentIDsOfPost(ctx, postID)
	if err != nil {
		return err
	}
	for _, id := range attIDs {
		if err := s.attachments.UnlinkAttachment(ctx, id, postID); err != nil {
			return err
		}
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}
	return s.pub.DestroyPost(ctx, postID, rooms)
}

// HidePost 只动 Hides feed 成员关系，不影响他人视图。幂等。
func (s *PostService) HidePost(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.togglePersonalFeed(ctx, userID, postID, model.FeedHides, true, s.pub.HidePost)
}

func (s *PostService) UnhidePost(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.togglePersonalFeed(ctx, userID, postID, model.FeedHides, false, s.pub.UnhidePost)
}

func (s *PostService) SavePost(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.togglePersonalFeed(ctx, userID, postID, model.FeedSavedPosts, true, s.pub.SavePost)
}

func (s *PostService) UnsavePost(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.togglePersonalFeed(ctx, userID, postID, model.FeedSavedPosts, false, s.pub.UnsavePost)
}

// PostView 对某个查看者渲染后的帖子
type PostView struct {
	ID               uint64        `json:"id"`
	Body             string        `json:"body"`
	CreatedBy        uint64        `json:"createdBy"`
	CommentsDisabled bool          `json:"commentsDisabled"`
	IsPrivate        bool          `json:"isPrivate"`
	IsProtected      bool          `json:"isProtected"`
	PostedTo         []uint64      `json:"postedTo"`
	Comments         []CommentView `json:"comments"`
	OmittedComments  int           `json:"omittedComments"`
	Likes            []uint64      `json:"likes"`
	OmittedLikes     int           `json:"omittedLikes"`
	Attachments      []uint64      `json:"attachments"`
	Hashtags         []string      `json:"hashtags,omitempty"`
	CreatedAt        int64         `json:"createdAt"`
	UpdatedAt        int64         `json:"updatedAt"`
	BumpedAt         int64         `json:"bumpedAt"`
}

// GetPost 不可见一律按不存在处理，不泄露帖子是否存在
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint64, opts ServeOptions) (*PostView, error) {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}
	visible, err := s.vis.IsPostVisibleFor(ctx, post, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}
	return s.ServePost(ctx, post, viewerID, opts)
}

// ServePost 渲染单帖，调用方负责可见性
func (s *PostService) ServePost(ctx context.Context, post *model.Post, viewerID uint64, opts ServeOptions) (*PostView, error) {
	comments, err := s.comments.CommentsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	commentViews, omittedComments, err := s.vis.ServeComments(ctx, post.ID, viewerID, comments, opts)
	if err != nil {
		return nil, err
	}
	likerIDs, err := s.likes.LikerIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	likes, omittedLikes, err := s.vis.ServeLikes(ctx, likerIDs, viewerID, opts)
	if err != nil {
		return nil, err
	}
	destIDs, err := s.posts.DestinationFeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	attIDs, err := s.attachments.AttachmentIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	tags, err := s.hashtags.HashtagNamesOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostView{
		ID:               post.ID,
		Body:             post.Body,
		CreatedBy:        post.AuthorID,
		CommentsDisabled: post.CommentsDisabled,
		IsPrivate:        post.IsPrivate,
		IsProtected:      post.IsProtected,
		PostedTo:         destIDs,
		Comments:         commentViews,
		OmittedComments:  omittedComments,
		Likes:            likes,
		OmittedLikes:     omittedLikes,
		Attachments:      attIDs,
		Hashtags:         tags,
		CreatedAt:        post.CreatedAt.UnixMilli(),
		UpdatedAt:        post.UpdatedAt.UnixMilli(),
		BumpedAt:         post.BumpedAt.UnixMilli(),
	}, nil
}

func (s *PostService) togglePersonalFeed(ctx context.Context, userID, postID uint64, feedName string, insert bool, publish func(context.Context, uint64, uint64) error) (bool, error) {
	if _, err := s.posts.PostByID(ctx, postID); err != nil {
		return false, fmt.Errorf("%w: post", ErrNotFound)
	}
	feed, err := s.feeds.FeedOfUser(ctx, userID, feedName)
	if err != nil {
		return false, err
	}
	present, err := s.posts.IsPostInFeed(ctx, feed.ID, postID)
	if err != nil {
		return false, err
	}
	if present == insert {
		return false, nil
	}
	if insert {
		err = s.posts.InsertPostIntoFeeds(ctx, []uint64{feed.ID}, postID)
	} else {
		err = s.posts.WithdrawPostFromFeeds(ctx, []uint64{feed.ID}, postID)
	}
	if err != nil {
		return false, err
	}
	if err := publish(ctx, userID, postID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostService) ownersOf(ctx context.Context, feeds []model.Feed) (map[uint64]*model.User, error) {
	ids := make([]uint64, 0, len(feeds))
	for _, f := range feeds {
		ids = append(ids, f.UserID)
	}
	users, err := s.users.UsersByIDs(ctx, uniqIDs(ids))
	if err != nil {
		return nil, err
	}
	owners := make(map[uint64]*model.User, len(users))
	for i := range users {
		owners[users[i].ID] = &users[i]
	}
	return owners, nil
}

// checkDestinations 投递合法性：只能投 Posts/Directs；投小组要求已订阅；
// 私信要求双方不在拉黑对里。
func (s *PostService) checkDestinations(ctx context.Context, author *model.User, destFeeds []model.Feed, owners map[uint64]*model.User) error {
	subIDs, err := s.feeds.SubscriptionFeedIDs(ctx, author.ID)
	if err != nil {
		return err
	}
	subscribed := idSet(subIDs)
	for _, f := range destFeeds {
		owner, ok := owners[f.UserID]
		if !ok {
			return fmt.Errorf("%w: feed owner", ErrNotFound)
		}
		if !f.IsDestination() {
			return fmt.Errorf("%w: you can not post to a %q feed", ErrValidation, f.Name)
		}
		if f.UserID == author.ID {
			continue
		}
		if f.IsPosts() {
			if !owner.IsGroup() {
				return fmt.Errorf("%w: you can not post to another user's feed", ErrPermission)
			}
			if _, ok := subscribed[f.ID]; !ok {
				return fmt.Errorf("%w: you are not subscribed to group %s", ErrPermission, owner.Username)
			}
			continue
		}
		banned, err := s.bans.InBanPair(ctx, author.ID, f.UserID)
		if err != nil {
			return err
		}
		if banned {
			return fmt.Errorf("%w: you can not send a direct message to this user", ErrPermission)
		}
	}
	return nil
}

// deriveFlags 私密=所有目标要么私信要么私密账号；受保护在私密之上放宽；
// 可传播=存在非私密账号的 Posts 目标
func deriveFlags(destFeeds []model.Feed, owners map[uint64]*model.User) (isPrivate, isProtected, isPropagable bool) {
	isPrivate = true
	allProtected := true
	for _, f := range destFeeds {
		owner := owners[f.UserID]
		if f.IsDirects() {
			continue
		}
		if !owner.IsPrivate {
			isPrivate = false
		}
		if !owner.IsPrivate && !owner.IsProtected {
			allProtected = false
		}
		if f.IsPosts() && !owner.IsPrivate {
			isPropagable = true
		}
	}
	isProtected = isPrivate || allProtected
	return isPrivate, isProtected, isPropagable
}

// fanOutOnCreate 创建时物化 RiverOfNews 成员关系，bumped_at 已由创建设好
func (s *PostService) fanOutOnCreate(ctx context.Context, post *model.Post) error {
	rivers, err := s.resolver.RiverOfNewsFeeds(ctx, post)
	if err != nil {
		return err
	}
	current, err := s.posts.FeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return err
	}
	ids := make([]uint64, 0, len(rivers))
	for _, f := range rivers {
		ids = append(ids, f.ID)
	}
	missing := diffIDs(uniqIDs(ids), current)
	return s.posts.InsertPostIntoFeeds(ctx, missing, post.ID)
}

// touchGroups 只有发帖动作触动小组的 updated_at，评论点赞都不触动
func (s *PostService) touchGroups(ctx context.Context, destFeeds []model.Feed, owners map[uint64]*model.User, at time.Time) error {
	var groupIDs []uint64
	for _, f := range destFeeds {
		if !f.IsPosts() {
			continue
		}
		if owner := owners[f.UserID]; owner != nil && owner.IsGroup() {
			groupIDs = append(groupIDs, owner.ID)
		}
	}
	if len(groupIDs) == 0 {
		return nil
	}
	return s.users.TouchGroups(ctx, uniqIDs(groupIDs), at)
}

func (s *PostService) linkAttachments(ctx context.Context, postID uint64, attachmentIDs []uint64) error {
	if len(attachmentIDs) == 0 {
		return nil
	}
	atts, err := s.attachments.AttachmentsByIDs(ctx, attachmentIDs)
	if err != nil {
		return err
	}
	if len(atts) != len(uniqIDs(attachmentIDs)) {
		return fmt.Errorf("%w: attachment", ErrNotFound)
	}
	for ord, id := range attachmentIDs {
		if err := s.attachments.LinkAttachment(ctx, id, postID, ord); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostService) reconcileAttachments(ctx context.Context, postID uint64, wantIDs []uint64) error {
	currentIDs, err := s.attachments.AttachmentIDsOfPost(ctx, postID)
	if err != nil {
		return err
	}
	for _, id := range diffIDs(currentIDs, wantIDs) {
		if err := s.attachments.UnlinkAttachment(ctx, id, postID); err != nil {
			return err
		}
	}
	for ord, id := range wantIDs {
		if err := s.attachments.LinkAttachment(ctx, id, postID, ord); err != nil {
			return err
		}
	}
	return nil
}

// reconcileHashtags 差量更新：新增建关联、消失的摘链，原有关联不动
func (s *PostService) reconcileHashtags(ctx context.Context, postID uint64, body string) error {
	current, err := s.hashtags.HashtagNamesOfPost(ctx, postID)
	if err != nil {
		return err
	}
	wanted := pkg.ExtractHashtags(strings.ToLower(body))
	currentSet := make(map[string]struct{}, len(current))
	for _, n := range current {
		currentSet[n] = struct{}{}
	}
	wantedSet := make(map[string]struct{}, len(wanted))
	for _, n := range wanted {
		wantedSet[n] = struct{}{}
	}
	var toLink, toUnlink []string
	for _, n := range wanted {
		if _, ok := currentSet[n]; !ok {
			toLink = append(toLink, n)
		}
	}
	for _, n := range current {
		if _, ok := wantedSet[n]; !ok {
			toUnlink = append(toUnlink, n)
		}
	}
	if len(toUnlink) > 0 {
		if err := s.hashtags.UnlinkPostHashtags(ctx, toUnlink, postID); err != nil {
			return err
		}
	}
	if len(toLink) > 0 {
		if err := s.hashtags.LinkPostHashtags(ctx, toLink, postID); err != nil {
			return err
		}
	}
	return nil
}
