package service

import (
	"context"
	"fmt"

	"River_Social/internal/model"
)

// TimelineService 各条时间线的读取入口。排序基础是 bumped_at 倒序，
// RiverOfNews 再叠加两层调整：隐藏的帖子剔除、本地冒泡的帖子置顶。
type TimelineService struct {
	users    UserStore
	feeds    FeedStore
	posts    PostStore
	hashtags HashtagStore
	vis      *VisibilityService
	serving  *PostService
}

func NewTimelineService(store Store, vis *VisibilityService, serving *PostService) *TimelineService {
	return &TimelineService{
		users: store, feeds: store, posts: store, hashtags: store,
		vis: vis, serving: serving,
	}
}

// RiverOfNews 本人的河。可见性仍逐帖复查：扇出之后才发生的拉黑要
// 在读路径兜住。
func (s *TimelineService) RiverOfNews(ctx context.Context, userID uint64, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	river, err := s.feeds.FeedOfUser(ctx, userID, model.FeedRiverOfNews)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.PostsOfFeeds(ctx, []uint64{river.ID}, offset, limit)
	if err != nil {
		return nil, err
	}

	hides, err := s.feeds.FeedOfUser(ctx, userID, model.FeedHides)
	if err != nil {
		return nil, err
	}
	visible := make([]model.Post, 0, len(posts))
	for i := range posts {
		hidden, err := s.posts.IsPostInFeed(ctx, hides.ID, posts[i].ID)
		if err != nil {
			return nil, err
		}
		if hidden {
			continue
		}
		visible = append(visible, posts[i])
	}

	reordered, err := s.applyLocalBumps(ctx, userID, visible)
	if err != nil {
		return nil, err
	}
	return s.serveAll(ctx, reordered, userID, opts)
}

// UserPosts 某账号（用户或小组）的 Posts 时间线
func (s *TimelineService) UserPosts(ctx context.Context, username string, viewerID uint64, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	owner, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	feed, err := s.feeds.FeedOfUser(ctx, owner.ID, model.FeedPosts)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.PostsOfFeeds(ctx, []uint64{feed.ID}, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.serveAll(ctx, posts, viewerID, opts)
}

// MyDiscussions 每次现算：发过/评过/赞过的帖子，不依赖物化成员关系
func (s *TimelineService) MyDiscussions(ctx context.Context, userID uint64, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	posts, err := s.posts.DiscussionPosts(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.serveAll(ctx, posts, userID, opts)
}

func (s *TimelineService) Directs(ctx context.Context, userID uint64, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	return s.ownFeedTimeline(ctx, userID, model.FeedDirects, offset, limit, opts)
}

func (s *TimelineService) SavedPosts(ctx context.Context, userID uint64, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	return s.ownFeedTimeline(ctx, userID, model.FeedSavedPosts, offset, limit, opts)
}

// UserActivity 某用户的 Likes 或 Comments feed，他人可见
func (s *TimelineService) UserActivity(ctx context.Context, username, feedName string, viewerID uint64, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	if feedName != model.FeedLikes && feedName != model.FeedComments {
		return nil, fmt.Errorf("%w: unknown activity feed %q", ErrValidation, feedName)
	}
	owner, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	feed, err := s.feeds.FeedOfUser(ctx, owner.ID, feedName)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.PostsOfFeeds(ctx, []uint64{feed.ID}, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.serveAll(ctx, posts, viewerID, opts)
}

// HashtagPosts 标签页
func (s *TimelineService) HashtagPosts(ctx context.Context, name string, viewerID uint64, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	posts, err := s.hashtags.PostsWithHashtag(ctx, name, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.serveAll(ctx, posts, viewerID, opts)
}

func (s *TimelineService) ownFeedTimeline(ctx context.Context, userID uint64, feedName string, offset, limit int, opts ServeOptions) ([]*PostView, error) {
	feed, err := s.feeds.FeedOfUser(ctx, userID, feedName)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.PostsOfFeeds(ctx, []uint64{feed.ID}, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.serveAll(ctx, posts, userID, opts)
}

// applyLocalBumps 有本地冒泡的帖子提到页首，冒泡新的在前；
// 只在当前页内重排，全局 bumped_at 不动。
func (s *TimelineService) applyLocalBumps(ctx context.Context, userID uint64, posts []model.Post) ([]model.Post, error) {
	bumps, err := s.posts.LocalBumpsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(bumps) == 0 {
		return posts, nil
	}
	rank := make(map[uint64]int, len(bumps))
	for i, b := range bumps {
		rank[b.PostID] = i
	}
	bumped := make([]model.Post, 0, len(posts))
	rest := make([]model.Post, 0, len(posts))
	for i := range posts {
		if _, ok := rank[posts[i].ID]; ok {
			bumped = append(bumped, posts[i])
		} else {
			rest = append(rest, posts[i])
		}
	}
	for i := 0; i < len(bumped); i++ {
		for j := i + 1; j < len(bumped); j++ {
			if rank[bumped[j].ID] < rank[bumped[i].ID] {
				bumped[i], bumped[j] = bumped[j], bumped[i]
			}
		}
	}
	return append(bumped, rest...), nil
}

func (s *TimelineService) serveAll(ctx context.Context, posts []model.Post, viewerID uint64, opts ServeOptions) ([]*PostView, error) {
	views := make([]*PostView, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		ok, err := s.vis.IsPostVisibleFor(ctx, post, viewerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		view, err := s.serving.ServePost(ctx, post, viewerID, opts)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
