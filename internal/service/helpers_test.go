package service

import (
	"context"
	"testing"

	"River_Social/internal/model"

	"github.com/stretchr/testify/require"
)

// world 一套完整接线的服务，底下是 memStore，发布器用真实的
// RealtimeService（事件落在 memStore 的 outbox 里，方便断言）。
type world struct {
	store     *memStore
	bans      *BanService
	vis       *VisibilityService
	resolver  *FeedService
	pub       *RealtimeService
	users     *UserService
	posts     *PostService
	comments  *CommentService
	likes     *LikeService
	timelines *TimelineService
}

func newWorld() *world {
	store := newMemStore()
	bans := NewBanService(store, nil)
	vis := NewVisibilityService(store, store, store, bans)
	resolver := NewFeedService(store, store, store, store, store, bans)
	pub := NewRealtimeService(store, vis)
	posts := NewPostService(store, bans, resolver, vis, pub)
	return &world{
		store:     store,
		bans:      bans,
		vis:       vis,
		resolver:  resolver,
		pub:       pub,
		users:     NewUserService(store, bans),
		posts:     posts,
		comments:  NewCommentService(store, bans, resolver, vis, pub),
		likes:     NewLikeService(store, resolver, vis, pub),
		timelines: NewTimelineService(store, vis, posts),
	}
}

func (w *world) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := w.users.Register(context.Background(), name, "secret123", name+"@example.com")
	require.NoError(t, err)
	return u
}

func (w *world) privateUser(t *testing.T, name string) *model.User {
	t.Helper()
	u := w.user(t, name)
	require.NoError(t, w.users.SetPrivacy(context.Background(), u.ID, true, true))
	u.IsPrivate = true
	u.IsProtected = true
	return u
}

func (w *world) group(t *testing.T, creator *model.User, name string) *model.User {
	t.Helper()
	g, err := w.users.CreateGroup(context.Background(), creator.ID, name, false, false)
	require.NoError(t, err)
	return g
}

// subscribe follower 订阅 target 的 Posts feed，私密账号直接走底层
func (w *world) subscribe(t *testing.T, follower, target *model.User) {
	t.Helper()
	feed, err := w.store.FeedOfUser(context.Background(), target.ID, model.FeedPosts)
	require.NoError(t, err)
	_, err = w.store.Subscribe(context.Background(), follower.ID, feed.ID)
	require.NoError(t, err)
}

func (w *world) post(t *testing.T, author *model.User, body string, feedIDs ...uint64) *model.Post {
	t.Helper()
	p, err := w.posts.CreatePost(context.Background(), author.ID, body, feedIDs, nil, false)
	require.NoError(t, err)
	return p
}

func (w *world) feedOf(t *testing.T, u *model.User, name string) *model.Feed {
	t.Helper()
	f, err := w.store.FeedOfUser(context.Background(), u.ID, name)
	require.NoError(t, err)
	return f
}

func (w *world) inFeed(t *testing.T, feedID, postID uint64) bool {
	t.Helper()
	ok, err := w.store.IsPostInFeed(context.Background(), feedID, postID)
	require.NoError(t, err)
	return ok
}
