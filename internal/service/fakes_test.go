package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"River_Social/internal/model"

	"gorm.io/gorm"
)

// memStore 内存版 Store，行为对齐 mysql 仓储的约定：
// 幂等写用 bool 表达、列表排序与真实 SQL 一致。
type memStore struct {
	mu     sync.Mutex
	nextID uint64

	users        map[uint64]*model.User
	feeds        []*model.Feed
	subs         []model.Subscription
	posts        map[uint64]*model.Post
	postFeeds    []model.PostFeed
	bumps        []model.LocalBump
	comments     []*model.Comment
	postLikes    []model.PostLike
	commentLikes []model.CommentLike
	bans         []model.Ban
	hashtags     map[string]uint64
	postTags     []model.PostHashtag
	attachments  map[uint64]*model.Attachment
	outbox       []model.RealtimeOutbox

	now time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uint64]*model.User),
		posts:       make(map[uint64]*model.Post),
		hashtags:    make(map[string]uint64),
		attachments: make(map[uint64]*model.Attachment),
		now:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

// tick 每次调用前进一秒，保证时间戳可区分
func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

// --- UserStore ---

func (m *memStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.id()
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *memStore) UserByID(ctx context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) UsersByIDs(ctx context.Context, ids []uint64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memStore) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || (u.Email != "" && u.Email == username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) UpdateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	cp.UpdatedAt = m.tick()
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) TouchGroups(ctx context.Context, ids []uint64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if u, ok := m.users[id]; ok && u.IsGroup() {
			u.UpdatedAt = at
		}
	}
	return nil
}

// --- FeedStore ---

func (m *memStore) FeedOfUser(ctx context.Context, userID uint64, name string) (*model.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.feeds {
		if f.UserID == userID && f.Name == name {
			cp := *f
			return &cp, nil
		}
	}
	f := &model.Feed{ID: m.id(), UserID: userID, Name: name, CreatedAt: m.tick()}
	m.feeds = append(m.feeds, f)
	cp := *f
	return &cp, nil
}

func (m *memStore) FeedsOfUsers(ctx context.Context, userIDs []uint64, name string) ([]model.Feed, error) {
	out := make([]model.Feed, 0, len(userIDs))
	for _, uid := range userIDs {
		f, err := m.FeedOfUser(ctx, uid, name)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, nil
}

func (m *memStore) FeedByID(ctx context.Context, id uint64) (*model.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.feeds {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) FeedsByIDs(ctx context.Context, ids []uint64) ([]model.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var out []model.Feed
	for _, f := range m.feeds {
		if _, ok := set[f.ID]; ok {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memStore) SubscriberIDs(ctx context.Context, feedIDs []uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[uint64]struct{}, len(feedIDs))
	for _, id := range feedIDs {
		set[id] = struct{}{}
	}
	seen := make(map[uint64]struct{})
	var out []uint64
	for _, s := range m.subs {
		if _, ok := set[s.FeedID]; !ok {
			continue
		}
		if _, dup := seen[s.UserID]; dup {
			continue
		}
		seen[s.UserID] = struct{}{}
		out = append(out, s.UserID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *memStore) Subscribe(ctx context.Context, userID, feedID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID == userID && s.FeedID == feedID {
			return false, nil
		}
	}
	m.subs = append(m.subs, model.Subscription{ID: m.id(), UserID: userID, FeedID: feedID, CreatedAt: m.tick()})
	return true, nil
}

func (m *memStore) Unsubscribe(ctx context.Context, userID, feedID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.subs {
		if s.UserID == userID && s.FeedID == feedID {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SubscriptionFeedIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, s.FeedID)
		}
	}
	return out, nil
}

func (m *memStore) VisiblePrivateFeedIDs(ctx context.Context, viewerID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for _, f := range m.feeds {
		if f.UserID == viewerID {
			out = append(out, f.ID)
		}
	}
	for _, s := range m.subs {
		if s.UserID == viewerID {
			out = append(out, s.FeedID)
		}
	}
	return out, nil
}

func (m *memStore) UserIDsWhoCanSeePrivateFeeds(ctx context.Context, feedIDs []uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[uint64]struct{}, len(feedIDs))
	for _, id := range feedIDs {
		set[id] = struct{}{}
	}
	var out []uint64
	for _, f := range m.feeds {
		if _, ok := set[f.ID]; ok {
			out = append(out, f.UserID)
		}
	}
	for _, s := range m.subs {
		if _, ok := set[s.FeedID]; ok {
			out = append(out, s.UserID)
		}
	}
	return out, nil
}

// --- PostStore ---

func (m *memStore) CreatePost(ctx context.Context, post *model.Post, destFeedIDs []uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = m.id()
	post.CreatedAt = m.tick()
	post.UpdatedAt = post.CreatedAt
	if post.BumpedAt.IsZero() {
		post.BumpedAt = post.CreatedAt
	}
	cp := *post
	m.posts[post.ID] = &cp
	for _, fid := range destFeedIDs {
		m.postFeeds = append(m.postFeeds, model.PostFeed{ID: m.id(), PostID: post.ID, FeedID: fid, IsDestination: true})
	}
	return nil
}

func (m *memStore) PostByID(ctx context.Context, id uint64) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) UpdatePostBody(ctx context.Context, post *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[post.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Body = post.Body
	p.UpdatedAt = post.UpdatedAt
	return nil
}

func (m *memStore) SetCommentsDisabled(ctx context.Context, postID uint64, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CommentsDisabled = disabled
	return nil
}

func (m *memStore) DeletePost(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	keepPF := m.postFeeds[:0]
	for _, pf := range m.postFeeds {
		if pf.PostID != id {
			keepPF = append(keepPF, pf)
		}
	}
	m.postFeeds = keepPF
	keepLikes := m.postLikes[:0]
	for _, l := range m.postLikes {
		if l.PostID != id {
			keepLikes = append(keepLikes, l)
		}
	}
	m.postLikes = keepLikes
	keepBumps := m.bumps[:0]
	for _, b := range m.bumps {
		if b.PostID != id {
			keepBumps = append(keepBumps, b)
		}
	}
	m.bumps = keepBumps
	keepTags := m.postTags[:0]
	for _, t := range m.postTags {
		if t.PostID != id {
			keepTags = append(keepTags, t)
		}
	}
	m.postTags = keepTags
	return nil
}

func (m *memStore) FeedIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for _, pf := range m.postFeeds {
		if pf.PostID == postID {
			out = append(out, pf.FeedID)
		}
	}
	return out, nil
}

func (m *memStore) DestinationFeedIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for _, pf := range m.postFeeds {
		if pf.PostID == postID && pf.IsDestination {
			out = append(out, pf.FeedID)
		}
	}
	return out, nil
}

func (m *memStore) InsertPostIntoFeeds(ctx context.Context, feedIDs []uint64, postID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fid := range feedIDs {
		exists := false
		for _, pf := range m.postFeeds {
			if pf.PostID == postID && pf.FeedID == fid {
				exists = true
				break
			}
		}
		if !exists {
			m.postFeeds = append(m.postFeeds, model.PostFeed{ID: m.id(), PostID: postID, FeedID: fid})
		}
	}
	return nil
}

func (m *memStore) WithdrawPostFromFeeds(ctx context.Context, feedIDs []uint64, postID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[uint64]struct{}, len(feedIDs))
	for _, id := range feedIDs {
		set[id] = struct{}{}
	}
	keep := m.postFeeds[:0]
	for _, pf := range m.postFeeds {
		if pf.PostID == postID {
			if _, ok := set[pf.FeedID]; ok {
				continue
			}
		}
		keep = append(keep, pf)
	}
	m.postFeeds = keep
	return nil
}

func (m *memStore) IsPostInFeed(ctx context.Context, feedID, postID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pf := range m.postFeeds {
		if pf.PostID == postID && pf.FeedID == feedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SetBumpedAt(ctx context.Context, postID uint64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[postID]; ok {
		p.BumpedAt = at
	}
	return nil
}

func (m *memStore) SetLocalBumps(ctx context.Context, postID uint64, userIDs []uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uid := range userIDs {
		exists := false
		for _, b := range m.bumps {
			if b.PostID == postID && b.UserID == uid {
				exists = true
				break
			}
		}
		if !exists {
			m.bumps = append(m.bumps, model.LocalBump{ID: m.id(), PostID: postID, UserID: uid, CreatedAt: m.tick()})
		}
	}
	return nil
}

func (m *memStore) LocalBumpsOfUser(ctx context.Context, userID uint64) ([]model.LocalBump, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.LocalBump
	for i := len(m.bumps) - 1; i >= 0; i-- {
		if m.bumps[i].UserID == userID {
			out = append(out, m.bumps[i])
		}
	}
	return out, nil
}

func (m *memStore) PostsOfFeeds(ctx context.Context, feedIDs []uint64, offset, limit int) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[uint64]struct{}, len(feedIDs))
	for _, id := range feedIDs {
		set[id] = struct{}{}
	}
	seen := make(map[uint64]struct{})
	var out []model.Post
	for _, pf := range m.postFeeds {
		if _, ok := set[pf.FeedID]; !ok {
			continue
		}
		if _, dup := seen[pf.PostID]; dup {
			continue
		}
		seen[pf.PostID] = struct{}{}
		if p, ok := m.posts[pf.PostID]; ok {
			out = append(out, *p)
		}
	}
	sortPostsByBump(out)
	return pagePosts(out, offset, limit), nil
}

func (m *memStore) DiscussionPosts(ctx context.Context, userID uint64, offset, limit int) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[uint64]struct{})
	for _, p := range m.posts {
		if p.AuthorID == userID {
			ids[p.ID] = struct{}{}
		}
	}
	for _, c := range m.comments {
		if c.AuthorID == userID {
			ids[c.PostID] = struct{}{}
		}
	}
	for _, l := range m.postLikes {
		if l.UserID == userID {
			ids[l.PostID] = struct{}{}
		}
	}
	var out []model.Post
	for id := range ids {
		if p, ok := m.posts[id]; ok {
			out = append(out, *p)
		}
	}
	sortPostsByBump(out)
	return pagePosts(out, offset, limit), nil
}

func sortPostsByBump(posts []model.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].BumpedAt.Equal(posts[j].BumpedAt) {
			return posts[i].BumpedAt.After(posts[j].BumpedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

func pagePosts(posts []model.Post, offset, limit int) []model.Post {
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// --- CommentStore ---

func (m *memStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.id()
	comment.CreatedAt = m.tick()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	m.comments = append(m.comments, &cp)
	if p, ok := m.posts[comment.PostID]; ok {
		p.CommentsCount++
	}
	return nil
}

func (m *memStore) CommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) CommentsOfPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) CommenterIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uint64]struct{})
	var out []uint64
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		if _, dup := seen[c.AuthorID]; dup {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		out = append(out, c.AuthorID)
	}
	return out, nil
}

func (m *memStore) CommentsCountOfPost(ctx context.Context, postID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpdateCommentBody(ctx context.Context, comment *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == comment.ID {
			c.Body = comment.Body
			c.UpdatedAt = comment.UpdatedAt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStore) DeleteComment(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.comments {
		if c.ID == id {
			if p, ok := m.posts[c.PostID]; ok && p.CommentsCount > 0 {
				p.CommentsCount--
			}
			keep := m.commentLikes[:0]
			for _, l := range m.commentLikes {
				if l.CommentID != id {
					keep = append(keep, l)
				}
			}
			m.commentLikes = keep
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- LikeStore ---

func (m *memStore) LikePost(ctx context.Context, postID, userID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.postLikes {
		if l.PostID == postID && l.UserID == userID {
			return false, nil
		}
	}
	m.postLikes = append(m.postLikes, model.PostLike{ID: m.id(), PostID: postID, UserID: userID, CreatedAt: m.tick()})
	if p, ok := m.posts[postID]; ok {
		p.LikesCount++
	}
	return true, nil
}

func (m *memStore) UnlikePost(ctx context.Context, postID, userID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.postLikes {
		if l.PostID == postID && l.UserID == userID {
			m.postLikes = append(m.postLikes[:i], m.postLikes[i+1:]...)
			if p, ok := m.posts[postID]; ok && p.LikesCount > 0 {
				p.LikesCount--
			}
			return true, nil
		}
	}
	return false, nil
}

// LikerIDsOfPost 新赞在前，对齐 id DESC
func (m *memStore) LikerIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for i := len(m.postLikes) - 1; i >= 0; i-- {
		if m.postLikes[i].PostID == postID {
			out = append(out, m.postLikes[i].UserID)
		}
	}
	return out, nil
}

func (m *memStore) HasLikedPost(ctx context.Context, postID, userID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.postLikes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) LikesCountOfPost(ctx context.Context, postID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.postLikes {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) LikeComment(ctx context.Context, commentID, userID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.commentLikes {
		if l.CommentID == commentID && l.UserID == userID {
			return false, nil
		}
	}
	m.commentLikes = append(m.commentLikes, model.CommentLike{ID: m.id(), CommentID: commentID, UserID: userID, CreatedAt: m.tick()})
	return true, nil
}

func (m *memStore) UnlikeComment(ctx context.Context, commentID, userID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.commentLikes {
		if l.CommentID == commentID && l.UserID == userID {
			m.commentLikes = append(m.commentLikes[:i], m.commentLikes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) LikerIDsOfComment(ctx context.Context, commentID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for i := len(m.commentLikes) - 1; i >= 0; i-- {
		if m.commentLikes[i].CommentID == commentID {
			out = append(out, m.commentLikes[i].UserID)
		}
	}
	return out, nil
}

// --- BanStore ---

func (m *memStore) CreateBan(ctx context.Context, bannerID, bannedID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bans {
		if b.BannerID == bannerID && b.BannedID == bannedID {
			return false, nil
		}
	}
	m.bans = append(m.bans, model.Ban{ID: m.id(), BannerID: bannerID, BannedID: bannedID, CreatedAt: m.tick()})
	return true, nil
}

func (m *memStore) DeleteBan(ctx context.Context, bannerID, bannedID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bans {
		if b.BannerID == bannerID && b.BannedID == bannedID {
			m.bans = append(m.bans[:i], m.bans[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) BanIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint64
	for _, b := range m.bans {
		if b.BannerID == userID {
			out = append(out, b.BannedID)
		}
	}
	return out, nil
}

func (m *memStore) BannedOrBannedBy(ctx context.Context, userID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uint64]struct{})
	var out []uint64
	for _, b := range m.bans {
		var other uint64
		if b.BannerID == userID {
			other = b.BannedID
		} else if b.BannedID == userID {
			other = b.BannerID
		} else {
			continue
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out, nil
}

// --- HashtagStore ---

func (m *memStore) LinkPostHashtags(ctx context.Context, names []string, postID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		tagID, ok := m.hashtags[name]
		if !ok {
			tagID = m.id()
			m.hashtags[name] = tagID
		}
		exists := false
		for _, t := range m.postTags {
			if t.PostID == postID && t.HashtagID == tagID {
				exists = true
				break
			}
		}
		if !exists {
			m.postTags = append(m.postTags, model.PostHashtag{ID: m.id(), PostID: postID, HashtagID: tagID, CreatedAt: m.tick()})
		}
	}
	return nil
}

func (m *memStore) UnlinkPostHashtags(ctx context.Context, names []string, postID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[uint64]struct{}, len(names))
	for _, name := range names {
		if tagID, ok := m.hashtags[name]; ok {
			drop[tagID] = struct{}{}
		}
	}
	keep := m.postTags[:0]
	for _, t := range m.postTags {
		if t.PostID == postID {
			if _, ok := drop[t.HashtagID]; ok {
				continue
			}
		}
		keep = append(keep, t)
	}
	m.postTags = keep
	return nil
}

func (m *memStore) HashtagNamesOfPost(ctx context.Context, postID uint64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID := make(map[uint64]string, len(m.hashtags))
	for name, id := range m.hashtags {
		byID[id] = name
	}
	var out []string
	for _, t := range m.postTags {
		if t.PostID == postID {
			out = append(out, byID[t.HashtagID])
		}
	}
	return out, nil
}

func (m *memStore) PostsWithHashtag(ctx context.Context, name string, offset, limit int) ([]model.Post, error) {
	m.mu.Lock()
	tagID, ok := m.hashtags[name]
	if !ok {
		m.mu.Unlock()
		return nil, nil
	}
	var out []model.Post
	for _, t := range m.postTags {
		if t.HashtagID == tagID {
			if p, found := m.posts[t.PostID]; found {
				out = append(out, *p)
			}
		}
	}
	m.mu.Unlock()
	sortPostsByBump(out)
	return pagePosts(out, offset, limit), nil
}

// --- AttachmentStore ---

func (m *memStore) AttachmentsByIDs(ctx context.Context, ids []uint64) ([]model.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Attachment
	for _, id := range ids {
		if a, ok := m.attachments[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) LinkAttachment(ctx context.Context, attachmentID, postID uint64, ord int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attachments[attachmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.PostID = postID
	a.Ord = ord
	return nil
}

func (m *memStore) UnlinkAttachment(ctx context.Context, attachmentID, postID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.attachments[attachmentID]; ok && a.PostID == postID {
		a.PostID = 0
	}
	return nil
}

func (m *memStore) AttachmentIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var atts []*model.Attachment
	for _, a := range m.attachments {
		if a.PostID == postID {
			atts = append(atts, a)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].Ord < atts[j].Ord })
	out := make([]uint64, 0, len(atts))
	for _, a := range atts {
		out = append(out, a.ID)
	}
	return out, nil
}

// --- OutboxStore ---

func (m *memStore) InsertEvents(ctx context.Context, events []model.RealtimeOutbox) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range events {
		ev.ID = m.id()
		ev.CreatedAt = m.tick()
		m.outbox = append(m.outbox, ev)
	}
	return nil
}

func (m *memStore) PendingEvents(ctx context.Context, batchSize int) ([]model.RealtimeOutbox, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.RealtimeOutbox
	for _, ev := range m.outbox {
		if ev.Status == 0 {
			out = append(out, ev)
			if len(out) == batchSize {
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) MarkEventSent(ctx context.Context, id uint64) error {
	return m.markEvent(id, 1, false)
}

func (m *memStore) MarkEventFailed(ctx context.Context, id uint64) error {
	return m.markEvent(id, 2, true)
}

func (m *memStore) markEvent(id uint64, status int8, retry bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.outbox {
		if m.outbox[i].ID == id {
			m.outbox[i].Status = status
			if retry {
				m.outbox[i].Retry++
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// eventsOfType 测试用：按类型过滤 outbox 行
func (m *memStore) eventsOfType(eventType string) []model.RealtimeOutbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.RealtimeOutbox
	for _, ev := range m.outbox {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

var _ Store = (*memStore)(nil)
