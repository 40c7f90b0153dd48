package service

import (
	"context"
	"time"

	"River_Social/internal/model"
)

// FeedService 扇出解析器：给定一个帖子和一次动作，算出它应当出现在
// 哪些 feed 里。算出来的都是物化成员关系，MyDiscussions 除外（现算）。
type FeedService struct {
	users    UserStore
	feeds    FeedStore
	posts    PostStore
	comments CommentStore
	likes    LikeStore
	bans     *BanService
}

func NewFeedService(users UserStore, feeds FeedStore, posts PostStore, comments CommentStore, likes LikeStore, bans *BanService) *FeedService {
	return &FeedService{users: users, feeds: feeds, posts: posts, comments: comments, likes: likes, bans: bans}
}

// RiverOfNewsFeeds 帖子应出现在哪些 RiverOfNews 里：
// 目标 feed 的订阅者 + 目标 feed 的主人 + 作者本人；
// 可传播的帖子再加上活动 feed（Likes/Comments）的订阅者。
func (s *FeedService) RiverOfNewsFeeds(ctx context.Context, post *model.Post) ([]model.Feed, error) {
	feedIDs, err := s.posts.FeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	feeds, err := s.feeds.FeedsByIDs(ctx, feedIDs)
	if err != nil {
		return nil, err
	}

	sourceIDs := make([]uint64, 0, len(feeds))
	ownerIDs := make([]uint64, 0, len(feeds)+1)
	for _, f := range feeds {
		if f.IsDestination() {
			sourceIDs = append(sourceIDs, f.ID)
			ownerIDs = append(ownerIDs, f.UserID)
		} else if post.IsPropagable && f.IsActivity() {
			sourceIDs = append(sourceIDs, f.ID)
		}
	}

	subscriberIDs, err := s.feeds.SubscriberIDs(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}
	ownerIDs = append(ownerIDs, subscriberIDs...)
	ownerIDs = append(ownerIDs, post.AuthorID)

	return s.feeds.FeedsOfUsers(ctx, uniqIDs(ownerIDs), model.FeedRiverOfNews)
}

// MyDiscussionsFeeds 参与过讨论的人的 MyDiscussions：
// 作者 + 当前点赞者 + 当前评论者。每次动作后现算，不持久化。
func (s *FeedService) MyDiscussionsFeeds(ctx context.Context, post *model.Post) ([]model.Feed, error) {
	likerIDs, err := s.likes.LikerIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	commenterIDs, err := s.comments.CommenterIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	ownerIDs := uniqIDs(append(append([]uint64{post.AuthorID}, likerIDs...), commenterIDs...))
	return s.feeds.FeedsOfUsers(ctx, ownerIDs, model.FeedMyDiscussions)
}

// FriendOfFriendFeedIDs 评论/点赞扇出的目标集合。groupOnly（目标全是
// 小组）时不向动作者的订阅者传播，只进双方自己的河。
func (s *FeedService) FriendOfFriendFeedIDs(ctx context.Context, post *model.Post, actor *model.User, activityFeedName string) ([]uint64, error) {
	actorActivity, err := s.feeds.FeedOfUser(ctx, actor.ID, activityFeedName)
	if err != nil {
		return nil, err
	}
	ids := []uint64{actorActivity.ID}

	groupOnly, err := s.postedToGroupsOnly(ctx, post)
	if err != nil {
		return nil, err
	}

	if !groupOnly {
		actorPosts, err := s.feeds.FeedOfUser(ctx, actor.ID, model.FeedPosts)
		if err != nil {
			return nil, err
		}
		subIDs, err := s.feeds.SubscriberIDs(ctx, []uint64{actorPosts.ID})
		if err != nil {
			return nil, err
		}
		subRivers, err := s.feeds.FeedsOfUsers(ctx, subIDs, model.FeedRiverOfNews)
		if err != nil {
			return nil, err
		}
		for _, f := range subRivers {
			ids = append(ids, f.ID)
		}
	}

	authorRiver, err := s.feeds.FeedOfUser(ctx, post.AuthorID, model.FeedRiverOfNews)
	if err != nil {
		return nil, err
	}
	ids = append(ids, authorRiver.ID)

	if !groupOnly {
		authorPosts, err := s.feeds.FeedOfUser(ctx, post.AuthorID, model.FeedPosts)
		if err != nil {
			return nil, err
		}
		ids = append(ids, authorPosts.ID)
	}

	actorRiver, err := s.feeds.FeedOfUser(ctx, actor.ID, model.FeedRiverOfNews)
	if err != nil {
		return nil, err
	}
	ids = append(ids, actorRiver.ID)

	current, err := s.posts.FeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, current...)

	return uniqIDs(ids), nil
}

// CommentFanoutFeeds 评论扇出。严格私信帖不向好友的好友传播；
// 评论者拉黑的用户，其 feed 从目标集合中剔除。
func (s *FeedService) CommentFanoutFeeds(ctx context.Context, post *model.Post, commenter *model.User) ([]model.Feed, error) {
	ids, err := s.posts.DestinationFeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	strictDirect, err := s.StrictlyDirect(ctx, post)
	if err != nil {
		return nil, err
	}
	if !strictDirect {
		fof, err := s.FriendOfFriendFeedIDs(ctx, post, commenter, model.FeedComments)
		if err != nil {
			return nil, err
		}
		ids = uniqIDs(append(ids, fof...))
	}

	feeds, err := s.feeds.FeedsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	bannedIDs, err := s.bans.BanIDs(ctx, commenter.ID)
	if err != nil {
		return nil, err
	}
	banned := idSet(bannedIDs)
	out := make([]model.Feed, 0, len(feeds))
	for _, f := range feeds {
		if _, ok := banned[f.UserID]; ok {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// PublishChangesToFeeds 把帖子补充进缺失的 feed。成员关系只增不减；
// 点赞动作不改 bumped_at。
func (s *FeedService) PublishChangesToFeeds(ctx context.Context, post *model.Post, feeds []model.Feed, isLikeAction bool) error {
	current, err := s.posts.FeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return err
	}
	wanted := make([]uint64, 0, len(feeds))
	for _, f := range feeds {
		wanted = append(wanted, f.ID)
	}
	missing := diffIDs(uniqIDs(wanted), current)
	if len(missing) > 0 {
		if err := s.posts.InsertPostIntoFeeds(ctx, missing, post.ID); err != nil {
			return err
		}
	}
	if isLikeAction {
		return nil
	}
	now := time.Now()
	if err := s.posts.SetBumpedAt(ctx, post.ID, now); err != nil {
		return err
	}
	post.BumpedAt = now
	return nil
}

// StrictlyDirect 所有目标 feed 都是 Directs
func (s *FeedService) StrictlyDirect(ctx context.Context, post *model.Post) (bool, error) {
	destIDs, err := s.posts.DestinationFeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return false, err
	}
	feeds, err := s.feeds.FeedsByIDs(ctx, destIDs)
	if err != nil {
		return false, err
	}
	if len(feeds) == 0 {
		return false, nil
	}
	for _, f := range feeds {
		if !f.IsDirects() {
			return false, nil
		}
	}
	return true, nil
}

func (s *FeedService) postedToGroupsOnly(ctx context.Context, post *model.Post) (bool, error) {
	destIDs, err := s.posts.DestinationFeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return false, err
	}
	feeds, err := s.feeds.FeedsByIDs(ctx, destIDs)
	if err != nil {
		return false, err
	}
	ownerIDs := make([]uint64, 0, len(feeds))
	for _, f := range feeds {
		ownerIDs = append(ownerIDs, f.UserID)
	}
	owners, err := s.users.UsersByIDs(ctx, uniqIDs(ownerIDs))
	if err != nil {
		return false, err
	}
	if len(owners) == 0 {
		return false, nil
	}
	for _, u := range owners {
		if u.IsUser() {
			return false, nil
		}
	}
	return true, nil
}
