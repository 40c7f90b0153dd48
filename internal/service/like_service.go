package service

import (
	"context"
	"fmt"

	"River_Social/internal/model"
)

// LikeService 点赞路径。重复点赞/取消返回 false 且零副作用；
// 点赞永不改 bumped_at，新触达的用户靠本地冒泡置顶。
type LikeService struct {
	users    UserStore
	feeds    FeedStore
	posts    PostStore
	likes    LikeStore
	comments CommentStore
	resolver *FeedService
	vis      *VisibilityService
	pub      Publisher
}

func NewLikeService(store Store, resolver *FeedService, vis *VisibilityService, pub Publisher) *LikeService {
	return &LikeService{
		users: store, feeds: store, posts: store, likes: store, comments: store,
		resolver: resolver, vis: vis, pub: pub,
	}
}

// LikePost 作者不能赞自己的帖子。条件写入失败（已赞过）直接返回
// false，后续扇出一概不做。
func (s *LikeService) LikePost(ctx context.Context, postID, userID uint64) (bool, error) {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("%w: post", ErrNotFound)
	}
	if post.AuthorID == userID {
		return false, fmt.Errorf("%w: you can not like your own post", ErrPermission)
	}
	visible, err := s.vis.IsPostVisibleFor(ctx, post, userID)
	if err != nil {
		return false, err
	}
	if !visible {
		return false, fmt.Errorf("%w: post", ErrNotFound)
	}

	changed, err := s.likes.LikePost(ctx, postID, userID)
	if err != nil || !changed {
		return false, err
	}

	liker, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return false, err
	}

	// 本地冒泡对象 = 点赞扇出新触达的用户，先于成员关系写入计算。
	// 基线取帖子当前的真实成员关系：早先评论扇出已经送达的河不再冒泡
	if post.IsPropagable {
		currentIDs, err := s.posts.FeedIDsOfPost(ctx, post.ID)
		if err != nil {
			return false, err
		}
		currentFeeds, err := s.feeds.FeedsByIDs(ctx, currentIDs)
		if err != nil {
			return false, err
		}
		prevOwners := make([]uint64, 0, len(currentFeeds))
		for _, f := range currentFeeds {
			if f.IsRiverOfNews() {
				prevOwners = append(prevOwners, f.UserID)
			}
		}
		fofIDs, err := s.resolver.FriendOfFriendFeedIDs(ctx, post, liker, model.FeedLikes)
		if err != nil {
			return false, err
		}
		fofFeeds, err := s.feeds.FeedsByIDs(ctx, fofIDs)
		if err != nil {
			return false, err
		}
		reached := make([]uint64, 0, len(fofFeeds)+1)
		for _, f := range fofFeeds {
			if f.IsRiverOfNews() {
				reached = append(reached, f.UserID)
			}
		}
		reached = append(reached, userID)
		newOwners := diffIDs(uniqIDs(reached), prevOwners)
		if err := s.posts.SetLocalBumps(ctx, postID, newOwners); err != nil {
			return false, err
		}
		if err := s.resolver.PublishChangesToFeeds(ctx, post, fofFeeds, true); err != nil {
			return false, err
		}
	} else {
		likesFeed, err := s.feeds.FeedOfUser(ctx, userID, model.FeedLikes)
		if err != nil {
			return false, err
		}
		if err := s.resolver.PublishChangesToFeeds(ctx, post, []model.Feed{*likesFeed}, true); err != nil {
			return false, err
		}
	}

	if err := s.pub.NewLike(ctx, postID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// UnlikePost 撤回自己 Likes feed 里的成员关系，别处的扇出痕迹不回收
func (s *LikeService) UnlikePost(ctx context.Context, postID, userID uint64) (bool, error) {
	if _, err := s.posts.PostByID(ctx, postID); err != nil {
		return false, fmt.Errorf("%w: post", ErrNotFound)
	}
	rooms, err := s.pub.RoomsOfPost(ctx, postID)
	if err != nil {
		return false, err
	}
	changed, err := s.likes.UnlikePost(ctx, postID, userID)
	if err != nil || !changed {
		return false, err
	}
	likesFeed, err := s.feeds.FeedOfUser(ctx, userID, model.FeedLikes)
	if err != nil {
		return false, err
	}
	if err := s.posts.WithdrawPostFromFeeds(ctx, []uint64{likesFeed.ID}, postID); err != nil {
		return false, err
	}
	if err := s.pub.RemoveLike(ctx, postID, userID, rooms); err != nil {
		return false, err
	}
	return true, nil
}

func (s *LikeService) LikeComment(ctx context.Context, commentID, userID uint64) (bool, error) {
	comment, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return false, fmt.Errorf("%w: comment", ErrNotFound)
	}
	if comment.AuthorID == userID {
		return false, fmt.Errorf("%w: you can not like your own comment", ErrPermission)
	}
	post, err := s.posts.PostByID(ctx, comment.PostID)
	if err != nil {
		return false, fmt.Errorf("%w: post", ErrNotFound)
	}
	visible, err := s.vis.IsPostVisibleFor(ctx, post, userID)
	if err != nil {
		return false, err
	}
	if !visible {
		return false, fmt.Errorf("%w: comment", ErrNotFound)
	}
	changed, err := s.likes.LikeComment(ctx, commentID, userID)
	if err != nil || !changed {
		return false, err
	}
	if err := s.pub.NewCommentLike(ctx, commentID, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *LikeService) UnlikeComment(ctx context.Context, commentID, userID uint64) (bool, error) {
	if _, err := s.comments.CommentByID(ctx, commentID); err != nil {
		return false, fmt.Errorf("%w: comment", ErrNotFound)
	}
	changed, err := s.likes.UnlikeComment(ctx, commentID, userID)
	if err != nil || !changed {
		return false, err
	}
	if err := s.pub.RemoveCommentLike(ctx, commentID, userID); err != nil {
		return false, err
	}
	return true, nil
}
