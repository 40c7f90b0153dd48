package service

import (
	"context"
	"fmt"
	"time"

	"River_Social/internal/model"
)

// CommentService 评论路径的变更引擎与单条读取
type CommentService struct {
	users    UserStore
	posts    PostStore
	comments CommentStore
	bans     *BanService
	resolver *FeedService
	vis      *VisibilityService
	pub      Publisher
}

func NewCommentService(store Store, bans *BanService, resolver *FeedService, vis *VisibilityService, pub Publisher) *CommentService {
	return &CommentService{
		users: store, posts: store, comments: store,
		bans: bans, resolver: resolver, vis: vis, pub: pub,
	}
}

// AddComment 帖子对评论者不可见按不存在处理；评论被作者关闭时只有
// 帖子作者还能评论。落库后做好友的好友扇出并触发 bumped_at。
func (s *CommentService) AddComment(ctx context.Context, postID, authorID uint64, body string) (*model.Comment, error) {
	trimmed, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}
	visible, err := s.vis.IsPostVisibleFor(ctx, post, authorID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}
	if post.CommentsDisabled && post.AuthorID != authorID {
		return nil, fmt.Errorf("%w: comments are disabled on this post", ErrPermission)
	}
	commenter, err := s.users.UserByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	comment := &model.Comment{PostID: postID, AuthorID: authorID, Body: trimmed}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	feeds, err := s.resolver.CommentFanoutFeeds(ctx, post, commenter)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.PublishChangesToFeeds(ctx, post, feeds, false); err != nil {
		return nil, err
	}

	if err := s.pub.NewComment(ctx, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, commentID, userID uint64, body string) (*model.Comment, error) {
	comment, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("%w: comment", ErrNotFound)
	}
	if comment.AuthorID != userID {
		return nil, fmt.Errorf("%w: you can not update another user's comment", ErrPermission)
	}
	trimmed, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	comment.Body = trimmed
	comment.UpdatedAt = time.Now()
	if err := s.comments.UpdateCommentBody(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.pub.UpdateComment(ctx, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment 评论作者或帖子作者可删
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint64) error {
	comment, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("%w: comment", ErrNotFound)
	}
	post, err := s.posts.PostByID(ctx, comment.PostID)
	if err != nil {
		return fmt.Errorf("%w: post", ErrNotFound)
	}
	if comment.AuthorID != userID && post.AuthorID != userID {
		return fmt.Errorf("%w: you can not delete another user's comment", ErrPermission)
	}
	rooms, err := s.pub.RoomsOfPost(ctx, post.ID)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	return s.pub.DestroyComment(ctx, commentID, post.ID, rooms)
}

// GetComment 单条读取。查看者被作者拉黑 → 权限错误；查看者拉黑了
// 作者 → 返回通用占位（单查场景分不清偏好上下文，用 HiddenBanned）。
func (s *CommentService) GetComment(ctx context.Context, commentID, viewerID uint64) (*CommentView, error) {
	comment, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("%w: comment", ErrNotFound)
	}
	post, err := s.posts.PostByID(ctx, comment.PostID)
	if err != nil {
		return nil, fmt.Errorf("%w: post", ErrNotFound)
	}
	visible, err := s.vis.IsPostVisibleFor(ctx, post, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, fmt.Errorf("%w: comment", ErrNotFound)
	}
	if viewerID != 0 && viewerID != comment.AuthorID {
		authorBannedViewer, err := s.bans.HasBanned(ctx, comment.AuthorID, viewerID)
		if err != nil {
			return nil, err
		}
		if authorBannedViewer {
			return nil, fmt.Errorf("%w: you can not see this comment", ErrPermission)
		}
		viewerBannedAuthor, err := s.bans.HasBanned(ctx, viewerID, comment.AuthorID)
		if err != nil {
			return nil, err
		}
		if viewerBannedAuthor {
			view := serveCommentView(comment, model.HiddenBanned, model.Visible)
			return &view, nil
		}
	}
	view := serveCommentView(comment, model.Visible, model.Visible)
	return &view, nil
}
