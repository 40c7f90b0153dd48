package service

import (
	"context"
	"encoding/json"
	"fmt"

	"River_Social/internal/model"

	"github.com/google/uuid"
)

// RealtimeService 实时发布器。原始内容不直接进总线：对每个应当收到
// 事件的用户先按其视角过滤/渲染，再逐行写入 outbox，由中继器投递。
// 同一逻辑事件的所有行共享一个 event_id。
type RealtimeService struct {
	users    UserStore
	feeds    FeedStore
	posts    PostStore
	comments CommentStore
	outbox   OutboxStore
	vis      *VisibilityService
}

func NewRealtimeService(store Store, vis *VisibilityService) *RealtimeService {
	return &RealtimeService{
		users: store, feeds: store, posts: store, comments: store, outbox: store,
		vis: vis,
	}
}

var _ Publisher = (*RealtimeService)(nil)

func timelineRoom(feedID uint64) string { return fmt.Sprintf("timeline:%d", feedID) }
func postRoom(postID uint64) string     { return fmt.Sprintf("post:%d", postID) }
func userRoom(userID uint64) string     { return fmt.Sprintf("user:%d", userID) }

// RoomsOfPost 帖子当前关联的全部房间，删除前调用方要先收集
func (s *RealtimeService) RoomsOfPost(ctx context.Context, postID uint64) ([]string, error) {
	feedIDs, err := s.posts.FeedIDsOfPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	rooms := make([]string, 0, len(feedIDs)+1)
	for _, id := range feedIDs {
		rooms = append(rooms, timelineRoom(id))
	}
	rooms = append(rooms, postRoom(postID))
	return rooms, nil
}

type postEventPayload struct {
	PostID    uint64 `json:"postId"`
	Body      string `json:"body"`
	CreatedBy uint64 `json:"createdBy"`
	UpdatedAt int64  `json:"updatedAt"`
}

type commentEventPayload struct {
	PostID  uint64      `json:"postId"`
	Comment CommentView `json:"comment"`
}

type likeEventPayload struct {
	PostID uint64 `json:"postId"`
	UserID uint64 `json:"userId"`
}

type commentLikeEventPayload struct {
	CommentID uint64 `json:"commentId"`
	UserID    uint64 `json:"userId"`
}

type destroyEventPayload struct {
	ID     uint64 `json:"id"`
	PostID uint64 `json:"postId,omitempty"`
}

func (s *RealtimeService) NewPost(ctx context.Context, postID uint64) error {
	return s.publishPostEvent(ctx, model.EventPostNew, postID)
}

func (s *RealtimeService) UpdatePost(ctx context.Context, postID uint64) error {
	return s.publishPostEvent(ctx, model.EventPostUpdate, postID)
}

// DestroyPost 帖子行已删，按事先收集的房间广播，无需再过滤
func (s *RealtimeService) DestroyPost(ctx context.Context, postID uint64, rooms []string) error {
	return s.broadcastToRooms(ctx, model.EventPostDestroy, rooms, destroyEventPayload{ID: postID})
}

func (s *RealtimeService) NewComment(ctx context.Context, commentID uint64) error {
	return s.publishCommentEvent(ctx, model.EventCommentNew, commentID)
}

func (s *RealtimeService) UpdateComment(ctx context.Context, commentID uint64) error {
	return s.publishCommentEvent(ctx, model.EventCommentUpdate, commentID)
}

func (s *RealtimeService) DestroyComment(ctx context.Context, commentID, postID uint64, rooms []string) error {
	return s.broadcastToRooms(ctx, model.EventCommentDelete, rooms, destroyEventPayload{ID: commentID, PostID: postID})
}

func (s *RealtimeService) NewLike(ctx context.Context, postID, userID uint64) error {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	payload := likeEventPayload{PostID: postID, UserID: userID}
	return s.publishFiltered(ctx, model.EventLikeNew, post, func(viewerID uint64) (any, bool, error) {
		// 与点赞者互拉黑的人不收到该赞
		banned, err := s.vis.bans.InBanPair(ctx, viewerID, userID)
		if err != nil {
			return nil, false, err
		}
		if banned {
			return nil, false, nil
		}
		return payload, true, nil
	})
}

func (s *RealtimeService) RemoveLike(ctx context.Context, postID, userID uint64, rooms []string) error {
	return s.broadcastToRooms(ctx, model.EventLikeRemove, rooms, likeEventPayload{PostID: postID, UserID: userID})
}

func (s *RealtimeService) NewCommentLike(ctx context.Context, commentID, userID uint64) error {
	return s.publishCommentSideEvent(ctx, model.EventCommentLike, commentID, userID)
}

func (s *RealtimeService) RemoveCommentLike(ctx context.Context, commentID, userID uint64) error {
	return s.publishCommentSideEvent(ctx, model.EventCommentUnlike, commentID, userID)
}

// HidePost 只发给操作者自己，别人看不出任何变化
func (s *RealtimeService) HidePost(ctx context.Context, userID, postID uint64) error {
	return s.publishToUser(ctx, model.EventPostHide, userID, destroyEventPayload{ID: postID})
}

func (s *RealtimeService) UnhidePost(ctx context.Context, userID, postID uint64) error {
	return s.publishToUser(ctx, model.EventPostUnhide, userID, destroyEventPayload{ID: postID})
}

func (s *RealtimeService) SavePost(ctx context.Context, userID, postID uint64) error {
	return s.publishToUser(ctx, model.EventPostSave, userID, destroyEventPayload{ID: postID})
}

func (s *RealtimeService) UnsavePost(ctx context.Context, userID, postID uint64) error {
	return s.publishToUser(ctx, model.EventPostUnsave, userID, destroyEventPayload{ID: postID})
}

func (s *RealtimeService) publishPostEvent(ctx context.Context, eventType string, postID uint64) error {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	payload := postEventPayload{
		PostID:    post.ID,
		Body:      post.Body,
		CreatedBy: post.AuthorID,
		UpdatedAt: post.UpdatedAt.UnixMilli(),
	}
	return s.publishFiltered(ctx, eventType, post, func(viewerID uint64) (any, bool, error) {
		return payload, true, nil
	})
}

func (s *RealtimeService) publishCommentEvent(ctx context.Context, eventType string, commentID uint64) error {
	comment, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	post, err := s.posts.PostByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	return s.publishFiltered(ctx, eventType, post, func(viewerID uint64) (any, bool, error) {
		hideType, secondary, err := s.vis.CommentHideType(ctx, comment, viewerID)
		if err != nil {
			return nil, false, err
		}
		if viewerID != 0 {
			viewer, err := s.users.UserByID(ctx, viewerID)
			if err != nil {
				return nil, false, err
			}
			if hideType != model.Visible && containsHideType(viewer.HiddenCommentTypes(), hideType) {
				return nil, false, nil
			}
			if secondary != model.Visible && containsHideType(viewer.HiddenCommentTypes(), secondary) {
				return nil, false, nil
			}
		}
		return commentEventPayload{
			PostID:  post.ID,
			Comment: serveCommentView(comment, hideType, secondary),
		}, true, nil
	})
}

func (s *RealtimeService) publishCommentSideEvent(ctx context.Context, eventType string, commentID, userID uint64) error {
	comment, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	post, err := s.posts.PostByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	payload := commentLikeEventPayload{CommentID: commentID, UserID: userID}
	return s.publishFiltered(ctx, eventType, post, func(viewerID uint64) (any, bool, error) {
		return payload, true, nil
	})
}

// publishFiltered 接收者 = 帖子所在全部 feed 的主人中能看到帖子的
// 子集，每人一行；非受保护帖另发一份匿名房间副本。
func (s *RealtimeService) publishFiltered(ctx context.Context, eventType string, post *model.Post, payloadFor func(viewerID uint64) (any, bool, error)) error {
	feedIDs, err := s.posts.FeedIDsOfPost(ctx, post.ID)
	if err != nil {
		return err
	}
	feeds, err := s.feeds.FeedsByIDs(ctx, feedIDs)
	if err != nil {
		return err
	}
	ownerIDs := make([]uint64, 0, len(feeds))
	for _, f := range feeds {
		ownerIDs = append(ownerIDs, f.UserID)
	}
	recipients, err := s.vis.OnlyUsersCanSeePost(ctx, post, ownerIDs)
	if err != nil {
		return err
	}

	eventID := uuid.NewString()
	rows := make([]model.RealtimeOutbox, 0, len(recipients)+1)
	for _, uid := range recipients {
		payload, ok, err := payloadFor(uid)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		rows = append(rows, model.RealtimeOutbox{
			EventID:   eventID,
			EventType: eventType,
			Room:      userRoom(uid),
			UserID:    uid,
			Payload:   string(raw),
		})
	}
	if !post.IsProtected {
		payload, ok, err := payloadFor(0)
		if err != nil {
			return err
		}
		if ok {
			raw, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			rows = append(rows, model.RealtimeOutbox{
				EventID:   eventID,
				EventType: eventType,
				Room:      postRoom(post.ID),
				Payload:   string(raw),
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return s.outbox.InsertEvents(ctx, rows)
}

func (s *RealtimeService) broadcastToRooms(ctx context.Context, eventType string, rooms []string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	eventID := uuid.NewString()
	rows := make([]model.RealtimeOutbox, 0, len(rooms))
	for _, room := range rooms {
		rows = append(rows, model.RealtimeOutbox{
			EventID:   eventID,
			EventType: eventType,
			Room:      room,
			Payload:   string(raw),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return s.outbox.InsertEvents(ctx, rows)
}

func (s *RealtimeService) publishToUser(ctx context.Context, eventType string, userID uint64, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.outbox.InsertEvents(ctx, []model.RealtimeOutbox{{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Room:      userRoom(userID),
		UserID:    userID,
		Payload:   string(raw),
	}})
}
