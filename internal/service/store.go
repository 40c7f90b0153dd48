package service

import (
	"context"
	"time"

	"River_Social/internal/model"
)

// service 层只依赖这组窄接口，mysql.Store 整体实现；
// 测试里用内存假实现替换。

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	UserByID(ctx context.Context, id uint64) (*model.User, error)
	UsersByIDs(ctx context.Context, ids []uint64) ([]model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	TouchGroups(ctx context.Context, ids []uint64, at time.Time) error
}

type FeedStore interface {
	FeedOfUser(ctx context.Context, userID uint64, name string) (*model.Feed, error)
	FeedsOfUsers(ctx context.Context, userIDs []uint64, name string) ([]model.Feed, error)
	FeedByID(ctx context.Context, id uint64) (*model.Feed, error)
	FeedsByIDs(ctx context.Context, ids []uint64) ([]model.Feed, error)
	SubscriberIDs(ctx context.Context, feedIDs []uint64) ([]uint64, error)
	Subscribe(ctx context.Context, userID, feedID uint64) (bool, error)
	Unsubscribe(ctx context.Context, userID, feedID uint64) (bool, error)
	SubscriptionFeedIDs(ctx context.Context, userID uint64) ([]uint64, error)
	VisiblePrivateFeedIDs(ctx context.Context, viewerID uint64) ([]uint64, error)
	UserIDsWhoCanSeePrivateFeeds(ctx context.Context, feedIDs []uint64) ([]uint64, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post, destFeedIDs []uint64) error
	PostByID(ctx context.Context, id uint64) (*model.Post, error)
	UpdatePostBody(ctx context.Context, post *model.Post) error
	SetCommentsDisabled(ctx context.Context, postID uint64, disabled bool) error
	DeletePost(ctx context.Context, id uint64) error
	FeedIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error)
	DestinationFeedIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error)
	InsertPostIntoFeeds(ctx context.Context, feedIDs []uint64, postID uint64) error
	WithdrawPostFromFeeds(ctx context.Context, feedIDs []uint64, postID uint64) error
	IsPostInFeed(ctx context.Context, feedID, postID uint64) (bool, error)
	SetBumpedAt(ctx context.Context, postID uint64, at time.Time) error
	SetLocalBumps(ctx context.Context, postID uint64, userIDs []uint64) error
	LocalBumpsOfUser(ctx context.Context, userID uint64) ([]model.LocalBump, error)
	PostsOfFeeds(ctx context.Context, feedIDs []uint64, offset, limit int) ([]model.Post, error)
	DiscussionPosts(ctx context.Context, userID uint64, offset, limit int) ([]model.Post, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	CommentByID(ctx context.Context, id uint64) (*model.Comment, error)
	CommentsOfPost(ctx context.Context, postID uint64) ([]model.Comment, error)
	CommenterIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error)
	CommentsCountOfPost(ctx context.Context, postID uint64) (int64, error)
	UpdateCommentBody(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, id uint64) error
}

type LikeStore interface {
	LikePost(ctx context.Context, postID, userID uint64) (bool, error)
	UnlikePost(ctx context.Context, postID, userID uint64) (bool, error)
	LikerIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error)
	HasLikedPost(ctx context.Context, postID, userID uint64) (bool, error)
	LikesCountOfPost(ctx context.Context, postID uint64) (int64, error)
	LikeComment(ctx context.Context, commentID, userID uint64) (bool, error)
	UnlikeComment(ctx context.Context, commentID, userID uint64) (bool, error)
	LikerIDsOfComment(ctx context.Context, commentID uint64) ([]uint64, error)
}

type BanStore interface {
	CreateBan(ctx context.Context, bannerID, bannedID uint64) (bool, error)
	DeleteBan(ctx context.Context, bannerID, bannedID uint64) (bool, error)
	BanIDs(ctx context.Context, userID uint64) ([]uint64, error)
	BannedOrBannedBy(ctx context.Context, userID uint64) ([]uint64, error)
}

type HashtagStore interface {
	LinkPostHashtags(ctx context.Context, names []string, postID uint64) error
	UnlinkPostHashtags(ctx context.Context, names []string, postID uint64) error
	HashtagNamesOfPost(ctx context.Context, postID uint64) ([]string, error)
	PostsWithHashtag(ctx context.Context, name string, offset, limit int) ([]model.Post, error)
}

type AttachmentStore interface {
	AttachmentsByIDs(ctx context.Context, ids []uint64) ([]model.Attachment, error)
	LinkAttachment(ctx context.Context, attachmentID, postID uint64, ord int) error
	UnlinkAttachment(ctx context.Context, attachmentID, postID uint64) error
	AttachmentIDsOfPost(ctx context.Context, postID uint64) ([]uint64, error)
}

type OutboxStore interface {
	InsertEvents(ctx context.Context, events []model.RealtimeOutbox) error
	PendingEvents(ctx context.Context, batchSize int) ([]model.RealtimeOutbox, error)
	MarkEventSent(ctx context.Context, id uint64) error
	MarkEventFailed(ctx context.Context, id uint64) error
}

// Store 全量数据访问接口，mysql.Store 满足
type Store interface {
	UserStore
	FeedStore
	PostStore
	CommentStore
	LikeStore
	BanStore
	HashtagStore
	AttachmentStore
	OutboxStore
}

// BanCache 拉黑集合的旁路缓存，可为 nil（测试或未接 redis 时直读库）
type BanCache interface {
	GetBanSetCached(ctx context.Context, userID uint64) ([]uint64, bool, error)
	SetBanSet(ctx context.Context, userID uint64, ids []uint64) error
	Invalidate(ctx context.Context, userIDs ...uint64) error
}

// Publisher 实时发布器，构造时注入而不是进程级单例
type Publisher interface {
	RoomsOfPost(ctx context.Context, postID uint64) ([]string, error)
	NewPost(ctx context.Context, postID uint64) error
	UpdatePost(ctx context.Context, postID uint64) error
	DestroyPost(ctx context.Context, postID uint64, rooms []string) error
	NewComment(ctx context.Context, commentID uint64) error
	UpdateComment(ctx context.Context, commentID uint64) error
	DestroyComment(ctx context.Context, commentID, postID uint64, rooms []string) error
	NewLike(ctx context.Context, postID, userID uint64) error
	RemoveLike(ctx context.Context, postID, userID uint64, rooms []string) error
	NewCommentLike(ctx context.Context, commentID, userID uint64) error
	RemoveCommentLike(ctx context.Context, commentID, userID uint64) error
	HidePost(ctx context.Context, userID, postID uint64) error
	UnhidePost(ctx context.Context, userID, postID uint64) error
	SavePost(ctx context.Context, userID, postID uint64) error
	UnsavePost(ctx context.Context, userID, postID uint64) error
}
