package service

import (
	"context"
	"fmt"
	"regexp"

	"River_Social/internal/model"
	"River_Social/internal/pkg"

	"golang.org/x/crypto/bcrypt"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,25}$`)

// UserService 账号、订阅与拉黑的入口
type UserService struct {
	users UserStore
	feeds FeedStore
	bans  *BanService
}

func NewUserService(store Store, bans *BanService) *UserService {
	return &UserService{users: store, feeds: store, bans: bans}
}

func (s *UserService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	if !usernameRe.MatchString(username) {
		return nil, fmt.Errorf("%w: invalid username", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password too short", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
		Kind:     model.AccountUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	// 核心 feed 注册时就建好，其余（Hides/SavedPosts）按需惰性创建
	for _, name := range []string{
		model.FeedPosts, model.FeedDirects, model.FeedLikes, model.FeedComments,
		model.FeedRiverOfNews, model.FeedMyDiscussions,
	} {
		if _, err := s.feeds.FeedOfUser(ctx, user.ID, name); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid password", ErrPermission)
	}
	return pkg.GeneratePair(user.ID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// CreateGroup 小组是一种账号，只有 Posts feed，创建者自动订阅
func (s *UserService) CreateGroup(ctx context.Context, creatorID uint64, username string, isPrivate, isProtected bool) (*model.User, error) {
	if !usernameRe.MatchString(username) {
		return nil, fmt.Errorf("%w: invalid group name", ErrValidation)
	}
	group := &model.User{
		Username:    username,
		Kind:        model.AccountGroup,
		IsPrivate:   isPrivate,
		IsProtected: isProtected || isPrivate,
	}
	if err := s.users.CreateUser(ctx, group); err != nil {
		return nil, err
	}
	posts, err := s.feeds.FeedOfUser(ctx, group.ID, model.FeedPosts)
	if err != nil {
		return nil, err
	}
	if _, err := s.feeds.Subscribe(ctx, creatorID, posts.ID); err != nil {
		return nil, err
	}
	return group, nil
}

// Subscribe 订阅 = 在目标 Posts feed 上建一条订阅关系。
// 私密账号不接受直接订阅；拉黑对里的双方互相订阅不了。
func (s *UserService) Subscribe(ctx context.Context, userID uint64, targetUsername string) (bool, error) {
	target, err := s.users.UserByUsername(ctx, targetUsername)
	if err != nil {
		return false, fmt.Errorf("%w: user", ErrNotFound)
	}
	if target.ID == userID {
		return false, fmt.Errorf("%w: you can not subscribe to yourself", ErrValidation)
	}
	banned, err := s.bans.InBanPair(ctx, userID, target.ID)
	if err != nil {
		return false, err
	}
	if banned {
		return false, fmt.Errorf("%w: you can not subscribe to this user", ErrPermission)
	}
	if target.IsPrivate {
		return false, fmt.Errorf("%w: this account is private", ErrPermission)
	}
	posts, err := s.feeds.FeedOfUser(ctx, target.ID, model.FeedPosts)
	if err != nil {
		return false, err
	}
	return s.feeds.Subscribe(ctx, userID, posts.ID)
}

func (s *UserService) Unsubscribe(ctx context.Context, userID uint64, targetUsername string) (bool, error) {
	target, err := s.users.UserByUsername(ctx, targetUsername)
	if err != nil {
		return false, fmt.Errorf("%w: user", ErrNotFound)
	}
	posts, err := s.feeds.FeedOfUser(ctx, target.ID, model.FeedPosts)
	if err != nil {
		return false, err
	}
	return s.feeds.Unsubscribe(ctx, userID, posts.ID)
}

// Ban 拉黑同时解除双方的相互订阅，历史扇出痕迹不回收
func (s *UserService) Ban(ctx context.Context, bannerID uint64, targetUsername string) (bool, error) {
	target, err := s.users.UserByUsername(ctx, targetUsername)
	if err != nil {
		return false, fmt.Errorf("%w: user", ErrNotFound)
	}
	changed, err := s.bans.Ban(ctx, bannerID, target.ID)
	if err != nil || !changed {
		return false, err
	}
	if err := s.unsubscribePair(ctx, bannerID, target.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) Unban(ctx context.Context, bannerID uint64, targetUsername string) (bool, error) {
	target, err := s.users.UserByUsername(ctx, targetUsername)
	if err != nil {
		return false, fmt.Errorf("%w: user", ErrNotFound)
	}
	return s.bans.Unban(ctx, bannerID, target.ID)
}

// UpdateCommentVisibilityPrefs 显式空列表表示全部以占位符呈现
func (s *UserService) UpdateCommentVisibilityPrefs(ctx context.Context, userID uint64, types []model.HideType) error {
	for _, t := range types {
		if t != model.HiddenBanned && t != model.HiddenAuthorBanned && t != model.HiddenViewerBanned {
			return fmt.Errorf("%w: unknown hide type %d", ErrValidation, t)
		}
	}
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	user.SetHiddenCommentTypes(types)
	return s.users.UpdateUser(ctx, user)
}

// SetPrivacy 只影响之后创建的帖子，已有帖子的标志不回溯
func (s *UserService) SetPrivacy(ctx context.Context, userID uint64, isPrivate, isProtected bool) error {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	user.IsPrivate = isPrivate
	user.IsProtected = isProtected || isPrivate
	return s.users.UpdateUser(ctx, user)
}

func (s *UserService) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return user, nil
}

func (s *UserService) unsubscribePair(ctx context.Context, a, b uint64) error {
	aPosts, err := s.feeds.FeedOfUser(ctx, a, model.FeedPosts)
	if err != nil {
		return err
	}
	bPosts, err := s.feeds.FeedOfUser(ctx, b, model.FeedPosts)
	if err != nil {
		return err
	}
	if _, err := s.feeds.Unsubscribe(ctx, a, bPosts.ID); err != nil {
		return err
	}
	if _, err := s.feeds.Unsubscribe(ctx, b, aPosts.ID); err != nil {
		return err
	}
	return nil
}
