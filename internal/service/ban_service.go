package service

import (
	"context"
	"fmt"
	"log"
)

// BanService 拉黑索引。对外暴露两种口径：
// BanIDs 单向（我拉黑了谁），BannedOrBannedBy 双向（帖子硬排除用）。
type BanService struct {
	bans  BanStore
	cache BanCache // 可为 nil
}

func NewBanService(bans BanStore, cache BanCache) *BanService {
	return &BanService{bans: bans, cache: cache}
}

// Ban 幂等，重复拉黑返回 false。拉黑自己直接报错。
func (s *BanService) Ban(ctx context.Context, bannerID, bannedID uint64) (bool, error) {
	if bannerID == bannedID {
		return false, fmt.Errorf("%w: cannot ban yourself", ErrValidation)
	}
	changed, err := s.bans.CreateBan(ctx, bannerID, bannedID)
	if err != nil {
		return false, err
	}
	if changed {
		s.invalidate(ctx, bannerID, bannedID)
	}
	return changed, nil
}

func (s *BanService) Unban(ctx context.Context, bannerID, bannedID uint64) (bool, error) {
	changed, err := s.bans.DeleteBan(ctx, bannerID, bannedID)
	if err != nil {
		return false, err
	}
	if changed {
		s.invalidate(ctx, bannerID, bannedID)
	}
	return changed, nil
}

// BanIDs 某用户主动拉黑的用户 id，单向，不走缓存
func (s *BanService) BanIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	return s.bans.BanIDs(ctx, userID)
}

// BannedOrBannedBy 双向拉黑集合，读路径密集，缓存整个集合
func (s *BanService) BannedOrBannedBy(ctx context.Context, userID uint64) ([]uint64, error) {
	if s.cache != nil {
		ids, hit, err := s.cache.GetBanSetCached(ctx, userID)
		if err == nil && hit {
			return ids, nil
		}
		if err != nil {
			log.Printf("ban cache read failed, fall back to db: %v", err)
		}
	}
	ids, err := s.bans.BannedOrBannedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetBanSet(ctx, userID, ids); err != nil {
			log.Printf("ban cache backfill failed: %v", err)
		}
	}
	return ids, nil
}

// InBanPair a 和 b 之间任一方向存在拉黑即为 true
func (s *BanService) InBanPair(ctx context.Context, a, b uint64) (bool, error) {
	if a == 0 || b == 0 || a == b {
		return false, nil
	}
	ids, err := s.BannedOrBannedBy(ctx, a)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == b {
			return true, nil
		}
	}
	return false, nil
}

// HasBanned banner 是否拉黑了 banned（方向敏感，评论渲染用）
func (s *BanService) HasBanned(ctx context.Context, bannerID, bannedID uint64) (bool, error) {
	if bannerID == 0 || bannedID == 0 || bannerID == bannedID {
		return false, nil
	}
	ids, err := s.bans.BanIDs(ctx, bannerID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == bannedID {
			return true, nil
		}
	}
	return false, nil
}

func (s *BanService) invalidate(ctx context.Context, userIDs ...uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		log.Printf("ban cache invalidate failed: %v", err)
	}
}
