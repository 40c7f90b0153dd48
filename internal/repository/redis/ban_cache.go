package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	BanSetTTL       = 24 * time.Hour
	BanSetKeyPrefix = "ban:set:user" // 某用户双向拉黑集合（拉黑的+被谁拉黑）
)

// BanCacheRepository 拉黑集合缓存。可见性判断在读路径非常密集，
// 集合整体缓存，写路径直接删 Key 交给读侧重建。
type BanCacheRepository struct {
	banSetTTL time.Duration
}

func NewBanCacheRepository() *BanCacheRepository {
	return &BanCacheRepository{banSetTTL: BanSetTTL}
}

func (r *BanCacheRepository) banSetKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", BanSetKeyPrefix, userID)
}

// GetBanSetCached 第二个返回值表示缓存是否命中
func (r *BanCacheRepository) GetBanSetCached(ctx context.Context, userID uint64) ([]uint64, bool, error) {
	k := r.banSetKey(userID)
	exists, err := Client.Exists(ctx, k).Result()
	if err != nil {
		return nil, false, err
	}
	if exists == 0 {
		return nil, false, nil
	}
	members, err := Client.SMembers(ctx, k).Result()
	if err != nil {
		return nil, false, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		// 占位元素不算成员
		if m == "0" {
			continue
		}
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}

// SetBanSet 整体回填。空集合写一个占位元素 "0"，否则 Key 不存在与空集无法区分
func (r *BanCacheRepository) SetBanSet(ctx context.Context, userID uint64, ids []uint64) error {
	k := r.banSetKey(userID)
	members := make([]any, 0, len(ids)+1)
	members = append(members, "0")
	for _, id := range ids {
		members = append(members, id)
	}
	pipe := Client.TxPipeline()
	pipe.Del(ctx, k)
	pipe.SAdd(ctx, k, members...)
	pipe.Expire(ctx, k, r.banSetTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate 拉黑关系变化时双方的集合都作废
func (r *BanCacheRepository) Invalidate(ctx context.Context, userIDs ...uint64) error {
	keys := make([]string, 0, len(userIDs))
	for _, uid := range userIDs {
		keys = append(keys, r.banSetKey(uid))
	}
	if len(keys) == 0 {
		return nil
	}
	err := Client.Del(ctx, keys...).Err()
	if err == redis.Nil {
		return nil
	}
	return err
}
