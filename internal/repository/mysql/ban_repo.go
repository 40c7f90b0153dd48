package mysql

import (
	"context"

	"River_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BanRepository struct {
	DB *gorm.DB
}

// CreateBan 幂等，新建边时返回 true
func (r *BanRepository) CreateBan(ctx context.Context, bannerID, bannedID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Ban{BannerID: bannerID, BannedID: bannedID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BanRepository) DeleteBan(ctx context.Context, bannerID, bannedID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("banner_id = ? AND banned_id = ?", bannerID, bannedID).
		Delete(&model.Ban{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// BanIDs 仅该用户拉黑的人（单方向）
func (r *BanRepository) BanIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Ban{}).
		Where("banner_id = ?", userID).
		Order("id").
		Pluck("banned_id", &ids).Error
	return ids, err
}

// BannedOrBannedBy 双向并集，硬排除判断用
func (r *BanRepository) BannedOrBannedBy(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Raw(`
		SELECT banned_id FROM bans WHERE banner_id = ?
		UNION
		SELECT banner_id FROM bans WHERE banned_id = ?`,
		userID, userID,
	).Scan(&ids).Error
	return ids, err
}
