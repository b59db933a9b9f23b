package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"quadra_host_v1/internal/model"
)

// ==================== AssetRepository 上传资产仓库 ====================

// AssetRepository 已上传资产仓库接口
// 上传管线登记每个成功对象，发布流程把挂上球场的对象标记为 attached，
// 剩下的孤儿对象由定时任务回收
type AssetRepository interface {
	Record(ctx context.Context, asset *model.UploadedAsset) error
	AttachToCourt(ctx context.Context, urls []string, courtID int64) error
	FindOrphans(ctx context.Context, before time.Time, limit int) ([]model.UploadedAsset, error)
	Delete(ctx context.Context, id int64) error
}

// ==================== 实现 ====================

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository 创建资产仓库
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

// Record 登记一条上传成功的资产
func (r *assetRepository) Record(ctx context.Context, asset *model.UploadedAsset) error {
	if asset.Status == "" {
		asset.Status = model.AssetStatusUploaded
	}
	return r.db.WithContext(ctx).Create(asset).Error
}

// AttachToCourt 把一组 URL 对应的资产挂到球场
func (r *assetRepository) AttachToCourt(ctx context.Context, urls []string, courtID int64) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.UploadedAsset{}).
		Where("public_url IN ?", urls).
		Updates(map[string]interface{}{
			"court_id": courtID,
			"status":   model.AssetStatusAttached,
		}).Error
}

// FindOrphans 查找超过宽限期仍未挂接的资产
func (r *assetRepository) FindOrphans(ctx context.Context, before time.Time, limit int) ([]model.UploadedAsset, error) {
	var assets []model.UploadedAsset
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.AssetStatusUploaded, before).
		Limit(limit).
		Find(&assets).Error
	return assets, err
}

// Delete 删除资产记录
func (r *assetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.UploadedAsset{}, id).Error
}
