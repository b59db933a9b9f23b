package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"quadra_host_v1/internal/model"
)

// ==================== CourtRepository 球场仓库 ====================

// CourtRepository 已发布球场仓库接口
type CourtRepository interface {
	// Create 创建球场记录
	// 幂等：submit_key 已存在时不再插入，返回已有记录
	Create(ctx context.Context, court *model.Court) (*model.Court, error)
	GetByID(ctx context.Context, id int64) (*model.Court, error)
	GetBySubmitKey(ctx context.Context, key string) (*model.Court, error)
	ListByOwner(ctx context.Context, ownerID int64, filter CourtFilter) ([]model.Court, int64, error)
}

// CourtFilter 球场筛选条件
type CourtFilter struct {
	City       string
	OnlyActive bool
	Page       int
	PageSize   int
}

// ==================== 实现 ====================

type courtRepository struct {
	db *gorm.DB
}

// NewCourtRepository 创建球场仓库
func NewCourtRepository(db *gorm.DB) CourtRepository {
	return &courtRepository{db: db}
}

// Create 创建球场记录（按 submit_key 幂等）
func (r *courtRepository) Create(ctx context.Context, court *model.Court) (*model.Court, error) {
	if err := court.Validate(); err != nil {
		return nil, err
	}

	// 同一幂等键重试直接返回已有记录，避免重复发布
	existing, err := r.GetBySubmitKey(ctx, court.SubmitKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if err := r.db.WithContext(ctx).Create(court).Error; err != nil {
		// 并发写入同一幂等键时唯一索引兜底
		if dup, dupErr := r.GetBySubmitKey(ctx, court.SubmitKey); dupErr == nil && dup != nil {
			return dup, nil
		}
		return nil, err
	}
	return court, nil
}

// GetByID 根据 ID 获取球场
func (r *courtRepository) GetByID(ctx context.Context, id int64) (*model.Court, error) {
	var court model.Court
	err := r.db.WithContext(ctx).First(&court, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &court, err
}

// GetBySubmitKey 根据幂等键获取球场
func (r *courtRepository) GetBySubmitKey(ctx context.Context, key string) (*model.Court, error) {
	var court model.Court
	err := r.db.WithContext(ctx).Where("submit_key = ?", key).First(&court).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &court, err
}

// ListByOwner 分页列出场主名下的球场
func (r *courtRepository) ListByOwner(ctx context.Context, ownerID int64, filter CourtFilter) ([]model.Court, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Court{}).Where("owner_id = ?", ownerID)

	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var courts []model.Court
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&courts).Error
	return courts, total, err
}
