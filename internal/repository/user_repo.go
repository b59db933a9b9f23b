package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"quadra_host_v1/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 场主账号仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.HostUser) error
	GetByID(ctx context.Context, id int64) (*model.HostUser, error)
	GetByUsername(ctx context.Context, username string) (*model.HostUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *model.HostUser) error
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.HostUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.HostUser, error) {
	var user model.HostUser
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.HostUser, error) {
	var user model.HostUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// ExistsByUsername 用户名是否已存在
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.HostUser{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Update 更新用户
func (r *userRepository) Update(ctx context.Context, user *model.HostUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}
