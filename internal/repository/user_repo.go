package repository

import (
	"context"
	"strings"

	"vidtube-go/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 根据 ID 查询用户
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByLogin 按用户名或邮箱查询，两者都不区分大小写；
// 同时提供时必须指向同一个用户
func (r *UserRepository) GetByLogin(ctx context.Context, username, email string) (*model.User, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case username != "" && email != "":
		query = query.Where("username = ? AND email = ?", username, email)
	case username != "":
		query = query.Where("username = ?", username)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		return nil, gorm.ErrRecordNotFound
	}

	var user model.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail 注册前检查冲突
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", strings.ToLower(username), strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// EmailTaken 邮箱是否已被其他用户使用
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id <> ?", strings.ToLower(email), excludeID).
		Count(&count).Error
	return count > 0, err
}

// Exists 用户是否存在
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新用户字段，用户不存在返回 gorm.ErrRecordNotFound
func (r *UserRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.User, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// SetRefreshToken 保存或清空（token 为 nil）当前刷新令牌
func (r *UserRepository) SetRefreshToken(ctx context.Context, id int64, token *string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("refresh_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
