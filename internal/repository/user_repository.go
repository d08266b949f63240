package repository

import (
	"errors"
	"strings"

	"github.com/inkwell-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 博客用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.BlogUser, error)
	GetByID(id uint) (*models.BlogUser, error)
	ListByIDs(ids []uint) ([]models.BlogUser, error)
	Create(user *models.BlogUser) error
	Update(user *models.BlogUser) error
	List(filter UserListFilter) ([]models.BlogUser, int64, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.BlogUser, error) {
	var user models.BlogUser
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.BlogUser, error) {
	var user models.BlogUser
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListByIDs 批量获取用户
func (r *GormUserRepository) ListByIDs(ids []uint) ([]models.BlogUser, error) {
	if len(ids) == 0 {
		return []models.BlogUser{}, nil
	}
	var users []models.BlogUser
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.BlogUser) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.BlogUser) error {
	return r.db.Save(user).Error
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.BlogUser, int64, error) {
	query := r.db.Model(&models.BlogUser{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		dialect := dbDialectName(r.db)
		condition, argCount := buildContainsCondition(dialect, []string{"email", "first_name", "last_name", "display_name"})
		query = query.Where(condition, repeatLikeArgs(escapeLikePattern(dialect, keyword), argCount)...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var users []models.BlogUser
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
