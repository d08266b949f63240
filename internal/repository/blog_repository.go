package repository

import (
	"errors"

	"github.com/inkwell-next/internal/models"

	"gorm.io/gorm"
)

// BlogRepository 博客数据访问接口
type BlogRepository interface {
	List(filter BlogListFilter) ([]models.Blog, int64, error)
	GetByID(id uint) (*models.Blog, error)
	Create(blog *models.Blog) error
}

// GormBlogRepository GORM 实现
type GormBlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository 创建博客仓库
func NewBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// List 博客列表（最新在前）
func (r *GormBlogRepository) List(filter BlogListFilter) ([]models.Blog, int64, error) {
	query := r.db.Model(&models.Blog{})
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var blogs []models.Blog
	if err := query.Preload("Author").Order("created_at DESC").Order("id ASC").Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// GetByID 根据 ID 获取博客
func (r *GormBlogRepository) GetByID(id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.Preload("Author").First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

// Create 创建博客
func (r *GormBlogRepository) Create(blog *models.Blog) error {
	return r.db.Create(blog).Error
}
