package service

import (
	"strings"
	"time"

	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/repository"
)

const defaultBlogPageSize = 5

// BlogService 博客读侧服务
type BlogService struct {
	repo     repository.BlogRepository
	userRepo repository.UserRepository
	pageSize int
}

// NewBlogService 创建博客服务
func NewBlogService(repo repository.BlogRepository, userRepo repository.UserRepository, pageSize int) *BlogService {
	return &BlogService{repo: repo, userRepo: userRepo, pageSize: resolvePageSize(pageSize)}
}

// CreateBlogInput 创建博客输入
type CreateBlogInput struct {
	AuthorID    uint
	Name        string
	Description string
	Image       *EncodedImage
}

// PageSize 列表固定页大小
func (s *BlogService) PageSize() int {
	return s.pageSize
}

// List 博客列表（最新在前，固定页大小）
func (s *BlogService) List(page int) ([]models.Blog, int64, error) {
	return s.repo.List(repository.BlogListFilter{
		Page:     page,
		PageSize: s.pageSize,
	})
}

// ListByAuthor 作者名下博客
func (s *BlogService) ListByAuthor(authorID uint) ([]models.Blog, error) {
	blogs, _, err := s.repo.List(repository.BlogListFilter{AuthorID: authorID})
	return blogs, err
}

// Get 获取博客详情
func (s *BlogService) Get(id uint) (*models.Blog, error) {
	if id == 0 {
		return nil, ErrBlogNotFound
	}
	blog, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

// Create 创建博客（仅供种子命令使用）
func (s *BlogService) Create(input CreateBlogInput) (*models.Blog, error) {
	fieldErrs := NewValidationError()
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	validateLength(fieldErrs, "name", name, 2, 100)
	validateLength(fieldErrs, "description", description, 2, 500)
	if err := fieldErrs.OrNil(); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(input.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	blog := &models.Blog{
		AuthorID:    author.ID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if input.Image != nil {
		blog.ImageData = input.Image.Data
		blog.ContentType = input.Image.ContentType
	}
	if err := s.repo.Create(blog); err != nil {
		return nil, err
	}
	blog.Author = author
	return blog, nil
}

func resolvePageSize(pageSize int) int {
	if pageSize <= 0 {
		return defaultBlogPageSize
	}
	return pageSize
}
