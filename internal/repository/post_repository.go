package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/models"

	"gorm.io/gorm"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	GetImageBySlug(slug string) (*models.Post, error)
	SlugExists(slug string) (bool, error)
	Exists(id uint) (bool, error)
	Create(post *models.Post) error
	CreateTags(tags []models.Tag) error
	ReplaceTags(postID uint, tags []models.Tag) error
	UpdateWithVersion(id, version uint, updates map[string]interface{}) (int64, error)
	Delete(id uint) (int64, error)
	TagCloud() ([]string, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PostRepository
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPostRepository) WithTx(tx *gorm.DB) PostRepository {
	if tx == nil {
		return r
	}
	return &GormPostRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPostRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 文章列表（创建时间倒序，同时间按 ID 升序）
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})

	if filter.OnlyPublished {
		query = query.Where("posts.ready_status = ?", constants.ReadyStatusProductionReady)
	} else if filter.ReadyStatus != "" {
		query = query.Where("posts.ready_status = ?", filter.ReadyStatus)
	}
	if filter.BlogID != 0 {
		query = query.Where("posts.blog_id = ?", filter.BlogID)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.Where(
			fmt.Sprintf("EXISTS (SELECT 1 FROM tags t WHERE t.post_id = posts.id AND %s = ?)", foldExprByDialect(dbDialectName(r.db), "t.text")),
			strings.ToLower(tag),
		)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildPostSearchCondition(dbDialectName(r.db), search)
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var posts []models.Post
	err := query.Omit("image_data").
		Preload("Author").
		Preload("Tags").
		Order("posts.created_at DESC").
		Order("posts.id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// buildPostSearchCondition 构建全文检索条件：
// 命中文章标题/摘要/正文，或任一关联评论（含已软删除）的正文/审核正文/评论者姓名与邮箱。
func buildPostSearchCondition(dialect, term string) (string, []interface{}) {
	like := escapeLikePattern(dialect, term)
	postCondition, postArgCount := buildContainsCondition(dialect, []string{
		"posts.title",
		"posts.abstract",
		"posts.content",
	})
	commentCondition, commentArgCount := buildContainsCondition(dialect, []string{
		"c.body",
		"c.moderated_body",
		"u.first_name",
		"u.last_name",
		"u.email",
	})

	condition := fmt.Sprintf(
		"(%s) OR EXISTS (SELECT 1 FROM comments c LEFT JOIN blog_users u ON u.id = c.author_id WHERE c.post_id = posts.id AND (%s))",
		postCondition,
		commentCondition,
	)
	args := repeatLikeArgs(like, postArgCount)
	args = append(args, repeatLikeArgs(like, commentArgCount)...)
	return condition, args
}

// GetByID 根据 ID 获取文章（含作者与标签，不含图片数据）
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Omit("image_data").Preload("Author").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug 根据 slug 获取文章（含作者、博客与标签，不含图片数据）
func (r *GormPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Omit("image_data").
		Preload("Author").
		Preload("Blog", func(db *gorm.DB) *gorm.DB {
			return db.Omit("image_data")
		}).
		Preload("Tags").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetImageBySlug 获取文章封面数据
func (r *GormPostRepository) GetImageBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Select("id", "slug", "ready_status", "image_data", "content_type").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// SlugExists 精确判断 slug 是否已被占用
func (r *GormPostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Exists 判断文章是否存在
func (r *GormPostRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建文章（标签单独写入）
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Omit("Tags", "Comments", "Author", "Blog").Create(post).Error
}

// CreateTags 批量写入标签
func (r *GormPostRepository) CreateTags(tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.Create(&tags).Error
}

// ReplaceTags 删除文章全部标签后写入新标签
func (r *GormPostRepository) ReplaceTags(postID uint, tags []models.Tag) error {
	if err := r.db.Where("post_id = ?", postID).Delete(&models.Tag{}).Error; err != nil {
		return err
	}
	for i := range tags {
		tags[i].ID = 0
		tags[i].PostID = postID
	}
	return r.CreateTags(tags)
}

// UpdateWithVersion 按版本号条件更新，返回受影响行数
func (r *GormPostRepository) UpdateWithVersion(id, version uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	payload := make(map[string]interface{}, len(updates)+1)
	for key, value := range updates {
		payload[key] = value
	}
	payload["version"] = gorm.Expr("version + 1")
	result := r.db.Model(&models.Post{}).
		Where("id = ? AND version = ?", id, version).
		Updates(payload)
	return result.RowsAffected, result.Error
}

// Delete 物理删除文章及其标签、评论，返回文章删除行数
func (r *GormPostRepository) Delete(id uint) (int64, error) {
	if err := r.db.Where("post_id = ?", id).Delete(&models.Tag{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return 0, err
	}
	result := r.db.Delete(&models.Post{}, id)
	return result.RowsAffected, result.Error
}

// TagCloud 返回已发布文章的去重小写标签
func (r *GormPostRepository) TagCloud() ([]string, error) {
	published := r.db.Model(&models.Post{}).
		Select("id").
		Where("ready_status = ?", constants.ReadyStatusProductionReady)

	var texts []string
	err := r.db.Model(&models.Tag{}).
		Distinct().
		Where("post_id IN (?)", published).
		Pluck(foldExprByDialect(dbDialectName(r.db), "text"), &texts).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(texts)
	return texts, nil
}
