package repository

import (
	"errors"
	"time"

	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/models"

	"gorm.io/gorm"
)

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	Exists(id uint) (bool, error)
	List(filter CommentListFilter) ([]models.Comment, int64, error)
	ListVisibleByPost(postID uint) ([]models.Comment, error)
	UpdateWithVersion(id, version uint, updates map[string]interface{}) (int64, error)
	DeleteWithVersion(id, version uint) (int64, error)
	ListSoftDeletedBefore(cutoff time.Time, limit int) ([]models.Comment, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CommentRepository
}

// GormCommentRepository GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommentRepository) WithTx(tx *gorm.DB) CommentRepository {
	if tx == nil {
		return r
	}
	return &GormCommentRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCommentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func preloadCommentPost(db *gorm.DB) *gorm.DB {
	return db.Select("id", "slug", "title", "blog_id", "ready_status")
}

// Create 创建评论
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit("Post", "Author", "Moderator").Create(comment).Error
}

// GetByID 根据 ID 获取评论（包含软删除评论）
func (r *GormCommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Post", preloadCommentPost).
		Preload("Author").
		Preload("Moderator").
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Exists 判断评论是否存在
func (r *GormCommentRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 按审核视图查询评论（最新在前）
// 视图之间允许重叠：已审核视图包含之后被软删除的评论。
func (r *GormCommentRepository) List(filter CommentListFilter) ([]models.Comment, int64, error) {
	query := r.db.Model(&models.Comment{})
	switch filter.View {
	case constants.CommentViewModerated:
		query = query.Where("moderated_at IS NOT NULL")
	case constants.CommentViewDeleted:
		query = query.Where("state = ?", constants.CommentStateSoftDeleted)
	default:
		query = query.Where("state = ?", constants.CommentStatePending)
	}
	if filter.PostID != 0 {
		query = query.Where("post_id = ?", filter.PostID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var comments []models.Comment
	err := query.Preload("Post", preloadCommentPost).
		Preload("Author").
		Preload("Moderator").
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ListVisibleByPost 查询文章下对读者可见的评论（按创建时间正序）
func (r *GormCommentRepository) ListVisibleByPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ? AND state = ?", postID, constants.CommentStateModerated).
		Preload("Author").
		Preload("Moderator").
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateWithVersion 按版本号条件更新，返回受影响行数
func (r *GormCommentRepository) UpdateWithVersion(id, version uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	payload := make(map[string]interface{}, len(updates)+1)
	for key, value := range updates {
		payload[key] = value
	}
	payload["version"] = gorm.Expr("version + 1")
	result := r.db.Model(&models.Comment{}).
		Where("id = ? AND version = ?", id, version).
		Updates(payload)
	return result.RowsAffected, result.Error
}

// DeleteWithVersion 按版本号条件物理删除，返回受影响行数
func (r *GormCommentRepository) DeleteWithVersion(id, version uint) (int64, error) {
	result := r.db.Where("id = ? AND version = ?", id, version).Delete(&models.Comment{})
	return result.RowsAffected, result.Error
}

// ListSoftDeletedBefore 查询早于截止时间的软删除评论
func (r *GormCommentRepository) ListSoftDeletedBefore(cutoff time.Time, limit int) ([]models.Comment, error) {
	query := r.db.Select("id", "post_id", "version", "state", "deleted_at").
		Where("state = ? AND deleted_at IS NOT NULL AND deleted_at < ?", constants.CommentStateSoftDeleted, cutoff).
		Order("deleted_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
