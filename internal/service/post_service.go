package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inkwell-next/internal/cache"
	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/repository"

	"gorm.io/gorm"
)

const maxTagLength = 50

// PostService 文章业务服务
type PostService struct {
	repo        repository.PostRepository
	blogRepo    repository.BlogRepository
	commentRepo repository.CommentRepository
	slugs       *SlugService
	audit       *AuditService
	pageSize    int
	cacheTTL    time.Duration
	tagCloudTTL time.Duration
}

// PostServiceOptions 文章服务参数
type PostServiceOptions struct {
	PageSize    int
	CacheTTL    time.Duration
	TagCloudTTL time.Duration
}

// NewPostService 创建文章服务
func NewPostService(
	repo repository.PostRepository,
	blogRepo repository.BlogRepository,
	commentRepo repository.CommentRepository,
	slugs *SlugService,
	audit *AuditService,
	opts PostServiceOptions,
) *PostService {
	return &PostService{
		repo:        repo,
		blogRepo:    blogRepo,
		commentRepo: commentRepo,
		slugs:       slugs,
		audit:       audit,
		pageSize:    resolvePageSize(opts.PageSize),
		cacheTTL:    opts.CacheTTL,
		tagCloudTTL: opts.TagCloudTTL,
	}
}

// PostInput 创建/编辑文章输入
type PostInput struct {
	BlogID      uint
	Title       string
	Abstract    string
	Content     string
	ReadyStatus string
	Image       *EncodedImage
	Tags        []string
	// Version 编辑时客户端持有的版本号，0 表示不校验
	Version uint
}

// VisibleComment 读者可见的评论（正文为审核后正文）
type VisibleComment struct {
	ID             uint       `json:"id"`
	Body           string     `json:"body"`
	ModerationType string     `json:"moderation_type,omitempty"`
	AuthorName     string     `json:"author_name"`
	ModeratorName  string     `json:"moderator_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ModeratedAt    *time.Time `json:"moderated_at,omitempty"`
}

// PostDetail 文章详情
type PostDetail struct {
	Post     models.Post      `json:"post"`
	Comments []VisibleComment `json:"comments"`
	TagCloud []string         `json:"tag_cloud"`
}

// PageSize 列表固定页大小
func (s *PostService) PageSize() int {
	return s.pageSize
}

// ListPublished 已发布文章列表
func (s *PostService) ListPublished(page int) ([]models.Post, int64, error) {
	return s.repo.List(repository.PostListFilter{
		Page:          page,
		PageSize:      s.pageSize,
		OnlyPublished: true,
	})
}

// Search 检索已发布文章，空关键词等同于已发布列表
func (s *PostService) Search(term string, page int) ([]models.Post, int64, error) {
	return s.repo.List(repository.PostListFilter{
		Page:          page,
		PageSize:      s.pageSize,
		Search:        strings.TrimSpace(term),
		OnlyPublished: true,
	})
}

// ListByBlog 博客下的已发布文章
func (s *PostService) ListByBlog(blogID uint, page int) ([]models.Post, int64, error) {
	if _, err := s.getBlog(blogID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(repository.PostListFilter{
		Page:          page,
		PageSize:      s.pageSize,
		BlogID:        blogID,
		OnlyPublished: true,
	})
}

// ListByTag 按标签（忽略大小写）查询已发布文章
func (s *PostService) ListByTag(tag string, page int) ([]models.Post, int64, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return []models.Post{}, 0, nil
	}
	return s.repo.List(repository.PostListFilter{
		Page:          page,
		PageSize:      s.pageSize,
		Tag:           tag,
		OnlyPublished: true,
	})
}

// ListAdmin 后台文章列表（任意就绪状态）
func (s *PostService) ListAdmin(page, pageSize int, readyStatus string) ([]models.Post, int64, error) {
	readyStatus = strings.TrimSpace(readyStatus)
	if readyStatus != "" && !isValidReadyStatus(readyStatus) {
		return nil, 0, ErrReadyStatusInvalid
	}
	return s.repo.List(repository.PostListFilter{
		Page:        page,
		PageSize:    pageSize,
		ReadyStatus: readyStatus,
	})
}

// GetAdmin 后台获取文章
func (s *PostService) GetAdmin(id uint) (*models.Post, error) {
	return s.getPost(id)
}

// GetBySlug 文章详情：作者、标签、可见评论与标签云
// 预发布文章仅管理员可见
func (s *PostService) GetBySlug(ctx context.Context, actor Actor, slug string) (*PostDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrPostNotFound
	}

	var detail PostDetail
	hit, cacheErr := cache.GetJSON(ctx, cache.PostDetailKey(slug), &detail)
	if cacheErr != nil {
		logger.Warnw("post_detail_cache_read_failed", "slug", slug, "error", cacheErr)
	}
	if cacheErr != nil || !hit {
		loaded, err := s.loadDetail(ctx, slug)
		if err != nil {
			return nil, err
		}
		detail = *loaded
		if s.cacheTTL > 0 {
			if err := cache.SetJSON(ctx, cache.PostDetailKey(slug), detail, s.cacheTTL); err != nil {
				logger.Warnw("post_detail_cache_write_failed", "slug", slug, "error", err)
			}
		}
	}

	if !canViewPost(actor, &detail.Post) {
		return nil, ErrPostNotFound
	}
	return &detail, nil
}

func (s *PostService) loadDetail(ctx context.Context, slug string) (*PostDetail, error) {
	post, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	comments, err := s.commentRepo.ListVisibleByPost(post.ID)
	if err != nil {
		return nil, err
	}
	tagCloud, err := s.TagCloud(ctx)
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		Post:     *post,
		Comments: toVisibleComments(comments),
		TagCloud: tagCloud,
	}, nil
}

// GetImage 获取文章封面
func (s *PostService) GetImage(actor Actor, slug string) (*EncodedImage, error) {
	post, err := s.repo.GetImageBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if post == nil || !canViewPost(actor, post) || !post.HasImage() {
		return nil, ErrPostNotFound
	}
	return &EncodedImage{Data: post.ImageData, ContentType: post.ContentType}, nil
}

// TagCloud 去重小写标签云
func (s *PostService) TagCloud(ctx context.Context) ([]string, error) {
	var cached []string
	if hit, err := cache.GetJSON(ctx, cache.TagCloudKey(), &cached); err == nil && hit {
		return cached, nil
	}
	tags, err := s.repo.TagCloud()
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	if s.tagCloudTTL > 0 {
		_ = cache.SetJSON(ctx, cache.TagCloudKey(), tags, s.tagCloudTTL)
	}
	return tags, nil
}

// Create 创建文章：派生 slug、写入文章与标签（同一事务）
func (s *PostService) Create(ctx context.Context, actor Actor, input PostInput) (*models.Post, error) {
	if !actor.IsAdministrator() {
		return nil, ErrForbidden
	}
	normalized, fieldErrs := normalizePostInput(input)
	tags, err := NormalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	slug := s.slugs.URLFriendly(normalized.Title)
	if slug == "" {
		fieldErrs.Add("title", "slug_empty")
	}
	unique, err := s.slugs.IsUnique(slug)
	if err != nil {
		return nil, err
	}
	if !unique {
		fieldErrs.Add("title", "slug_duplicate")
	}
	if err := fieldErrs.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.getBlog(normalized.BlogID); err != nil {
		return nil, err
	}

	post := &models.Post{
		BlogID:      normalized.BlogID,
		AuthorID:    actor.UserID,
		Title:       normalized.Title,
		Slug:        slug,
		Abstract:    normalized.Abstract,
		Content:     normalized.Content,
		ReadyStatus: normalized.ReadyStatus,
		Version:     1,
		CreatedAt:   time.Now(),
	}
	if input.Image != nil {
		post.ImageData = input.Image.Data
		post.ContentType = input.Image.ContentType
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(post); err != nil {
			return err
		}
		if err := repo.CreateTags(buildTags(post.ID, actor.UserID, tags)); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Record(AuditRecordInput{
			Actor:      actor,
			Action:     constants.AuditActionPostCreate,
			TargetType: constants.AuditTargetPost,
			TargetID:   post.ID,
			ToState:    post.ReadyStatus,
			Detail:     map[string]interface{}{"slug": post.Slug},
		})
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, slugDuplicateError()
		}
		return nil, err
	}

	s.invalidate(ctx)
	logger.Infow("post_created", "post_id", post.ID, "slug", post.Slug, "actor_id", actor.UserID)
	return s.getPost(post.ID)
}

// Update 编辑文章：标题派生的新 slug 与原 slug 不同时才校验唯一性，
// 校验失败时整体拒绝；标签整体替换。
func (s *PostService) Update(ctx context.Context, actor Actor, id uint, input PostInput) (*models.Post, error) {
	if !actor.IsAdministrator() {
		return nil, ErrForbidden
	}
	normalized, fieldErrs := normalizePostInput(input)
	tags, err := NormalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	post, err := s.getPost(id)
	if err != nil {
		return nil, err
	}
	if input.Version != 0 && input.Version != post.Version {
		return nil, ErrConcurrencyConflict
	}

	newSlug := s.slugs.URLFriendly(normalized.Title)
	if newSlug == "" {
		fieldErrs.Add("title", "slug_empty")
	} else if newSlug != post.Slug {
		unique, err := s.slugs.IsUnique(newSlug)
		if err != nil {
			return nil, err
		}
		if !unique {
			fieldErrs.Add("title", "slug_duplicate")
		}
	}
	if err := fieldErrs.OrNil(); err != nil {
		return nil, err
	}

	blogID := post.BlogID
	if normalized.BlogID != 0 && normalized.BlogID != post.BlogID {
		if _, err := s.getBlog(normalized.BlogID); err != nil {
			return nil, err
		}
		blogID = normalized.BlogID
	}

	now := time.Now()
	updates := map[string]interface{}{
		"blog_id":      blogID,
		"title":        normalized.Title,
		"slug":         newSlug,
		"abstract":     normalized.Abstract,
		"content":      normalized.Content,
		"ready_status": normalized.ReadyStatus,
		"updated_at":   now,
	}
	if input.Image != nil {
		updates["image_data"] = input.Image.Data
		updates["content_type"] = input.Image.ContentType
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.UpdateWithVersion(post.ID, post.Version, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return resolvePostConflict(repo, post.ID)
		}
		if err := repo.ReplaceTags(post.ID, buildTags(post.ID, post.AuthorID, tags)); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Record(AuditRecordInput{
			Actor:      actor,
			Action:     constants.AuditActionPostUpdate,
			TargetType: constants.AuditTargetPost,
			TargetID:   post.ID,
			FromState:  post.ReadyStatus,
			ToState:    normalized.ReadyStatus,
			Detail:     map[string]interface{}{"from_slug": post.Slug, "to_slug": newSlug},
		})
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, slugDuplicateError()
		}
		return nil, err
	}

	s.invalidate(ctx, post.Slug, newSlug)
	logger.Infow("post_updated", "post_id", post.ID, "slug", newSlug, "actor_id", actor.UserID)
	return s.getPost(post.ID)
}

// Delete 物理删除文章（连同标签与评论）
func (s *PostService) Delete(ctx context.Context, actor Actor, id uint) (string, error) {
	if !actor.IsAdministrator() {
		return "", ErrForbidden
	}
	post, err := s.getPost(id)
	if err != nil {
		return "", err
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).Delete(post.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrPostNotFound
		}
		return s.audit.WithTx(tx).Record(AuditRecordInput{
			Actor:      actor,
			Action:     constants.AuditActionPostDelete,
			TargetType: constants.AuditTargetPost,
			TargetID:   post.ID,
			FromState:  post.ReadyStatus,
			Detail:     map[string]interface{}{"slug": post.Slug},
		})
	})
	if err != nil {
		return "", err
	}

	s.invalidate(ctx, post.Slug)
	logger.Infow("post_deleted", "post_id", post.ID, "slug", post.Slug, "actor_id", actor.UserID)
	return post.Slug, nil
}

func (s *PostService) getPost(id uint) (*models.Post, error) {
	if id == 0 {
		return nil, ErrPostNotFound
	}
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) getBlog(id uint) (*models.Blog, error) {
	if id == 0 {
		return nil, ErrBlogNotFound
	}
	blog, err := s.blogRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

func (s *PostService) invalidate(ctx context.Context, slugs ...string) {
	if err := cache.InvalidatePost(ctx, slugs...); err != nil {
		logger.Warnw("post_cache_invalidate_failed", "slugs", slugs, "error", err)
	}
}

// resolvePostConflict 条件更新未命中时区分已删除与并发修改
func resolvePostConflict(repo repository.PostRepository, id uint) error {
	exists, err := repo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return ErrConcurrencyConflict
}

func normalizePostInput(input PostInput) (PostInput, *ValidationError) {
	fieldErrs := NewValidationError()
	normalized := PostInput{
		BlogID:      input.BlogID,
		Title:       strings.TrimSpace(input.Title),
		Abstract:    strings.TrimSpace(input.Abstract),
		Content:     strings.TrimSpace(input.Content),
		ReadyStatus: strings.TrimSpace(input.ReadyStatus),
	}
	validateLength(fieldErrs, "title", normalized.Title, 1, 200)
	validateLength(fieldErrs, "abstract", normalized.Abstract, 1, 1000)
	if normalized.Content == "" {
		fieldErrs.Add("content", "required")
	}
	if !isValidReadyStatus(normalized.ReadyStatus) {
		fieldErrs.Add("ready_status", "ready_status_invalid")
	}
	return normalized, fieldErrs
}

// NormalizeTags 去除首尾空白，拒绝空标签、超长标签与（忽略大小写的）重复标签
func NormalizeTags(tags []string) ([]string, error) {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" || utf8.RuneCountInString(tag) > maxTagLength {
			return nil, ErrTagInvalid
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			return nil, ErrTagDuplicate
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return result, nil
}

func buildTags(postID, authorID uint, texts []string) []models.Tag {
	tags := make([]models.Tag, 0, len(texts))
	for _, text := range texts {
		tags = append(tags, models.Tag{
			PostID:   postID,
			AuthorID: authorID,
			Text:     text,
		})
	}
	return tags
}

func toVisibleComments(comments []models.Comment) []VisibleComment {
	result := make([]VisibleComment, 0, len(comments))
	for _, comment := range comments {
		if !comment.IsPubliclyVisible() {
			continue
		}
		item := VisibleComment{
			ID:             comment.ID,
			Body:           comment.DisplayBody(),
			ModerationType: comment.ModerationType,
			CreatedAt:      comment.CreatedAt,
			ModeratedAt:    comment.ModeratedAt,
		}
		if comment.Author != nil {
			item.AuthorName = displayNameOf(comment.Author)
		}
		if comment.Moderator != nil {
			item.ModeratorName = displayNameOf(comment.Moderator)
		}
		result = append(result, item)
	}
	return result
}

func displayNameOf(user *models.BlogUser) string {
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name
	}
	return user.FullName()
}

func canViewPost(actor Actor, post *models.Post) bool {
	if post == nil {
		return false
	}
	return post.ReadyStatus == constants.ReadyStatusProductionReady || actor.IsAdministrator()
}

func isValidReadyStatus(status string) bool {
	switch status {
	case constants.ReadyStatusProductionReady, constants.ReadyStatusPreProduction:
		return true
	default:
		return false
	}
}

func slugDuplicateError() error {
	fieldErrs := NewValidationError()
	fieldErrs.Add("title", "slug_duplicate")
	return fieldErrs
}
