package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-next/internal/cache"
	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultCommentMaxBodyLength = 2000
	commentPurgeBatchSize       = 200
)

// commentTransitions 评论生命周期允许的迁移
var commentTransitions = map[string]map[string]struct{}{
	constants.CommentStatePending: {
		constants.CommentStateModerated:   {},
		constants.CommentStateSoftDeleted: {},
		constants.CommentStateHardDeleted: {},
	},
	constants.CommentStateModerated: {
		constants.CommentStateModerated:   {},
		constants.CommentStateSoftDeleted: {},
	},
	constants.CommentStateSoftDeleted: {
		constants.CommentStateHardDeleted: {},
	},
}

var allowedModerationTypes = map[string]struct{}{
	constants.ModerationTypePolitical:   {},
	constants.ModerationTypeLanguage:    {},
	constants.ModerationTypeDrugs:       {},
	constants.ModerationTypeThreatening: {},
	constants.ModerationTypeSexual:      {},
	constants.ModerationTypeHateSpeech:  {},
	constants.ModerationTypeShaming:     {},
}

// CanTransitionComment 判断评论状态迁移是否合法
func CanTransitionComment(from, to string) bool {
	targets, ok := commentTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// IsValidModerationType 审核类型是否合法
func IsValidModerationType(moderationType string) bool {
	_, ok := allowedModerationTypes[moderationType]
	return ok
}

// CommentSectionRedirect 返回文章评论区跳转地址
func CommentSectionRedirect(slug string) string {
	return fmt.Sprintf("/posts/%s#%s", slug, constants.CommentSectionAnchor)
}

// CommentService 评论生命周期服务
type CommentService struct {
	repo          repository.CommentRepository
	postRepo      repository.PostRepository
	audit         *AuditService
	maxBodyLength int
}

// NewCommentService 创建评论服务
func NewCommentService(repo repository.CommentRepository, postRepo repository.PostRepository, audit *AuditService, maxBodyLength int) *CommentService {
	if maxBodyLength <= 0 {
		maxBodyLength = defaultCommentMaxBodyLength
	}
	return &CommentService{
		repo:          repo,
		postRepo:      postRepo,
		audit:         audit,
		maxBodyLength: maxBodyLength,
	}
}

// CreateCommentInput 创建评论输入（PostID 与 PostSlug 二选一）
type CreateCommentInput struct {
	PostID   uint
	PostSlug string
	Body     string
}

// ModerateCommentInput 审核评论输入
type ModerateCommentInput struct {
	// CommentID 表单内携带的评论 ID，必须与路径 ID 一致
	CommentID      uint
	ModeratedBody  string
	ModerationType string
	Version        uint
}

// DeleteCommentInput 删除评论输入
type DeleteCommentInput struct {
	HardDelete bool
	Version    uint
}

// CommentResult 评论写操作结果，携带父文章 slug 供调用方跳转
type CommentResult struct {
	Comment  *models.Comment `json:"comment,omitempty"`
	PostSlug string          `json:"post_slug"`
	Redirect string          `json:"redirect"`
	State    string          `json:"state"`
}

// Create 创建评论，初始状态恒为 pending
func (s *CommentService) Create(ctx context.Context, actor Actor, input CreateCommentInput) (*CommentResult, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrForbidden
	}
	body := strings.TrimSpace(input.Body)
	fieldErrs := NewValidationError()
	validateLength(fieldErrs, "body", body, 1, s.maxBodyLength)
	if err := fieldErrs.OrNil(); err != nil {
		return nil, err
	}

	post, err := s.resolvePost(input)
	if err != nil {
		return nil, err
	}
	if !canViewPost(actor, post) {
		return nil, ErrPostNotFound
	}

	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  actor.UserID,
		Body:      body,
		State:     constants.CommentStatePending,
		Version:   1,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}

	logger.Infow("comment_created", "comment_id", comment.ID, "post_id", post.ID, "author_id", actor.UserID)
	return buildCommentResult(comment, post.Slug), nil
}

// Moderate 审核评论：写入审核正文、类型、审核人与时间（单次条件更新）
func (s *CommentService) Moderate(ctx context.Context, actor Actor, id uint, input ModerateCommentInput) (*CommentResult, error) {
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}
	if input.CommentID != id {
		return nil, ErrCommentNotFound
	}

	moderatedBody := strings.TrimSpace(input.ModeratedBody)
	moderationType := strings.TrimSpace(input.ModerationType)
	fieldErrs := NewValidationError()
	validateLength(fieldErrs, "moderated_body", moderatedBody, 1, s.maxBodyLength)
	if !IsValidModerationType(moderationType) {
		fieldErrs.Add("moderation_type", "moderation_type_invalid")
	}
	if err := fieldErrs.OrNil(); err != nil {
		return nil, err
	}

	comment, err := s.loadForTransition(id, constants.CommentStateModerated, input.Version)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	moderatorID := actor.UserID
	updates := map[string]interface{}{
		"moderated_body":  moderatedBody,
		"moderation_type": moderationType,
		"moderator_id":    moderatorID,
		"moderated_at":    now,
		"state":           constants.CommentStateModerated,
		"updated_at":      now,
	}
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.UpdateWithVersion(comment.ID, comment.Version, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return resolveCommentConflict(repo, comment.ID)
		}
		return s.audit.WithTx(tx).Record(AuditRecordInput{
			Actor:      actor,
			Action:     constants.AuditActionCommentModerate,
			TargetType: constants.AuditTargetComment,
			TargetID:   comment.ID,
			FromState:  comment.State,
			ToState:    constants.CommentStateModerated,
			Detail:     map[string]interface{}{"moderation_type": moderationType},
		})
	})
	if err != nil {
		return nil, err
	}

	slug := commentPostSlug(comment)
	invalidatePostDetail(ctx, slug)
	logger.Infow("comment_moderated",
		"comment_id", comment.ID,
		"moderator_id", moderatorID,
		"moderation_type", moderationType,
		"from_state", comment.State,
	)

	updated, err := s.repo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCommentNotFound
	}
	return buildCommentResult(updated, slug), nil
}

// Delete 删除评论，由 HardDelete 标志决定软删除或物理删除
func (s *CommentService) Delete(ctx context.Context, actor Actor, id uint, input DeleteCommentInput) (*CommentResult, error) {
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}
	target := constants.CommentStateSoftDeleted
	action := constants.AuditActionCommentSoftDelete
	if input.HardDelete {
		target = constants.CommentStateHardDeleted
		action = constants.AuditActionCommentHardDelete
	}

	comment, err := s.loadForTransition(id, target, input.Version)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var affected int64
		var err error
		if input.HardDelete {
			affected, err = repo.DeleteWithVersion(comment.ID, comment.Version)
		} else {
			now := time.Now()
			affected, err = repo.UpdateWithVersion(comment.ID, comment.Version, map[string]interface{}{
				"state":      constants.CommentStateSoftDeleted,
				"deleted_at": now,
				"updated_at": now,
			})
		}
		if err != nil {
			return err
		}
		if affected == 0 {
			return resolveCommentConflict(repo, comment.ID)
		}
		return s.audit.WithTx(tx).Record(AuditRecordInput{
			Actor:      actor,
			Action:     action,
			TargetType: constants.AuditTargetComment,
			TargetID:   comment.ID,
			FromState:  comment.State,
			ToState:    target,
		})
	})
	if err != nil {
		return nil, err
	}

	slug := commentPostSlug(comment)
	invalidatePostDetail(ctx, slug)
	logger.Infow("comment_deleted",
		"comment_id", comment.ID,
		"actor_id", actor.UserID,
		"hard_delete", input.HardDelete,
		"from_state", comment.State,
	)

	result := &CommentResult{
		PostSlug: slug,
		Redirect: CommentSectionRedirect(slug),
		State:    target,
	}
	if !input.HardDelete {
		updated, err := s.repo.GetByID(comment.ID)
		if err != nil {
			return nil, err
		}
		result.Comment = updated
	}
	return result, nil
}

// List 审核队列视图（unmoderated/moderated/deleted），最新在前
func (s *CommentService) List(actor Actor, view string, page, pageSize int) ([]models.Comment, int64, error) {
	if !actor.CanModerate() {
		return nil, 0, ErrForbidden
	}
	view = NormalizeCommentView(view)
	return s.repo.List(repository.CommentListFilter{
		Page:     page,
		PageSize: pageSize,
		View:     view,
	})
}

// Get 后台按 ID 直接查询（含软删除评论）
func (s *CommentService) Get(actor Actor, id uint) (*models.Comment, error) {
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}
	if id == 0 {
		return nil, ErrCommentNotFound
	}
	comment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// PurgeSoftDeleted 物理删除早于截止时间的软删除评论，返回删除数量
func (s *CommentService) PurgeSoftDeleted(ctx context.Context, cutoff time.Time) (int, error) {
	purged := 0
	for {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		batch, err := s.repo.ListSoftDeletedBefore(cutoff, commentPurgeBatchSize)
		if err != nil {
			return purged, err
		}
		if len(batch) == 0 {
			return purged, nil
		}
		removed := 0
		for _, comment := range batch {
			affected, err := s.repo.DeleteWithVersion(comment.ID, comment.Version)
			if err != nil {
				return purged, err
			}
			removed += int(affected)
		}
		purged += removed
		if removed == 0 || len(batch) < commentPurgeBatchSize {
			return purged, nil
		}
	}
}

// NormalizeCommentView 归一化审核队列视图，未知值回退到 unmoderated
func NormalizeCommentView(view string) string {
	switch strings.ToLower(strings.TrimSpace(view)) {
	case constants.CommentViewModerated:
		return constants.CommentViewModerated
	case constants.CommentViewDeleted:
		return constants.CommentViewDeleted
	default:
		return constants.CommentViewUnmoderated
	}
}

func (s *CommentService) resolvePost(input CreateCommentInput) (*models.Post, error) {
	var (
		post *models.Post
		err  error
	)
	switch {
	case input.PostID != 0:
		post, err = s.postRepo.GetByID(input.PostID)
	case strings.TrimSpace(input.PostSlug) != "":
		post, err = s.postRepo.GetBySlug(strings.TrimSpace(input.PostSlug))
	}
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *CommentService) loadForTransition(id uint, target string, expectedVersion uint) (*models.Comment, error) {
	if id == 0 {
		return nil, ErrCommentNotFound
	}
	comment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if expectedVersion != 0 && expectedVersion != comment.Version {
		return nil, ErrConcurrencyConflict
	}
	if !CanTransitionComment(comment.State, target) {
		return nil, ErrCommentTransitionInvalid
	}
	return comment, nil
}

// resolveCommentConflict 条件写未命中时区分已删除与并发修改
func resolveCommentConflict(repo repository.CommentRepository, id uint) error {
	exists, err := repo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCommentNotFound
	}
	return ErrConcurrencyConflict
}

func commentPostSlug(comment *models.Comment) string {
	if comment == nil || comment.Post == nil {
		return ""
	}
	return comment.Post.Slug
}

func buildCommentResult(comment *models.Comment, slug string) *CommentResult {
	return &CommentResult{
		Comment:  comment,
		PostSlug: slug,
		Redirect: CommentSectionRedirect(slug),
		State:    comment.State,
	}
}

func invalidatePostDetail(ctx context.Context, slug string) {
	if strings.TrimSpace(slug) == "" {
		return
	}
	if err := cache.InvalidatePost(ctx, slug); err != nil {
		logger.Warnw("post_cache_invalidate_failed", "slug", slug, "error", err)
	}
}
