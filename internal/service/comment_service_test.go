package service

import (
	"testing"
	"time"

	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// racingCommentRepository 在加载评论之后、版本化写入之前执行 beforeWrite，模拟并发写入
type racingCommentRepository struct {
	repository.CommentRepository
	beforeWrite func()
}

func (r *racingCommentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if r.beforeWrite != nil {
		hook := r.beforeWrite
		r.beforeWrite = nil
		hook()
	}
	return r.CommentRepository.Transaction(fn)
}

func newRacingCommentService(env *serviceTestEnv, beforeWrite func()) *CommentService {
	repo := &racingCommentRepository{
		CommentRepository: repository.NewCommentRepository(env.db),
		beforeWrite:       beforeWrite,
	}
	return NewCommentService(repo, repository.NewPostRepository(env.db), env.audit, 200)
}

func commentIDsInView(t *testing.T, env *serviceTestEnv, view string) []uint {
	t.Helper()
	comments, _, err := env.comments.List(env.admin, view, 1, 50)
	require.NoError(t, err)
	ids := make([]uint, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.ID)
	}
	return ids
}

func TestCanTransitionComment(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{constants.CommentStatePending, constants.CommentStateModerated, true},
		{constants.CommentStatePending, constants.CommentStateSoftDeleted, true},
		{constants.CommentStatePending, constants.CommentStateHardDeleted, true},
		{constants.CommentStateModerated, constants.CommentStateModerated, true},
		{constants.CommentStateModerated, constants.CommentStateSoftDeleted, true},
		{constants.CommentStateModerated, constants.CommentStateHardDeleted, false},
		{constants.CommentStateSoftDeleted, constants.CommentStateHardDeleted, true},
		{constants.CommentStateSoftDeleted, constants.CommentStateModerated, false},
		{constants.CommentStateSoftDeleted, constants.CommentStatePending, false},
		{constants.CommentStateModerated, constants.CommentStatePending, false},
		{"unknown", constants.CommentStateModerated, false},
	}
	for _, tt := range tests {
		if got := CanTransitionComment(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransitionComment(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCommentServiceCreateStartsPending(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Comment Target", constants.ReadyStatusProductionReady)

	result, err := env.comments.Create(t.Context(), env.reader, CreateCommentInput{PostSlug: post.Slug, Body: "  nice post  "})
	require.NoError(t, err)
	assert.Equal(t, constants.CommentStatePending, result.Comment.State)
	assert.Equal(t, "nice post", result.Comment.Body)
	assert.Equal(t, env.reader.UserID, result.Comment.AuthorID)
	assert.Equal(t, post.Slug, result.PostSlug)
	assert.Equal(t, "/posts/comment-target#commentSection", result.Redirect)

	assert.Equal(t, []uint{result.Comment.ID}, commentIDsInView(t, env, constants.CommentViewUnmoderated))
	assert.Empty(t, commentIDsInView(t, env, constants.CommentViewModerated))
	assert.Empty(t, commentIDsInView(t, env, constants.CommentViewDeleted))
}

func TestCommentServiceCreateValidation(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Validation Target", constants.ReadyStatusProductionReady)
	draft := env.createPost(t, "Hidden Draft", constants.ReadyStatusPreProduction)

	_, err := env.comments.Create(t.Context(), Actor{}, CreateCommentInput{PostSlug: post.Slug, Body: "anon"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.comments.Create(t.Context(), env.reader, CreateCommentInput{PostSlug: post.Slug, Body: "   "})
	fieldErrs, ok := AsValidationError(err)
	require.True(t, ok)
	assert.True(t, fieldErrs.Has("body", "required"))

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	_, err = env.comments.Create(t.Context(), env.reader, CreateCommentInput{PostSlug: post.Slug, Body: string(long)})
	fieldErrs, ok = AsValidationError(err)
	require.True(t, ok)
	assert.True(t, fieldErrs.Has("body", "length"))

	_, err = env.comments.Create(t.Context(), env.reader, CreateCommentInput{PostSlug: "missing", Body: "hi"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.comments.Create(t.Context(), env.reader, CreateCommentInput{PostID: draft.ID, Body: "hi"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentServiceModerateKeepsOriginalBody(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Moderation Target", constants.ReadyStatusProductionReady)
	comment := env.createComment(t, post.Slug, "you are all idiots")

	moderator := Actor{UserID: env.reader.UserID, Roles: []string{constants.RoleModerator}}
	result, err := env.comments.Moderate(t.Context(), moderator, comment.ID, ModerateCommentInput{
		CommentID:      comment.ID,
		ModeratedBody:  "[removed]",
		ModerationType: constants.ModerationTypeLanguage,
	})
	require.NoError(t, err)

	moderated := result.Comment
	assert.Equal(t, constants.CommentStateModerated, moderated.State)
	assert.Equal(t, "you are all idiots", moderated.Body)
	require.NotNil(t, moderated.ModeratedBody)
	assert.Equal(t, "[removed]", *moderated.ModeratedBody)
	require.NotNil(t, moderated.ModeratorID)
	assert.Equal(t, moderator.UserID, *moderated.ModeratorID)
	assert.NotNil(t, moderated.ModeratedAt)
	assert.Equal(t, uint(2), moderated.Version)
	assert.Equal(t, "/posts/moderation-target#commentSection", result.Redirect)

	assert.Empty(t, commentIDsInView(t, env, constants.CommentViewUnmoderated))
	assert.Equal(t, []uint{comment.ID}, commentIDsInView(t, env, constants.CommentViewModerated))

	logs, total, err := env.audit.List(repository.AuditLogListFilter{TargetType: constants.AuditTargetComment, TargetID: comment.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, constants.AuditActionCommentModerate, logs[0].Action)
	assert.Equal(t, constants.CommentStatePending, logs[0].FromState)
}

func TestCommentServiceModerateGuards(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Guard Target", constants.ReadyStatusProductionReady)
	comment := env.createComment(t, post.Slug, "hello")
	input := ModerateCommentInput{
		CommentID:      comment.ID,
		ModeratedBody:  "hello!",
		ModerationType: constants.ModerationTypeShaming,
	}

	_, err := env.comments.Moderate(t.Context(), env.reader, comment.ID, input)
	assert.ErrorIs(t, err, ErrForbidden)

	mismatched := input
	mismatched.CommentID = comment.ID + 1
	_, err = env.comments.Moderate(t.Context(), env.admin, comment.ID, mismatched)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	badType := input
	badType.ModerationType = "spam"
	_, err = env.comments.Moderate(t.Context(), env.admin, comment.ID, badType)
	fieldErrs, ok := AsValidationError(err)
	require.True(t, ok)
	assert.True(t, fieldErrs.Has("moderation_type", "moderation_type_invalid"))

	stale := input
	stale.Version = comment.Version + 5
	_, err = env.comments.Moderate(t.Context(), env.admin, comment.ID, stale)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)

	_, err = env.comments.Delete(t.Context(), env.admin, comment.ID, DeleteCommentInput{})
	require.NoError(t, err)
	_, err = env.comments.Moderate(t.Context(), env.admin, comment.ID, input)
	assert.ErrorIs(t, err, ErrCommentTransitionInvalid)
}

func TestCommentServiceSoftDeleteThenHardDelete(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Delete Target", constants.ReadyStatusProductionReady)
	comment := env.createComment(t, post.Slug, "to be removed")
	_, err := env.comments.Moderate(t.Context(), env.admin, comment.ID, ModerateCommentInput{
		CommentID:      comment.ID,
		ModeratedBody:  "to be removed (edited)",
		ModerationType: constants.ModerationTypePolitical,
	})
	require.NoError(t, err)

	result, err := env.comments.Delete(t.Context(), env.admin, comment.ID, DeleteCommentInput{HardDelete: false})
	require.NoError(t, err)
	assert.Equal(t, constants.CommentStateSoftDeleted, result.State)
	assert.Equal(t, post.Slug, result.PostSlug)
	require.NotNil(t, result.Comment)
	assert.NotNil(t, result.Comment.DeletedAt)

	assert.Equal(t, []uint{comment.ID}, commentIDsInView(t, env, constants.CommentViewDeleted))
	assert.Equal(t, []uint{comment.ID}, commentIDsInView(t, env, constants.CommentViewModerated))

	direct, err := env.comments.Get(env.admin, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "to be removed", direct.Body)

	detail, err := env.posts.GetBySlug(t.Context(), env.reader, post.Slug)
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)

	result, err = env.comments.Delete(t.Context(), env.admin, comment.ID, DeleteCommentInput{HardDelete: true})
	require.NoError(t, err)
	assert.Equal(t, constants.CommentStateHardDeleted, result.State)
	assert.Nil(t, result.Comment)

	_, err = env.comments.Get(env.admin, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	_, err = env.comments.Delete(t.Context(), env.admin, comment.ID, DeleteCommentInput{HardDelete: true})
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentServiceHardDeleteFromPendingAndInvalidFromModerated(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Hard Target", constants.ReadyStatusProductionReady)
	pending := env.createComment(t, post.Slug, "spam spam")
	moderated := env.createComment(t, post.Slug, "ok")
	_, err := env.comments.Moderate(t.Context(), env.admin, moderated.ID, ModerateCommentInput{
		CommentID:      moderated.ID,
		ModeratedBody:  "ok",
		ModerationType: constants.ModerationTypeLanguage,
	})
	require.NoError(t, err)

	_, err = env.comments.Delete(t.Context(), env.admin, pending.ID, DeleteCommentInput{HardDelete: true})
	require.NoError(t, err)
	_, err = env.comments.Get(env.admin, pending.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = env.comments.Delete(t.Context(), env.admin, moderated.ID, DeleteCommentInput{HardDelete: true})
	assert.ErrorIs(t, err, ErrCommentTransitionInvalid)
}

func TestResolveCommentConflict(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Conflict Target", constants.ReadyStatusProductionReady)
	comment := env.createComment(t, post.Slug, "race")
	repo := repository.NewCommentRepository(env.db)

	assert.ErrorIs(t, resolveCommentConflict(repo, comment.ID), ErrConcurrencyConflict)
	assert.ErrorIs(t, resolveCommentConflict(repo, comment.ID+100), ErrCommentNotFound)
}

func TestCommentServiceModerateLosesRaceToHardDelete(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Race Target", constants.ReadyStatusProductionReady)
	comment := env.createComment(t, post.Slug, "racing")

	svc := newRacingCommentService(env, func() {
		require.NoError(t, env.db.Delete(&models.Comment{}, comment.ID).Error)
	})
	_, err := svc.Moderate(t.Context(), env.admin, comment.ID, ModerateCommentInput{
		CommentID:      comment.ID,
		ModeratedBody:  "racing",
		ModerationType: constants.ModerationTypeLanguage,
		Version:        comment.Version,
	})
	assert.ErrorIs(t, err, ErrCommentNotFound)

	var auditCount int64
	require.NoError(t, env.db.Model(&models.AuditLog{}).Where("target_id = ? AND action = ?", comment.ID, constants.AuditActionCommentModerate).Count(&auditCount).Error)
	assert.Zero(t, auditCount)
}

func TestCommentServiceModerateLosesRaceToConcurrentEdit(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Edit Race", constants.ReadyStatusProductionReady)
	comment := env.createComment(t, post.Slug, "racing")

	svc := newRacingCommentService(env, func() {
		require.NoError(t, env.db.Model(&models.Comment{}).Where("id = ?", comment.ID).
			Update("version", gorm.Expr("version + 1")).Error)
	})
	_, err := svc.Moderate(t.Context(), env.admin, comment.ID, ModerateCommentInput{
		CommentID:      comment.ID,
		ModeratedBody:  "racing",
		ModerationType: constants.ModerationTypeLanguage,
	})
	assert.ErrorIs(t, err, ErrConcurrencyConflict)

	reloaded, err := env.comments.Get(env.admin, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.CommentStatePending, reloaded.State)
	assert.Nil(t, reloaded.ModeratedBody)
}

func TestCommentServiceDeleteLosesRaceToHardDelete(t *testing.T) {
	for name, hard := range map[string]bool{"soft": false, "hard": true} {
		t.Run(name, func(t *testing.T) {
			env := setupServiceTestEnv(t)
			post := env.createPost(t, "Delete Race", constants.ReadyStatusProductionReady)
			comment := env.createComment(t, post.Slug, "racing")

			svc := newRacingCommentService(env, func() {
				require.NoError(t, env.db.Delete(&models.Comment{}, comment.ID).Error)
			})
			_, err := svc.Delete(t.Context(), env.admin, comment.ID, DeleteCommentInput{HardDelete: hard, Version: comment.Version})
			assert.ErrorIs(t, err, ErrCommentNotFound)
		})
	}
}

func TestCommentServiceDeleteLosesRaceToConcurrentEdit(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Delete Edit Race", constants.ReadyStatusProductionReady)
	comment := env.createComment(t, post.Slug, "racing")

	svc := newRacingCommentService(env, func() {
		require.NoError(t, env.db.Model(&models.Comment{}).Where("id = ?", comment.ID).
			Update("version", gorm.Expr("version + 1")).Error)
	})
	_, err := svc.Delete(t.Context(), env.admin, comment.ID, DeleteCommentInput{HardDelete: true})
	assert.ErrorIs(t, err, ErrConcurrencyConflict)

	reloaded, err := env.comments.Get(env.admin, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.CommentStatePending, reloaded.State)
}

func TestCommentServicePurgeSoftDeleted(t *testing.T) {
	env := setupServiceTestEnv(t)
	post := env.createPost(t, "Purge Target", constants.ReadyStatusProductionReady)
	old := env.createComment(t, post.Slug, "old")
	recent := env.createComment(t, post.Slug, "recent")
	for _, comment := range []*models.Comment{old, recent} {
		_, err := env.comments.Delete(t.Context(), env.admin, comment.ID, DeleteCommentInput{})
		require.NoError(t, err)
	}
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, env.db.Model(&models.Comment{}).Where("id = ?", old.ID).Update("deleted_at", past).Error)

	purged, err := env.comments.PurgeSoftDeleted(t.Context(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	assert.Equal(t, []uint{recent.ID}, commentIDsInView(t, env, constants.CommentViewDeleted))
}

func TestNormalizeCommentView(t *testing.T) {
	assert.Equal(t, constants.CommentViewUnmoderated, NormalizeCommentView(""))
	assert.Equal(t, constants.CommentViewModerated, NormalizeCommentView(" Moderated "))
	assert.Equal(t, constants.CommentViewDeleted, NormalizeCommentView("deleted"))
	assert.Equal(t, constants.CommentViewUnmoderated, NormalizeCommentView("bogus"))
}
