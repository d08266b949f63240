package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type serviceTestEnv struct {
	db       *gorm.DB
	posts    *PostService
	comments *CommentService
	blogs    *BlogService
	audit    *AuditService
	admin    Actor
	reader   Actor
	blog     *models.Blog
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	db := setupServiceTestDB(t)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	audit := NewAuditService(repository.NewAuditLogRepository(db))

	adminUser := createServiceTestUser(t, db, "admin@example.com", "Ada", "Lovelace")
	readerUser := createServiceTestUser(t, db, "reader@example.com", "Grace", "Hopper")
	blog := &models.Blog{AuthorID: adminUser.ID, Name: "Engineering", Description: "Engineering notes", CreatedAt: time.Now()}
	if err := db.Create(blog).Error; err != nil {
		t.Fatalf("create blog failed: %v", err)
	}

	return &serviceTestEnv{
		db:       db,
		posts:    NewPostService(postRepo, blogRepo, commentRepo, NewSlugService(postRepo), audit, PostServiceOptions{PageSize: 5}),
		comments: NewCommentService(commentRepo, postRepo, audit, 200),
		blogs:    NewBlogService(blogRepo, userRepo, 5),
		audit:    audit,
		admin:    Actor{UserID: adminUser.ID, Roles: []string{constants.RoleAdministrator, constants.RoleModerator}, RequestID: "req-admin"},
		reader:   Actor{UserID: readerUser.ID},
		blog:     blog,
	}
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email, first, last string) *models.BlogUser {
	t.Helper()
	user := &models.BlogUser{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    first,
		LastName:     last,
		Status:       constants.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (env *serviceTestEnv) createPost(t *testing.T, title, status string, tags ...string) *models.Post {
	t.Helper()
	post, err := env.posts.Create(t.Context(), env.admin, PostInput{
		BlogID:      env.blog.ID,
		Title:       title,
		Abstract:    "abstract of " + title,
		Content:     "content of " + title,
		ReadyStatus: status,
		Tags:        tags,
	})
	if err != nil {
		t.Fatalf("create post %q failed: %v", title, err)
	}
	return post
}

func (env *serviceTestEnv) createComment(t *testing.T, slug, body string) *models.Comment {
	t.Helper()
	result, err := env.comments.Create(t.Context(), env.reader, CreateCommentInput{PostSlug: slug, Body: body})
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	return result.Comment
}
