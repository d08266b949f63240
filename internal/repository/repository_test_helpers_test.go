package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, first, last string) *models.BlogUser {
	t.Helper()
	user := &models.BlogUser{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    first,
		LastName:     last,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestBlog(t *testing.T, db *gorm.DB, authorID uint) *models.Blog {
	t.Helper()
	blog := &models.Blog{AuthorID: authorID, Name: "Engineering", Description: "Engineering notes"}
	if err := db.Create(blog).Error; err != nil {
		t.Fatalf("create blog failed: %v", err)
	}
	return blog
}

func createTestPost(t *testing.T, db *gorm.DB, blog *models.Blog, slug, title, status string, createdAt time.Time, tags ...string) *models.Post {
	t.Helper()
	post := &models.Post{
		BlogID:      blog.ID,
		AuthorID:    blog.AuthorID,
		Title:       title,
		Slug:        slug,
		Abstract:    "abstract of " + title,
		Content:     "content of " + title,
		ReadyStatus: status,
		Version:     1,
		CreatedAt:   createdAt,
	}
	repo := NewPostRepository(db)
	if err := repo.Create(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if len(tags) > 0 {
		rows := make([]models.Tag, 0, len(tags))
		for _, text := range tags {
			rows = append(rows, models.Tag{PostID: post.ID, AuthorID: blog.AuthorID, Text: text})
		}
		if err := repo.CreateTags(rows); err != nil {
			t.Fatalf("create tags failed: %v", err)
		}
	}
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, postID, authorID uint, body, state string, createdAt time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		State:     state,
		Version:   1,
		CreatedAt: createdAt,
	}
	if state == constants.CommentStateModerated || state == constants.CommentStateSoftDeleted {
		moderated := "moderated: " + body
		comment.ModeratedBody = &moderated
		at := createdAt.Add(time.Minute)
		comment.ModeratedAt = &at
	}
	if state == constants.CommentStateSoftDeleted {
		at := createdAt.Add(2 * time.Minute)
		comment.DeletedAt = &at
	}
	if err := NewCommentRepository(db).Create(comment); err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	return comment
}

func postSlugs(posts []models.Post) []string {
	slugs := make([]string, 0, len(posts))
	for _, post := range posts {
		slugs = append(slugs, post.Slug)
	}
	return slugs
}
