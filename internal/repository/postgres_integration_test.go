//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-next/internal/constants"
	"github.com/inkwell-next/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupPostgresIntegrationDB 启动 PostgreSQL 容器并完成迁移。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("inkwell"),
		tcpostgres.WithUsername("inkwell"),
		tcpostgres.WithPassword("inkwell"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container failed: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container failed: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("resolve connection string failed: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresSearchUsesILike(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada", "Writer")
	commenter := createTestUser(t, db, "Zoe.Refund@example.com", "Zoe", "Emile")
	blog := createTestBlog(t, db, author.ID)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	titled := createTestPost(t, db, blog, "refund-rules", "REFUND rules", constants.ReadyStatusProductionReady, base.Add(time.Hour))
	commented := createTestPost(t, db, blog, "accents", "Accents", constants.ReadyStatusProductionReady, base)
	createTestComment(t, db, commented.ID, commenter.ID, "hello", constants.CommentStatePending, base)
	createTestPost(t, db, blog, "refund-draft", "Refund draft", constants.ReadyStatusPreProduction, base.Add(2*time.Hour))

	repo := NewPostRepository(db)
	posts, total, err := repo.List(PostListFilter{Search: "refund", OnlyPublished: true, Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{titled.Slug, commented.Slug}, postSlugs(posts))

	posts, _, err = repo.List(PostListFilter{Search: "eMILE", OnlyPublished: true})
	require.NoError(t, err)
	assert.Equal(t, []string{commented.Slug}, postSlugs(posts))
}

func TestPostgresSlugUniqueConstraint(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada", "Writer")
	blog := createTestBlog(t, db, author.ID)
	createTestPost(t, db, blog, "hello-world", "Hello, World!", constants.ReadyStatusProductionReady, time.Now())

	err := NewPostRepository(db).Create(&models.Post{
		BlogID:      blog.ID,
		AuthorID:    author.ID,
		Title:       "Hello World",
		Slug:        "hello-world",
		ReadyStatus: constants.ReadyStatusProductionReady,
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
