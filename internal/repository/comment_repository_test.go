package repository

import (
	"testing"
	"time"

	"github.com/inkwell-next/internal/constants"
)

func TestCommentQueueViewsOverlap(t *testing.T) {
	db := setupRepositoryTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada", "Writer")
	blog := createTestBlog(t, db, author.ID)
	post := createTestPost(t, db, blog, "post", "Post", constants.ReadyStatusProductionReady, time.Now())
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	pendingOld := createTestComment(t, db, post.ID, author.ID, "old", constants.CommentStatePending, base)
	pendingNew := createTestComment(t, db, post.ID, author.ID, "new", constants.CommentStatePending, base.Add(time.Hour))
	moderated := createTestComment(t, db, post.ID, author.ID, "mod", constants.CommentStateModerated, base)
	moderatedThenDeleted := createTestComment(t, db, post.ID, author.ID, "gone", constants.CommentStateSoftDeleted, base.Add(2*time.Hour))

	repo := NewCommentRepository(db)

	unmoderated, total, err := repo.List(CommentListFilter{View: constants.CommentViewUnmoderated})
	if err != nil {
		t.Fatalf("list unmoderated failed: %v", err)
	}
	if total != 2 || unmoderated[0].ID != pendingNew.ID || unmoderated[1].ID != pendingOld.ID {
		t.Fatalf("unexpected unmoderated queue: total=%d items=%+v", total, unmoderated)
	}

	moderatedView, total, err := repo.List(CommentListFilter{View: constants.CommentViewModerated})
	if err != nil {
		t.Fatalf("list moderated failed: %v", err)
	}
	if total != 2 || moderatedView[0].ID != moderatedThenDeleted.ID || moderatedView[1].ID != moderated.ID {
		t.Fatalf("unexpected moderated queue: total=%d", total)
	}

	deletedView, total, err := repo.List(CommentListFilter{View: constants.CommentViewDeleted})
	if err != nil {
		t.Fatalf("list deleted failed: %v", err)
	}
	if total != 1 || deletedView[0].ID != moderatedThenDeleted.ID {
		t.Fatalf("unexpected deleted queue: total=%d", total)
	}
	if deletedView[0].Post == nil || deletedView[0].Post.Slug != "post" {
		t.Fatalf("expected parent post slug to be preloaded")
	}
}

func TestCommentVisibleByPostOnlyModerated(t *testing.T) {
	db := setupRepositoryTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada", "Writer")
	blog := createTestBlog(t, db, author.ID)
	post := createTestPost(t, db, blog, "post", "Post", constants.ReadyStatusProductionReady, time.Now())
	base := time.Now()
	createTestComment(t, db, post.ID, author.ID, "pending", constants.CommentStatePending, base)
	visible := createTestComment(t, db, post.ID, author.ID, "ok", constants.CommentStateModerated, base)
	createTestComment(t, db, post.ID, author.ID, "deleted", constants.CommentStateSoftDeleted, base)

	comments, err := NewCommentRepository(db).ListVisibleByPost(post.ID)
	if err != nil {
		t.Fatalf("list visible failed: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != visible.ID {
		t.Fatalf("unexpected visible comments: %+v", comments)
	}
}

func TestCommentVersionedWrites(t *testing.T) {
	db := setupRepositoryTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada", "Writer")
	blog := createTestBlog(t, db, author.ID)
	post := createTestPost(t, db, blog, "post", "Post", constants.ReadyStatusProductionReady, time.Now())
	comment := createTestComment(t, db, post.ID, author.ID, "body", constants.CommentStatePending, time.Now())
	repo := NewCommentRepository(db)

	affected, err := repo.UpdateWithVersion(comment.ID, comment.Version, map[string]interface{}{"state": constants.CommentStateModerated})
	if err != nil || affected != 1 {
		t.Fatalf("first update affected=%d err=%v", affected, err)
	}
	affected, err = repo.DeleteWithVersion(comment.ID, comment.Version)
	if err != nil || affected != 0 {
		t.Fatalf("stale delete should not affect rows, affected=%d err=%v", affected, err)
	}
	affected, err = repo.DeleteWithVersion(comment.ID, comment.Version+1)
	if err != nil || affected != 1 {
		t.Fatalf("delete affected=%d err=%v", affected, err)
	}
	exists, err := repo.Exists(comment.ID)
	if err != nil || exists {
		t.Fatalf("comment should be gone, exists=%v err=%v", exists, err)
	}
}

func TestCommentListSoftDeletedBefore(t *testing.T) {
	db := setupRepositoryTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Ada", "Writer")
	blog := createTestBlog(t, db, author.ID)
	post := createTestPost(t, db, blog, "post", "Post", constants.ReadyStatusProductionReady, time.Now())
	old := createTestComment(t, db, post.ID, author.ID, "old", constants.CommentStateSoftDeleted, time.Now().AddDate(0, 0, -40))
	createTestComment(t, db, post.ID, author.ID, "recent", constants.CommentStateSoftDeleted, time.Now())

	items, err := NewCommentRepository(db).ListSoftDeletedBefore(time.Now().AddDate(0, 0, -30), 10)
	if err != nil {
		t.Fatalf("list soft deleted failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != old.ID {
		t.Fatalf("unexpected purge candidates: %+v", items)
	}
}
