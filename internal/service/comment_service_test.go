package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inkline/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCommentServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:comment-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func seedCommentFixtures(t *testing.T, gdb *gorm.DB) (db.User, db.Post) {
	t.Helper()

	user := db.User{Name: "author", Email: "author@example.com", Password: "x"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	post := db.Post{Title: "post", UserID: user.ID}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return user, post
}

func TestCommentServiceCreateChecksReferences(t *testing.T) {
	gdb, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	user, post := seedCommentFixtures(t, gdb)
	svc := NewCommentService(gdb, NewAuditService(gdb, nil))
	actor := Actor{ID: user.ID, Role: db.RoleUser}

	if _, err := svc.Create(actor, CommentInput{PostID: 999, Content: "hi"}); !errors.Is(err, ErrCommentPostAbsent) {
		t.Fatalf("expected ErrCommentPostAbsent, got %v", err)
	}

	missingParent := uint(999)
	if _, err := svc.Create(actor, CommentInput{PostID: post.ID, ParentID: &missingParent, Content: "hi"}); !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}

	// A parent on another post cannot be replied to.
	otherPost := db.Post{Title: "other", UserID: user.ID}
	if err := gdb.Create(&otherPost).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	foreign, err := svc.Create(actor, CommentInput{PostID: otherPost.ID, Content: "elsewhere"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, err := svc.Create(actor, CommentInput{PostID: post.ID, ParentID: &foreign.ID, Content: "reply"}); !errors.Is(err, ErrParentWrongPost) {
		t.Fatalf("expected ErrParentWrongPost, got %v", err)
	}
}

func TestCommentServiceReplyNesting(t *testing.T) {
	gdb, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	user, post := seedCommentFixtures(t, gdb)
	svc := NewCommentService(gdb, NewAuditService(gdb, nil))
	actor := Actor{ID: user.ID, Role: db.RoleUser}

	top, err := svc.Create(actor, CommentInput{PostID: post.ID, Content: "top"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, err := svc.Create(actor, CommentInput{PostID: post.ID, ParentID: &top.ID, Content: "reply"}); err != nil {
		t.Fatalf("create reply: %v", err)
	}

	result, err := svc.ListByPost(post.ID, 1, 10)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(result.Comments) != 1 {
		t.Fatalf("expected only top-level comments in listing, got %d", len(result.Comments))
	}
	if len(result.Comments[0].Replies) != 1 {
		t.Fatalf("expected 1 preloaded reply, got %d", len(result.Comments[0].Replies))
	}
	if result.Comments[0].Replies[0].Content != "reply" {
		t.Fatalf("unexpected reply content %q", result.Comments[0].Replies[0].Content)
	}
}

func TestCommentServiceOwnershipChecks(t *testing.T) {
	gdb, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	user, post := seedCommentFixtures(t, gdb)
	svc := NewCommentService(gdb, NewAuditService(gdb, nil))
	owner := Actor{ID: user.ID, Role: db.RoleUser}
	stranger := Actor{ID: user.ID + 50, Role: db.RoleUser}
	admin := Actor{ID: user.ID + 60, Role: db.RoleAdmin}

	comment, err := svc.Create(owner, CommentInput{PostID: post.ID, Content: "mine"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if _, err := svc.Update(comment.ID, stranger, "stolen"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}

	var persisted db.Comment
	if err := gdb.First(&persisted, comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if persisted.Content != "mine" {
		t.Fatalf("content mutated despite forbidden update: %q", persisted.Content)
	}

	if _, err := svc.Update(comment.ID, admin, "moderated"); err != nil {
		t.Fatalf("admin should update any comment: %v", err)
	}

	if err := svc.Delete(comment.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if err := svc.Delete(comment.ID, owner); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(comment.ID, owner); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound after delete, got %v", err)
	}
}

func TestCommentServiceDeleteRemovesReplies(t *testing.T) {
	gdb, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	user, post := seedCommentFixtures(t, gdb)
	svc := NewCommentService(gdb, NewAuditService(gdb, nil))
	actor := Actor{ID: user.ID, Role: db.RoleUser}

	top, err := svc.Create(actor, CommentInput{PostID: post.ID, Content: "top"})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	reply, err := svc.Create(actor, CommentInput{PostID: post.ID, ParentID: &top.ID, Content: "reply"})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	if err := svc.Delete(top.ID, actor); err != nil {
		t.Fatalf("delete comment: %v", err)
	}

	var count int64
	if err := gdb.Model(&db.Comment{}).Where("id IN ?", []uint{top.ID, reply.ID}).Count(&count).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected comment and reply gone, %d remain", count)
	}
}
