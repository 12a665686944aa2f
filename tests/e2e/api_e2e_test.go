package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/db"
	"github.com/inkline/internal/handler"
	"github.com/inkline/internal/router"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type suite struct {
	engine *gin.Engine
	t      *testing.T
}

func newSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	uploadDir := t.TempDir()
	api := handler.NewAPI(gdb, zap.NewNop(), handler.Options{
		JWTSecret: []byte("e2e-secret"),
		TokenTTL:  time.Hour,
		UploadDir: uploadDir,
		UploadURL: "/uploads",
	})

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return &suite{engine: router.Setup(api, zap.NewNop(), "/uploads", uploadDir), t: t}
}

func (s *suite) do(method, path, token string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			s.t.Fatalf("failed to encode payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func (s *suite) register(name, email, password string) string {
	s.t.Helper()

	w, body := s.do(http.MethodPost, "/api/users/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusCreated {
		s.t.Fatalf("register %s: expected status 201, got %d: %s", email, w.Code, w.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		s.t.Fatalf("register %s: expected a token", email)
	}
	return token
}

func postIDFrom(t *testing.T, body map[string]any) uint {
	t.Helper()
	post, ok := body["post"].(map[string]any)
	if !ok {
		t.Fatalf("expected a post object, got %v", body)
	}
	id, ok := post["ID"].(float64)
	if !ok {
		t.Fatalf("expected a post id, got %v", post)
	}
	return uint(id)
}

func TestPostLifecycle(t *testing.T) {
	s := newSuite(t)

	aliceToken := s.register("Alice", "alice@example.com", "alice-password")
	bobToken := s.register("Bob", "bob@example.com", "bob-password")

	// Alice logs in again to prove credentials round-trip.
	w, body := s.do(http.MethodPost, "/api/users/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "alice-password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	aliceToken, _ = body["token"].(string)

	w, body = s.do(http.MethodPost, "/api/posts", aliceToken, map[string]any{
		"title":   "Hello World",
		"content": "# Hello\n\nfirst post",
		"status":  db.PostStatusPublished,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	postID := postIDFrom(t, body)
	postPath := "/api/posts/" + strconv.Itoa(int(postID))

	// Bob cannot edit Alice's post.
	w, _ = s.do(http.MethodPut, postPath, bobToken, map[string]any{"title": "Hijacked"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign update: expected status 403, got %d", w.Code)
	}

	w, body = s.do(http.MethodGet, postPath, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get post: expected status 200, got %d", w.Code)
	}
	post := body["post"].(map[string]any)
	if post["Title"] != "Hello World" {
		t.Fatalf("expected title unchanged after forbidden update, got %v", post["Title"])
	}

	w, _ = s.do(http.MethodDelete, postPath, aliceToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete post: expected status 204, got %d", w.Code)
	}

	w, _ = s.do(http.MethodGet, postPath, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted post: expected status 404, got %d", w.Code)
	}
}

func TestCommentAndReactionFlow(t *testing.T) {
	s := newSuite(t)

	aliceToken := s.register("Alice", "alice2@example.com", "alice-password")
	bobToken := s.register("Bob", "bob2@example.com", "bob-password")

	w, body := s.do(http.MethodPost, "/api/posts", aliceToken, map[string]any{
		"title":   "Discussable",
		"content": "talk to me",
		"status":  db.PostStatusPublished,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: expected status 201, got %d", w.Code)
	}
	postID := postIDFrom(t, body)
	commentsPath := "/api/posts/" + strconv.Itoa(int(postID)) + "/comments"

	w, body = s.do(http.MethodPost, commentsPath, bobToken, map[string]any{"content": "nice post"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	comment := body["comment"].(map[string]any)
	commentID := uint(comment["ID"].(float64))

	// Alice replies to Bob.
	w, _ = s.do(http.MethodPost, commentsPath, aliceToken, map[string]any{
		"content":   "thanks",
		"parent_id": commentID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create reply: expected status 201, got %d", w.Code)
	}

	w, body = s.do(http.MethodGet, commentsPath, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list comments: expected status 200, got %d", w.Code)
	}
	comments := body["comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("expected one top-level comment, got %d", len(comments))
	}

	// Bob likes the post, then checks the counts.
	w, _ = s.do(http.MethodPost, "/api/reactions", bobToken, map[string]any{
		"entity_type": db.EntityTypePost,
		"entity_id":   postID,
		"kind":        db.ReactionLike,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle reaction: expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w, body = s.do(http.MethodGet, "/api/reactions/post/"+strconv.Itoa(int(postID)), bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get reactions: expected status 200, got %d", w.Code)
	}
	summary := body["summary"].(map[string]any)
	counts := summary["counts"].(map[string]any)
	if counts[db.ReactionLike] != float64(1) {
		t.Fatalf("expected one like, got %v", counts)
	}
	if body["viewer_reaction"] == nil {
		t.Fatal("expected bob's viewer reaction")
	}
}

func TestAdminTaxonomyFlow(t *testing.T) {
	s := newSuite(t)

	userToken := s.register("User", "user@example.com", "user-password")

	// Regular users cannot create tags.
	w, _ := s.do(http.MethodPost, "/api/tags", userToken, map[string]any{"name": "go"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("user tag create: expected status 403, got %d", w.Code)
	}

	// Anonymous listing still works.
	w, _ = s.do(http.MethodGet, "/api/tags", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list tags: expected status 200, got %d", w.Code)
	}
}
