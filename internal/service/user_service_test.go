package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inkline/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:user-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func newTestUserService(gdb *gorm.DB) *UserService {
	audits := NewAuditService(gdb, nil)
	return NewUserService(gdb, audits, []byte("test-secret"), time.Hour)
}

func TestUserServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := newTestUserService(gdb)

	if _, _, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	// 邮箱大小写不同也算重复
	_, _, err := svc.Register(RegisterInput{Name: "Ada2", Email: "ADA@example.com", Password: "secret123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserServiceRegisterHashesPasswordAndAudits(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := newTestUserService(gdb)

	user, token, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	var count int64
	if err := gdb.Model(&db.AuditLog{}).Where("user_id = ? AND action = ?", user.ID, ActionRegister).Count(&count).Error; err != nil {
		t.Fatalf("count audit logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 REGISTER audit record, got %d", count)
	}
}

func TestUserServiceLogin(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := newTestUserService(gdb)

	if _, _, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, token, err := svc.Login("ada@example.com", "secret123"); err != nil || token == "" {
		t.Fatalf("expected successful login with token, got token=%q err=%v", token, err)
	}

	if _, _, err := svc.Login("ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}

	if _, _, err := svc.Login("nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := newTestUserService(gdb)

	user, _, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret123", Bio: "old bio"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	newName := "Ada L."
	updated, err := svc.UpdateProfile(user.ID, Actor{ID: user.ID, Role: db.RoleUser}, ProfileUpdateInput{Name: &newName})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Ada L." {
		t.Fatalf("expected name updated, got %q", updated.Name)
	}
	if updated.Bio != "old bio" {
		t.Fatalf("expected untouched bio to survive, got %q", updated.Bio)
	}

	// Another plain user cannot touch the profile.
	other := Actor{ID: user.ID + 100, Role: db.RoleUser}
	if _, err := svc.UpdateProfile(user.ID, other, ProfileUpdateInput{Name: &newName}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	admin := Actor{ID: user.ID + 200, Role: db.RoleAdmin}
	adminName := "Renamed"
	if _, err := svc.UpdateProfile(user.ID, admin, ProfileUpdateInput{Name: &adminName}); err != nil {
		t.Fatalf("admin should update any profile: %v", err)
	}
}

func TestUserServiceRegisterDuplicateInsertRace(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := newTestUserService(gdb)

	// A concurrent registration wins the insert between the existence check
	// and the create; the unique index on email is the backstop.
	raced := false
	err := gdb.Callback().Create().Before("gorm:create").Register("race_duplicate_email", func(tx *gorm.DB) {
		if raced || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "users" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (created_at, updated_at, name, email, password, role) VALUES (?, ?, ?, ?, ?, ?)",
			time.Now(), time.Now(), "First", "race@example.com", "x", db.RoleUser,
		)
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer gdb.Callback().Create().Remove("race_duplicate_email")

	_, _, err = svc.Register(RegisterInput{Name: "Second", Email: "race@example.com", Password: "secret123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
