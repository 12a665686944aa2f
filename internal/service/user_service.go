package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkline/internal/auth"
	"github.com/inkline/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService wraps account related database operations.
type UserService struct {
	db        *gorm.DB
	audits    *AuditService
	jwtSecret []byte
	tokenTTL  time.Duration
}

// RegisterInput represents fields accepted at registration.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Bio            string
	ProfilePicture string
}

// ProfileUpdateInput represents a partial profile update.
// Nil fields are left unchanged.
type ProfileUpdateInput struct {
	Name           *string
	Phone          *string
	Bio            *string
	ProfilePicture *string
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB, audits *AuditService, jwtSecret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{db: gdb, audits: audits, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates an account and returns it with a signed token.
func (s *UserService) Register(input RegisterInput) (*db.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing db.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := db.User{
		Name:           strings.TrimSpace(input.Name),
		Email:          email,
		Password:       string(hashed),
		Role:           db.RoleUser,
		Phone:          strings.TrimSpace(input.Phone),
		Bio:            strings.TrimSpace(input.Bio),
		ProfilePicture: strings.TrimSpace(input.ProfilePicture),
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := auth.Sign(&user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.audits.Record(user.ID, ActionRegister, "user", user.ID)
	return &user, token, nil
}

// Login verifies credentials and returns a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(email, password string) (*db.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.Sign(&user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.audits.Record(user.ID, ActionLogin, "user", user.ID)
	return &user, token, nil
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial update to a user profile.
func (s *UserService) UpdateProfile(id uint, actor Actor, input ProfileUpdateInput) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !CanMutate(actor, user.ID) {
		return nil, ErrForbidden
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.ProfilePicture != nil {
		user.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionUpdate, "user", user.ID)
	return &user, nil
}
