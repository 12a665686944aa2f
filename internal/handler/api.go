package handler

import (
	"time"

	"github.com/inkline/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	logger     *zap.Logger
	users      *service.UserService
	posts      *service.PostService
	tags       *service.TagService
	categories *service.CategoryService
	comments   *service.CommentService
	reactions  *service.ReactionService
	media      *service.MediaService
	audits     *service.AuditService
	jwtSecret  []byte
	uploadDir  string
	uploadURL  string
}

// Options carries the runtime knobs the handler set needs.
type Options struct {
	JWTSecret []byte
	TokenTTL  time.Duration
	UploadDir string
	UploadURL string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, logger *zap.Logger, opts Options) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	audits := service.NewAuditService(gdb, logger)

	return &API{
		db:         gdb,
		logger:     logger,
		users:      service.NewUserService(gdb, audits, opts.JWTSecret, opts.TokenTTL),
		posts:      service.NewPostService(gdb, audits),
		tags:       service.NewTagService(gdb, audits),
		categories: service.NewCategoryService(gdb, audits),
		comments:   service.NewCommentService(gdb, audits),
		reactions:  service.NewReactionService(gdb, audits),
		media:      service.NewMediaService(gdb, audits),
		audits:     audits,
		jwtSecret:  opts.JWTSecret,
		uploadDir:  opts.UploadDir,
		uploadURL:  opts.UploadURL,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
