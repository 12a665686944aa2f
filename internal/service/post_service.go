package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkline/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrPostNotVisible = errors.New("post is not yet published")
)

// PostService wraps post related database operations.
type PostService struct {
	db     *gorm.DB
	audits *AuditService
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Status     string
	TagID      uint
	CategoryID uint
	AuthorID   uint
	Page       int
	PerPage    int
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Pagination Pagination
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	Title       string
	Content     string
	Status      string
	PublishAt   *time.Time
	TagIDs      []uint
	CategoryIDs []uint
}

// PostUpdateInput represents a partial post update.
// Nil fields are left unchanged; nil id slices keep existing associations.
type PostUpdateInput struct {
	Title       *string
	Content     *string
	Status      *string
	PublishAt   *time.Time
	TagIDs      *[]uint
	CategoryIDs *[]uint
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, audits *AuditService) *PostService {
	return &PostService{db: gdb, audits: audits}
}

// List provides paginated posts based on filters, newest first.
// Listing published posts excludes those scheduled for a future publish time.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	page := normalizePage(filter.Page)
	perPage := normalizePerPage(filter.PerPage, defaultPerPage)

	countQuery := s.applyFilters(s.db.Model(&db.Post{}), filter)

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []db.Post
	dataQuery := s.applyFilters(s.db.Model(&db.Post{}), filter).
		Preload("Tags").
		Preload("Categories").
		Preload("User")

	if err := dataQuery.
		Order("posts.created_at desc, posts.id desc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return &PostListResult{
		Posts:      posts,
		Pagination: paginate(page, perPage, total),
	}, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("posts.status = ?", status)
		if status == db.PostStatusPublished {
			query = query.Where("posts.publish_at IS NULL OR posts.publish_at <= ?", time.Now())
		}
	}
	if filter.AuthorID != 0 {
		query = query.Where("posts.user_id = ?", filter.AuthorID)
	}
	if filter.TagID != 0 {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", filter.TagID)
	}
	if filter.CategoryID != 0 {
		query = query.
			Joins("JOIN post_categories ON post_categories.post_id = posts.id").
			Where("post_categories.category_id = ?", filter.CategoryID)
	}
	return query
}

// Get fetches a post by id with associations preloaded.
// A published post gated behind a future publish time is not served.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.
		Preload("Tags").
		Preload("Categories").
		Preload("User").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.Status == db.PostStatusPublished && post.PublishAt != nil && post.PublishAt.After(time.Now()) {
		return nil, ErrPostNotVisible
	}

	return &post, nil
}

// Create persists a post and associates tags and categories in a transaction.
func (s *PostService) Create(actor Actor, input PostInput) (*db.Post, error) {
	tags, err := s.resolveTags(input.TagIDs)
	if err != nil {
		return nil, err
	}
	categories, err := s.resolveCategories(input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.PostStatusDraft
	}

	post := db.Post{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Status:    status,
		PublishAt: input.PublishAt,
		UserID:    actor.ID,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if len(categories) > 0 {
			if err := tx.Model(&post).Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionCreate, db.EntityTypePost, post.ID)
	return s.reload(post.ID)
}

// Update applies a partial update to an existing post.
func (s *PostService) Update(id uint, actor Actor, input PostUpdateInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if !CanMutate(actor, existing.UserID) {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		existing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		existing.Content = *input.Content
	}
	if input.Status != nil {
		existing.Status = strings.TrimSpace(*input.Status)
	}
	if input.PublishAt != nil {
		existing.PublishAt = input.PublishAt
	}

	var tags []db.Tag
	var categories []db.Category
	var err error
	if input.TagIDs != nil {
		if tags, err = s.resolveTags(*input.TagIDs); err != nil {
			return nil, err
		}
	}
	if input.CategoryIDs != nil {
		if categories, err = s.resolveCategories(*input.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		if input.TagIDs != nil {
			if err := tx.Model(&existing).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if input.CategoryIDs != nil {
			if err := tx.Model(&existing).Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionUpdate, db.EntityTypePost, existing.ID)
	return s.reload(existing.ID)
}

// Delete removes a post after the ownership check.
func (s *PostService) Delete(id uint, actor Actor) error {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if !CanMutate(actor, existing.UserID) {
		return ErrForbidden
	}

	if err := s.db.Delete(&existing).Error; err != nil {
		return err
	}

	s.audits.Record(actor.ID, ActionDelete, db.EntityTypePost, existing.ID)
	return nil
}

func (s *PostService) reload(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.
		Preload("Tags").
		Preload("Categories").
		Preload("User").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// resolveTags loads the referenced tags and fails if any id is missing.
func (s *PostService) resolveTags(ids []uint) ([]db.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []db.Tag
	if err := s.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

// resolveCategories loads the referenced categories and fails if any id is missing.
func (s *PostService) resolveCategories(ids []uint) ([]db.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []db.Category
	if err := s.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(uniqueIDs(ids)) {
		return nil, ErrCategoryNotFound
	}
	return categories, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
