package service

import (
	"errors"
	"strings"

	"github.com/inkline/internal/db"
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound   = errors.New("media not found")
	ErrMediaPostAbsent = errors.New("post not found for media")
)

// MediaService wraps post attachment operations.
type MediaService struct {
	db     *gorm.DB
	audits *AuditService
}

// MediaFilter describes filters for listing media.
type MediaFilter struct {
	PostID  uint
	Type    string
	Page    int
	PerPage int
}

// MediaListResult aggregates one page of media rows.
type MediaListResult struct {
	Media      []db.Media
	Pagination Pagination
}

// MediaInput represents fields accepted when attaching media to a post.
type MediaInput struct {
	PostID  uint
	FileURL string
	Type    string
	Width   int
	Height  int
}

// MediaUpdateInput represents a partial media update.
type MediaUpdateInput struct {
	FileURL *string
	Type    *string
}

// NewMediaService creates a MediaService instance.
func NewMediaService(gdb *gorm.DB, audits *AuditService) *MediaService {
	return &MediaService{db: gdb, audits: audits}
}

// Create attaches a media row to an existing post.
// Only the post owner or an admin may attach media.
func (s *MediaService) Create(actor Actor, input MediaInput) (*db.Media, error) {
	post, err := s.ownedPost(actor, input.PostID)
	if err != nil {
		return nil, err
	}

	media := db.Media{
		PostID:  post.ID,
		FileURL: strings.TrimSpace(input.FileURL),
		Type:    input.Type,
		Width:   input.Width,
		Height:  input.Height,
	}

	if err := s.db.Create(&media).Error; err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionCreate, "media", media.ID)
	return &media, nil
}

// BulkCreate attaches several media rows to one post in a transaction.
func (s *MediaService) BulkCreate(actor Actor, postID uint, inputs []MediaInput) ([]db.Media, error) {
	post, err := s.ownedPost(actor, postID)
	if err != nil {
		return nil, err
	}

	media := make([]db.Media, 0, len(inputs))
	for _, input := range inputs {
		media = append(media, db.Media{
			PostID:  post.ID,
			FileURL: strings.TrimSpace(input.FileURL),
			Type:    input.Type,
			Width:   input.Width,
			Height:  input.Height,
		})
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range media {
			if err := tx.Create(&media[i]).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	for i := range media {
		s.audits.Record(actor.ID, ActionCreate, "media", media[i].ID)
	}
	return media, nil
}

// List returns media rows matching the filter.
func (s *MediaService) List(actor Actor, filter MediaFilter) (*MediaListResult, error) {
	page := normalizePage(filter.Page)
	perPage := normalizePerPage(filter.PerPage, defaultPerPage)

	query := s.db.Model(&db.Media{})
	if filter.PostID != 0 {
		query = query.Where("post_id = ?", filter.PostID)
	}
	if mediaType := strings.TrimSpace(filter.Type); mediaType != "" {
		query = query.Where("type = ?", mediaType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var media []db.Media
	if err := query.
		Order("created_at desc, id desc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&media).Error; err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionRead, "", 0)

	return &MediaListResult{
		Media:      media,
		Pagination: paginate(page, perPage, total),
	}, nil
}

// ListByPost returns every media row attached to a post.
func (s *MediaService) ListByPost(postID uint) ([]db.Media, error) {
	var media []db.Media
	if err := s.db.Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// Get fetches a media row by id.
func (s *MediaService) Get(id uint, actor Actor) (*db.Media, error) {
	var media db.Media
	if err := s.db.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	s.audits.Record(actor.ID, ActionRead, "media", media.ID)
	return &media, nil
}

// Update applies a partial update after the ownership check.
func (s *MediaService) Update(id uint, actor Actor, input MediaUpdateInput) (*db.Media, error) {
	var media db.Media
	if err := s.db.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	if _, err := s.ownedPost(actor, media.PostID); err != nil {
		return nil, err
	}

	if input.FileURL != nil {
		media.FileURL = strings.TrimSpace(*input.FileURL)
	}
	if input.Type != nil {
		media.Type = *input.Type
	}

	if err := s.db.Save(&media).Error; err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionUpdate, "media", media.ID)
	return &media, nil
}

// Delete removes a media row after the ownership check.
func (s *MediaService) Delete(id uint, actor Actor) error {
	var media db.Media
	if err := s.db.First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	if _, err := s.ownedPost(actor, media.PostID); err != nil {
		return err
	}

	if err := s.db.Delete(&media).Error; err != nil {
		return err
	}

	s.audits.Record(actor.ID, ActionDelete, "media", media.ID)
	return nil
}

// DeleteByPost removes every media row attached to a post.
func (s *MediaService) DeleteByPost(postID uint, actor Actor) error {
	if _, err := s.ownedPost(actor, postID); err != nil {
		return err
	}

	if err := s.db.Where("post_id = ?", postID).Delete(&db.Media{}).Error; err != nil {
		return err
	}

	s.audits.Record(actor.ID, ActionDeleteMany, "media", postID)
	return nil
}

// ownedPost loads the owning post and enforces the mutation policy.
func (s *MediaService) ownedPost(actor Actor, postID uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaPostAbsent
		}
		return nil, err
	}

	if !CanMutate(actor, post.UserID) {
		return nil, ErrForbidden
	}
	return &post, nil
}
