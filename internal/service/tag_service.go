package service

import (
	"errors"
	"strings"

	"github.com/inkline/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists   = errors.New("tag already exists")
	ErrTagNotFound = errors.New("tag not found")
	ErrTagName     = errors.New("tag name is required")
)

// TagService wraps tag related operations.
type TagService struct {
	db     *gorm.DB
	audits *AuditService
}

// TagFilter describes filters for listing tags.
type TagFilter struct {
	Search  string
	Page    int
	PerPage int
}

// TagListResult aggregates paginated tags with usage counts.
type TagListResult struct {
	Tags       []db.Tag
	Pagination Pagination
}

// TagInput represents fields accepted when creating or updating a tag.
type TagInput struct {
	Name        string
	Description string
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB, audits *AuditService) *TagService {
	return &TagService{db: gdb, audits: audits}
}

// List returns tags ordered by name ascending with post counts populated.
func (s *TagService) List(filter TagFilter) (*TagListResult, error) {
	page := normalizePage(filter.Page)
	perPage := normalizePerPage(filter.PerPage, defaultPerPage)

	query := s.db.Model(&db.Tag{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var tags []db.Tag
	if err := query.
		Select("tags.*, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.name asc").
		Order("tags.id asc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&tags).Error; err != nil {
		return nil, err
	}

	return &TagListResult{
		Tags:       tags,
		Pagination: paginate(page, perPage, total),
	}, nil
}

// Get fetches a tag by id with its post count.
func (s *TagService) Get(id uint) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	count, err := s.postUsageCount(tag.ID)
	if err != nil {
		return nil, err
	}
	tag.PostCount = count
	return &tag, nil
}

// Create inserts a new tag. Names are unique case-insensitively.
func (s *TagService) Create(actor Actor, input TagInput) (*db.Tag, error) {
	if !CanManageTaxonomy(actor) {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTagName
	}

	var existing db.Tag
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag := db.Tag{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.db.Create(&tag).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}

	s.audits.Record(actor.ID, ActionCreate, "tag", tag.ID)
	return &tag, nil
}

// Update changes a tag while keeping name uniqueness.
func (s *TagService) Update(id uint, actor Actor, input TagInput) (*db.Tag, error) {
	if !CanManageTaxonomy(actor) {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTagName
	}

	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	var existing db.Tag
	if err := s.db.Where("LOWER(name) = LOWER(?) AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag.Name = name
	tag.Description = strings.TrimSpace(input.Description)
	if err := s.db.Save(&tag).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}

	s.audits.Record(actor.ID, ActionUpdate, "tag", tag.ID)
	return &tag, nil
}

// Delete removes a tag and its post associations.
func (s *TagService) Delete(id uint, actor Actor) error {
	if !CanManageTaxonomy(actor) {
		return ErrForbidden
	}

	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&tag).Error
	}); err != nil {
		return err
	}

	s.audits.Record(actor.ID, ActionDelete, "tag", tag.ID)
	return nil
}

func (s *TagService) postUsageCount(id uint) (int64, error) {
	var count int64
	err := s.db.Table("post_tags").Where("tag_id = ?", id).Count(&count).Error
	return count, err
}
