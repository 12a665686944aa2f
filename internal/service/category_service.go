package service

import (
	"errors"
	"strings"

	"github.com/inkline/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryName     = errors.New("category name is required")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db     *gorm.DB
	audits *AuditService
}

// CategoryFilter describes filters for listing categories.
type CategoryFilter struct {
	Search  string
	Page    int
	PerPage int
}

// CategoryListResult aggregates paginated categories with usage counts.
type CategoryListResult struct {
	Categories []db.Category
	Pagination Pagination
}

// CategoryInput represents fields accepted when creating or updating a category.
type CategoryInput struct {
	Name        string
	Description string
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB, audits *AuditService) *CategoryService {
	return &CategoryService{db: gdb, audits: audits}
}

// List returns categories ordered by name ascending with post counts populated.
func (s *CategoryService) List(filter CategoryFilter) (*CategoryListResult, error) {
	page := normalizePage(filter.Page)
	perPage := normalizePerPage(filter.PerPage, defaultPerPage)

	query := s.db.Model(&db.Category{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var categories []db.Category
	if err := query.
		Select("categories.*, COUNT(post_categories.post_id) AS post_count").
		Joins("LEFT JOIN post_categories ON post_categories.category_id = categories.id").
		Group("categories.id").
		Order("categories.name asc").
		Order("categories.id asc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	return &CategoryListResult{
		Categories: categories,
		Pagination: paginate(page, perPage, total),
	}, nil
}

// Get fetches a category by id with its post count.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.Table("post_categories").Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	category.PostCount = count
	return &category, nil
}

// Create inserts a new category. Names are unique case-insensitively.
func (s *CategoryService) Create(actor Actor, input CategoryInput) (*db.Category, error) {
	if !CanManageTaxonomy(actor) {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryName
	}

	var existing db.Category
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.db.Create(&category).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	s.audits.Record(actor.ID, ActionCreate, "category", category.ID)
	return &category, nil
}

// Update changes a category while keeping name uniqueness.
func (s *CategoryService) Update(id uint, actor Actor, input CategoryInput) (*db.Category, error) {
	if !CanManageTaxonomy(actor) {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryName
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var existing db.Category
	if err := s.db.Where("LOWER(name) = LOWER(?) AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	if err := s.db.Save(&category).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	s.audits.Record(actor.ID, ActionUpdate, "category", category.ID)
	return &category, nil
}

// Delete removes a category and its post associations.
func (s *CategoryService) Delete(id uint, actor Actor) error {
	if !CanManageTaxonomy(actor) {
		return ErrForbidden
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&category).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&category).Error
	}); err != nil {
		return err
	}

	s.audits.Record(actor.ID, ActionDelete, "category", category.ID)
	return nil
}
