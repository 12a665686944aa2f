package service

import (
	"errors"

	"github.com/inkline/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrParentNotFound    = errors.New("parent comment not found")
	ErrParentWrongPost   = errors.New("parent comment belongs to another post")
	ErrCommentPostAbsent = errors.New("post not found for comment")
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db     *gorm.DB
	audits *AuditService
}

// CommentListResult aggregates one page of top-level comments with replies.
type CommentListResult struct {
	Comments   []db.Comment
	Pagination Pagination
}

// CommentInput represents fields accepted when creating a comment.
type CommentInput struct {
	PostID   uint
	ParentID *uint
	Content  string
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB, audits *AuditService) *CommentService {
	return &CommentService{db: gdb, audits: audits}
}

// ListByPost returns top-level comments for a post, newest first,
// with one level of replies preloaded.
func (s *CommentService) ListByPost(postID uint, page, perPage int) (*CommentListResult, error) {
	page = normalizePage(page)
	perPage = normalizePerPage(perPage, defaultPerPage)

	query := s.db.Model(&db.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []db.Comment
	if err := query.
		Preload("User").
		Preload("Replies").
		Preload("Replies.User").
		Order("created_at desc, id desc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return &CommentListResult{
		Comments:   comments,
		Pagination: paginate(page, perPage, total),
	}, nil
}

// Get fetches a comment with author and replies preloaded.
func (s *CommentService) Get(id uint, actor Actor) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.
		Preload("User").
		Preload("Replies").
		Preload("Replies.User").
		First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	s.audits.Record(actor.ID, ActionRead, db.EntityTypeComment, comment.ID)
	return &comment, nil
}

// Create persists a comment after checking the post and, for replies,
// that the parent exists on the same post.
func (s *CommentService) Create(actor Actor, input CommentInput) (*db.Comment, error) {
	var post db.Post
	if err := s.db.First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentPostAbsent
		}
		return nil, err
	}

	if input.ParentID != nil {
		var parent db.Comment
		if err := s.db.First(&parent, *input.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.PostID != input.PostID {
			return nil, ErrParentWrongPost
		}
	}

	comment := db.Comment{
		Content:  input.Content,
		UserID:   actor.ID,
		PostID:   input.PostID,
		ParentID: input.ParentID,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionCreate, db.EntityTypeComment, comment.ID)

	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update changes a comment's content after the ownership check.
func (s *CommentService) Update(id uint, actor Actor, content string) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if !CanMutate(actor, comment.UserID) {
		return nil, ErrForbidden
	}

	comment.Content = content
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, ActionUpdate, db.EntityTypeComment, comment.ID)

	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment and its direct replies after the ownership check.
func (s *CommentService) Delete(id uint, actor Actor) error {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if !CanMutate(actor, comment.UserID) {
		return ErrForbidden
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	}); err != nil {
		return err
	}

	s.audits.Record(actor.ID, ActionDelete, db.EntityTypeComment, comment.ID)
	return nil
}
