package service

import (
	"errors"
	"strings"

	"github.com/inkline/internal/db"
	"gorm.io/gorm"
)

var (
	ErrReactionTarget   = errors.New("reaction target not found")
	ErrReactionConflict = errors.New("reaction was changed concurrently")
)

// ReactionService implements the per-(user, entity) reaction toggle.
type ReactionService struct {
	db     *gorm.DB
	audits *AuditService
}

// ReactionInput identifies the target entity and the requested kind.
type ReactionInput struct {
	EntityType string
	EntityID   uint
	Kind       string
}

// ReactionSummary aggregates reaction counts for one entity.
type ReactionSummary struct {
	EntityType string           `json:"entity_type"`
	EntityID   uint             `json:"entity_id"`
	Counts     map[string]int64 `json:"counts"`
}

// NewReactionService creates a ReactionService instance.
func NewReactionService(gdb *gorm.DB, audits *AuditService) *ReactionService {
	return &ReactionService{db: gdb, audits: audits}
}

// Toggle applies one transition of the reaction state machine:
// no reaction -> created, same kind -> removed, different kind -> updated.
// The returned reaction is nil when the toggle removed it.
// The whole transition runs in a transaction; the composite unique index on
// (user_id, entity_type, entity_id) is the arbiter for concurrent toggles and
// a duplicate-key create surfaces as ErrReactionConflict.
func (s *ReactionService) Toggle(actor Actor, input ReactionInput) (*db.Reaction, error) {
	if err := s.ensureTargetExists(input.EntityType, input.EntityID); err != nil {
		return nil, err
	}

	var result *db.Reaction
	var action string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.Reaction
		err := tx.Where("user_id = ? AND entity_type = ? AND entity_id = ?",
			actor.ID, input.EntityType, input.EntityID).
			First(&existing).Error

		switch {
		case err == nil && existing.Kind == input.Kind:
			action = ActionDelete
			return tx.Unscoped().Delete(&existing).Error

		case err == nil:
			existing.Kind = input.Kind
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			action = ActionUpdate
			result = &existing
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := db.Reaction{
				UserID:     actor.ID,
				EntityType: input.EntityType,
				EntityID:   input.EntityID,
				Kind:       input.Kind,
			}
			if err := tx.Create(&reaction).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrReactionConflict
				}
				return err
			}
			action = ActionCreate
			result = &reaction
			return nil

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.audits.Record(actor.ID, action, input.EntityType, input.EntityID)

	return result, nil
}

// Summary returns reaction counts grouped by kind for one entity.
func (s *ReactionService) Summary(entityType string, entityID uint) (*ReactionSummary, error) {
	if err := s.ensureTargetExists(entityType, entityID); err != nil {
		return nil, err
	}

	var rows []struct {
		Kind  string
		Count int64
	}
	if err := s.db.Model(&db.Reaction{}).
		Select("kind, COUNT(*) AS count").
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Group("kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &ReactionSummary{
		EntityType: entityType,
		EntityID:   entityID,
		Counts:     make(map[string]int64, len(rows)),
	}
	for _, row := range rows {
		summary.Counts[row.Kind] = row.Count
	}
	return summary, nil
}

// UserReaction returns the actor's reaction on an entity, or nil.
func (s *ReactionService) UserReaction(userID uint, entityType string, entityID uint) (*db.Reaction, error) {
	var reaction db.Reaction
	err := s.db.Where("user_id = ? AND entity_type = ? AND entity_id = ?",
		userID, entityType, entityID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

func (s *ReactionService) ensureTargetExists(entityType string, entityID uint) error {
	var err error
	switch entityType {
	case db.EntityTypePost:
		err = s.db.Select("id").First(&db.Post{}, entityID).Error
	case db.EntityTypeComment:
		err = s.db.Select("id").First(&db.Comment{}, entityID).Error
	default:
		return ErrReactionTarget
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReactionTarget
	}
	return err
}

// isDuplicateKey covers both gorm's translated error and the raw sqlite message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
