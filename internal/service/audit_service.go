package service

import (
	"github.com/inkline/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Audit actions recorded for state changes and sensitive reads.
const (
	ActionCreate     = "CREATE"
	ActionRead       = "READ"
	ActionUpdate     = "UPDATE"
	ActionDelete     = "DELETE"
	ActionDeleteMany = "DELETE_MANY"
	ActionRegister   = "REGISTER"
	ActionLogin      = "LOGIN"
)

// AuditService appends immutable audit records and serves audit queries.
type AuditService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// AuditListResult aggregates one page of audit records.
type AuditListResult struct {
	Logs       []db.AuditLog
	Pagination Pagination
}

// NewAuditService creates an AuditService instance.
func NewAuditService(gdb *gorm.DB, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{db: gdb, logger: logger}
}

// Record appends an audit record. It is best-effort: a failed write is logged
// and swallowed so the primary operation is never affected.
// entityType may be empty for actions that target no entity.
func (s *AuditService) Record(userID uint, action, entityType string, entityID uint) {
	entry := db.AuditLog{
		UserID: userID,
		Action: action,
	}
	if entityType != "" {
		entry.EntityType = &entityType
		entry.EntityID = &entityID
	}

	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Warn("audit record dropped",
			zap.Uint("user_id", userID),
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.Uint("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// ListByUser returns audit records for a single actor, newest first.
func (s *AuditService) ListByUser(userID uint, page, perPage int) (*AuditListResult, error) {
	query := s.db.Model(&db.AuditLog{}).Where("user_id = ?", userID)
	return s.list(query, page, perPage)
}

// ListByEntity returns audit records touching a single entity, newest first.
func (s *AuditService) ListByEntity(entityType string, entityID uint, page, perPage int) (*AuditListResult, error) {
	query := s.db.Model(&db.AuditLog{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)
	return s.list(query, page, perPage)
}

func (s *AuditService) list(query *gorm.DB, page, perPage int) (*AuditListResult, error) {
	page = normalizePage(page)
	perPage = normalizePerPage(perPage, defaultPerPage)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []db.AuditLog
	if err := query.Preload("User").
		Order("created_at desc, id desc").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return &AuditListResult{
		Logs:       logs,
		Pagination: paginate(page, perPage, total),
	}, nil
}
