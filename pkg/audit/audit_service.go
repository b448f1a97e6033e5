package audit

import (
	"ShardStore/entities"
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	// AuditService records administrative actions. It is fire-and-forget
	// by contract: a failed audit write is logged and never blocks the
	// action it describes.
	AuditService interface {
		Record(actorID, action, targetType, targetID, details string)
	}

	auditService struct {
		db *gorm.DB
	}
)

func NewAuditService(db *gorm.DB) AuditService {
	return &auditService{
		db: db,
	}
}

func (s *auditService) Record(actorID, action, targetType, targetID, details string) {
	entry := &entities.AuditLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}

	go func() {
		if err := s.db.WithContext(context.Background()).Create(entry).Error; err != nil {
			log.WithFields(log.Fields{
				"error":  err,
				"actor":  actorID,
				"action": action,
				"target": targetID,
			}).Error("failed to write audit log")
		}
	}()
}
