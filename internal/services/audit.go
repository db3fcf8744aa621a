package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/omarch7/APIS-On-Rails/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

// AuditService records mutations (signups, logins, product and order writes)
// on a buffered channel drained by a single background worker. Events are
// dropped when the channel is full rather than blocking a request.
type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	channel chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		channel: make(chan models.AuditLog, 100),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.channel:
			s.enrich(&entry)
			if err := s.db.Create(&entry).Error; err != nil {
				s.logger.Error("Failed to write audit log", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) LogAction(userID *uint, action, entityID string, details interface{}, ip, userAgent string) {
	detailBytes, _ := json.Marshal(details)

	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Details:   string(detailBytes),
		IPAddress: ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}

	select {
	case s.channel <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}

func (s *AuditService) enrich(entry *models.AuditLog) {
	if entry.UserAgent == "" {
		return
	}
	ua := user_agent.New(entry.UserAgent)
	name, version := ua.Browser()
	entry.Browser = name + " " + version
	entry.OS = ua.OS()
}
