package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/audit"
	"go.uber.org/zap"
)

type AuditService struct {
	repo    audit.Repository
	log     *zap.Logger
	entries chan *audit.Entry
	done    chan struct{}
}

const auditBufferSize = 10_000

func NewAuditService(repo audit.Repository, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		entries: make(chan *audit.Entry, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(actorID *uuid.UUID, actorType string, action audit.Action, resourceType, resourceID, ip, detail string) {
	e := &audit.Entry{
		ActorID:      actorID,
		ActorType:    actorType,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
		Detail:       detail,
	}

	select {
	case s.entries <- e:
	default:
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", string(action)),
			zap.String("resource", resourceType),
		)
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit entry", zap.Error(err))
		}
		cancel()
	}
}
