package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/workload-service/internal/events"
)

// AuditService logs every collection mutation published on the dispatcher.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to mutation events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventRecordCreated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventRecordUpdated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventRecordDeleted, a.handleEvent)
	a.dispatcher.Subscribe(events.EventImageUploaded, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.logger.Info("collection mutated",
		zap.String("event", string(event.Type)),
		zap.String("kind", string(event.Kind)),
		zap.Int("record_id", event.RecordID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.String("actor_identity", event.Actor.Identity),
		zap.Any("payload", event.Payload))
	return nil
}
