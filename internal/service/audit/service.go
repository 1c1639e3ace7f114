package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eudaura/telehealth-api/internal/model"
	"github.com/eudaura/telehealth-api/internal/repository"
)

type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Record appends an audit entry for a state-changing action. The write is
// best-effort: a failed append is logged and never fails the triggering
// operation. The entry follows the mutation it describes but the two are
// not atomic, so a crash between them can leave a change unaudited.
func (s *Service) Record(ctx context.Context, actorID, actorRole, action, targetType string, metadata map[string]interface{}) {
	var raw json.RawMessage
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			log.Error().Err(err).Str("action", action).Msg("failed to marshal audit metadata")
			return
		}
		raw = data
	}

	entry := &model.AuditEntry{
		ID:         uuid.New(),
		ActorID:    actorID,
		ActorRole:  actorRole,
		Action:     action,
		TargetType: targetType,
		Metadata:   raw,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("target_type", targetType).
			Msg("failed to write audit entry")
	}
}

func (s *Service) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	return s.repo.List(ctx, limit)
}
