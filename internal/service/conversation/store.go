package conversation

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/kapu/youtube-summary-agent/internal/domain"
	"github.com/kapu/youtube-summary-agent/internal/service/database"
	agenterrors "github.com/kapu/youtube-summary-agent/pkg/errors"
	"go.uber.org/zap"
)

// Store appends conversation turns to the messages table. Append-only: the
// pipeline never reads, updates, or deletes turns.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStore(pg *database.PostgresService, logger *zap.Logger) *Store {
	return &Store{
		db:     pg.GetDB(),
		logger: logger,
	}
}

// AppendTurn persists one turn. Failures are logged and returned; the caller
// aborts, since losing the record is as consequential as losing the result.
func (s *Store) AppendTurn(ctx context.Context, sessionID string, role domain.Role, content string, data map[string]any) error {
	message := domain.TurnMessage{
		Type:    string(role),
		Content: content,
		Data:    data,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Error("Failed to encode conversation turn",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return agenterrors.NewStoreError("failed to encode turn", "append", sessionID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, message) VALUES ($1, $2)`,
		sessionID, payload)
	if err != nil {
		s.logger.Error("Failed to store conversation turn",
			zap.String("session_id", sessionID),
			zap.String("role", string(role)),
			zap.Error(err))
		return agenterrors.NewStoreError("failed to store turn", "append", sessionID, err)
	}

	s.logger.Info("Conversation turn stored",
		zap.String("session_id", sessionID),
		zap.String("role", string(role)))
	return nil
}
