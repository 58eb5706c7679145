package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/domain"
)

type syncEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSyncEventRepository creates a new sync event repository
func NewSyncEventRepository(db *sql.DB, logger *zap.Logger) *syncEventRepository {
	return &syncEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *syncEventRepository) Create(ctx context.Context, event *domain.SyncEvent) error {
	query := `
		INSERT INTO sync_events (id, run_id, shopify_order_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var eventDataJSON []byte
	var err error
	if event.EventData != nil {
		eventDataJSON, err = json.Marshal(event.EventData)
		if err != nil {
			return err
		}
	}

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.RunID,
		event.OrderID,
		event.EventType,
		eventDataJSON,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create sync event", zap.Error(err))
		return err
	}

	return nil
}

func (r *syncEventRepository) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.SyncEvent, error) {
	query := `
		SELECT id, run_id, shopify_order_id, event_type, event_data, created_at
		FROM sync_events
		WHERE run_id = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, runID)
}

func (r *syncEventRepository) ListByOrderID(ctx context.Context, orderID int64) ([]*domain.SyncEvent, error) {
	query := `
		SELECT id, run_id, shopify_order_id, event_type, event_data, created_at
		FROM sync_events
		WHERE shopify_order_id = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, orderID)
}

func (r *syncEventRepository) list(ctx context.Context, query string, arg interface{}) ([]*domain.SyncEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		r.logger.Error("Failed to list sync events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.SyncEvent
	for rows.Next() {
		var event domain.SyncEvent
		var eventDataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.RunID,
			&event.OrderID,
			&event.EventType,
			&eventDataJSON,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(eventDataJSON) > 0 {
			if err := json.Unmarshal(eventDataJSON, &event.EventData); err != nil {
				return nil, err
			}
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}
