package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID        string          `json:"id"`
	CheckID   string          `json:"checkId"`
	ActorID   string          `json:"actorId"`
	Action    string          `json:"action"`
	RequestID string          `json:"requestId"`
	CreatedAt time.Time       `json:"createdAt"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record stores before/after snapshots of a check around a mutation.
func (s *Service) Record(ctx context.Context, checkID, actorID, action, requestID string, before, after any) error {
	var beforeJSON, afterJSON []byte
	if before != nil {
		payload, err := json.Marshal(before)
		if err != nil {
			return err
		}
		beforeJSON = payload
	}
	if after != nil {
		payload, err := json.Marshal(after)
		if err != nil {
			return err
		}
		afterJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (check_id, actor_id, action, before_json, after_json, request_id)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, checkID, actorID, action, beforeJSON, afterJSON, requestID)
	return err
}

func (s *Service) ListForCheck(ctx context.Context, checkID string, limit, offset int) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, check_id, actor_id, action, request_id, created_at, before_json, after_json
    FROM audit_events
    WHERE check_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, checkID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.CheckID, &evt.ActorID, &evt.Action, &evt.RequestID, &evt.CreatedAt, &evt.Before, &evt.After); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}
