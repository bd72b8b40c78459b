package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"divisafe-support/internal/domain"
)

// InteractionRepository persiste registros anonimizados de cada analisis.
type InteractionRepository interface {
	Create(ctx context.Context, rec domain.InteractionRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.InteractionRecord, error)
}

type PgInteractionRepository struct {
	pool *pgxpool.Pool
}

func NewPgInteractionRepository(pool *pgxpool.Pool) *PgInteractionRepository {
	return &PgInteractionRepository{pool: pool}
}

func (r *PgInteractionRepository) Create(ctx context.Context, rec domain.InteractionRecord) error {
	const query = `
		INSERT INTO interaction_logs (
			id, anonymous_user_hash, session_hash, message_hash,
			primary_emotion, risk_level, crisis_detected, escalate_to_human,
			state, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	var sessionHash interface{}
	if rec.SessionHash != "" {
		sessionHash = rec.SessionHash
	}

	_, err = r.pool.Exec(ctx, query,
		rec.ID,
		rec.AnonymousUserHash,
		sessionHash,
		rec.MessageHash,
		string(rec.State.PrimaryEmotion),
		string(rec.State.RiskLevel),
		rec.CrisisDetected,
		rec.EscalateToHuman,
		stateJSON,
		rec.Timestamp,
	)
	return err
}

func (r *PgInteractionRepository) ListRecent(ctx context.Context, limit int) ([]domain.InteractionRecord, error) {
	const query = `
		SELECT id, anonymous_user_hash, session_hash, message_hash,
			crisis_detected, escalate_to_human, state, created_at
		FROM interaction_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InteractionRecord
	for rows.Next() {
		var rec domain.InteractionRecord
		var sessionHash *string
		var stateJSON []byte

		err = rows.Scan(
			&rec.ID,
			&rec.AnonymousUserHash,
			&sessionHash,
			&rec.MessageHash,
			&rec.CrisisDetected,
			&rec.EscalateToHuman,
			&stateJSON,
			&rec.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		if sessionHash != nil {
			rec.SessionHash = *sessionHash
		}
		if len(stateJSON) > 0 {
			if err := json.Unmarshal(stateJSON, &rec.State); err != nil {
				return nil, fmt.Errorf("unmarshal state: %w", err)
			}
		}
		out = append(out, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
