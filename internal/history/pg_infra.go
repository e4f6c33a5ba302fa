package history

import (
	"context"
	"database/sql"
	"fmt"
)

// pgStore — табличный бэкенд. Порядок ходов держит BIGSERIAL id:
// позиция строки в таблице сама по себе порядок не гарантирует.
type pgStore struct {
	db *sql.DB
}

func NewPgStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id                BIGSERIAL PRIMARY KEY,
			turn_id           TEXT        NOT NULL,
			caller_key        TEXT        NOT NULL,
			topic_key         TEXT        NOT NULL,
			model             TEXT        NOT NULL,
			system_prompt     TEXT        NOT NULL,
			user_message      TEXT        NOT NULL,
			assistant_message TEXT        NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_pair
			ON conversations (caller_key, topic_key, id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: ensure schema: %w", err)
		}
	}
	return nil
}

func (s *pgStore) Read(ctx context.Context, pair Pair, limit int) ([]Turn, error) {
	query := `
		SELECT turn_id, caller_key, topic_key, model, system_prompt,
		       user_message, assistant_message, created_at
		FROM conversations
		WHERE caller_key = $1 AND topic_key = $2
		ORDER BY id DESC
	`
	args := []any{pair.Caller, pair.Topic}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(
			&t.ID,
			&t.CallerKey,
			&t.TopicKey,
			&t.Model,
			&t.SystemPrompt,
			&t.UserMessage,
			&t.AssistantMessage,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// выборка шла от новых к старым — разворачиваем в хронологию
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	if turns == nil {
		turns = []Turn{}
	}
	return turns, nil
}

func (s *pgStore) Append(ctx context.Context, turn Turn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (
			turn_id, caller_key, topic_key, model, system_prompt,
			user_message, assistant_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		turn.ID,
		turn.CallerKey,
		turn.TopicKey,
		turn.Model,
		turn.SystemPrompt,
		turn.UserMessage,
		turn.AssistantMessage,
		turn.CreatedAt,
	)
	return err
}
