package audit

import (
	"context"
	"database/sql"
)

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE audit_events (
//   id            TEXT PRIMARY KEY,
//   type          TEXT NOT NULL,
//   user_id       TEXT,
//   actor_user_id TEXT,
//   ip_address    TEXT,
//   message       TEXT,
//   created_at    TIMESTAMPTZ NOT NULL
// )
//
// INSERT-only; no update or delete statements exist on purpose.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, type, user_id, actor_user_id, ip_address, message, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Type,
		e.UserID,
		e.ActorUserID,
		e.IPAddress,
		e.Message,
		e.CreatedAt,
	)
	return err
}
