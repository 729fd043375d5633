package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"forms-platform/internal/rbac"
)

// NOTE: This repository assumes the following table exists:
//
// CREATE TABLE principals (
//   id         TEXT PRIMARY KEY,
//   email      TEXT NOT NULL UNIQUE,
//   roles      TEXT NOT NULL,
//   created_at TIMESTAMPTZ NOT NULL
// )

const pgUniqueViolation = "23505"

// PostgresRepository stores principals in Postgres. Roles are a closed enum,
// persisted as a comma-joined column rather than a join table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p Principal) error {
	const q = `
INSERT INTO principals (id, email, roles, created_at)
VALUES ($1, $2, $3, $4)
`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Email, joinRoles(p.Roles), p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Principal, error) {
	const q = `
SELECT id, email, roles, created_at
FROM principals
WHERE email = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Principal, error) {
	const q = `
SELECT id, email, roles, created_at
FROM principals
WHERE id = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]Principal, error) {
	const q = `
SELECT id, email, roles, created_at
FROM principals
ORDER BY created_at, id
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Principal
	for rows.Next() {
		var p Principal
		var roles string
		if err := rows.Scan(&p.ID, &p.Email, &roles, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Roles = splitRoles(roles)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	const q = `
DELETE FROM principals
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (Principal, error) {
	var p Principal
	var roles string
	if err := row.Scan(&p.ID, &p.Email, &roles, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	p.Roles = splitRoles(roles)
	return p, nil
}

func joinRoles(roles []rbac.Role) string {
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		parts = append(parts, role.String())
	}
	return strings.Join(parts, ",")
}

func splitRoles(s string) []rbac.Role {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]rbac.Role, 0, len(parts))
	for _, part := range parts {
		role, err := rbac.Parse(part)
		if err != nil {
			// Unknown role names in storage grant nothing.
			continue
		}
		roles = append(roles, role)
	}
	return roles
}
