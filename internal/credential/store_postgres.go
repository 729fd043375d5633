package credential

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NOTE: This store assumes the following table exists:
//
// CREATE TABLE credentials (
//   principal_id TEXT PRIMARY KEY,
//   secret_hash  TEXT NOT NULL,
//   updated_at   TIMESTAMPTZ NOT NULL
// )

// PostgresStore keeps hashed secrets in Postgres.
type PostgresStore struct {
	db     *sql.DB
	hasher *Hasher
}

func NewPostgresStore(db *sql.DB, hasher *Hasher) *PostgresStore {
	return &PostgresStore{db: db, hasher: hasher}
}

func (s *PostgresStore) Put(ctx context.Context, principalID, secret string) error {
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO credentials (principal_id, secret_hash, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (principal_id)
DO UPDATE SET secret_hash = EXCLUDED.secret_hash,
              updated_at = EXCLUDED.updated_at
`
	_, err = s.db.ExecContext(ctx, q, principalID, hash, time.Now().UTC())
	return err
}

func (s *PostgresStore) Get(ctx context.Context, principalID string) (string, error) {
	const q = `
SELECT secret_hash
FROM credentials
WHERE principal_id = $1
`
	var hash string
	if err := s.db.QueryRowContext(ctx, q, principalID).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

func (s *PostgresStore) Verify(ctx context.Context, principalID, candidate string) (bool, error) {
	hash, err := s.Get(ctx, principalID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.hasher.Compare(hash, candidate), nil
}

func (s *PostgresStore) Remove(ctx context.Context, principalID string) (bool, error) {
	const q = `
DELETE FROM credentials
WHERE principal_id = $1
`
	res, err := s.db.ExecContext(ctx, q, principalID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
