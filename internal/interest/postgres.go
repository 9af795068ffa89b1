package interest

import (
	"context"
	"database/sql"
)

// PostgresStore keeps edges in a `likes` table with a primary key on
// (from_user_id, to_user_id), which gives the upsert its idempotence.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) UpsertEdge(ctx context.Context, from, to string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO likes (from_user_id, to_user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, from, to)
	return err
}

func (s *PostgresStore) HasEdge(ctx context.Context, from, to string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM likes WHERE from_user_id = $1 AND to_user_id = $2
		)
	`, from, to).Scan(&exists)
	return exists, err
}
