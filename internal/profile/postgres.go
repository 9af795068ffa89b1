package profile

import (
	"context"
	"database/sql"
)

// PostgresStore keeps profiles in a `profiles` table, one row per user.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*Profile, error) {
	p := Profile{UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT name, gender, age, hobbies, bio
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.Name, &p.Gender, &p.Age, &p.Hobbies, &p.Bio)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, gender, age, hobbies, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			gender = EXCLUDED.gender,
			age = EXCLUDED.age,
			hobbies = EXCLUDED.hobbies,
			bio = EXCLUDED.bio
	`, p.UserID, p.Name, p.Gender, p.Age, p.Hobbies, p.Bio)
	return err
}

func (s *PostgresStore) Scan(ctx context.Context, excludeUserID, excludeGender string) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name, gender, age, hobbies, bio
		FROM profiles
		WHERE user_id <> $1 AND gender <> $2
	`, excludeUserID, excludeGender)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.Name, &p.Gender, &p.Age, &p.Hobbies, &p.Bio); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
