package repository

import (
	"context"
	"database/sql"
)

// StatsRepository records audit actions in the stats table
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Record(ctx context.Context, userID, action, details string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stats (user_id, action, details) VALUES ($1, $2, $3)`,
		userID, action, details)
	return err
}
