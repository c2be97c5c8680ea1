package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// ScoreRepository stores term scores
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new repository instance
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

type scoreRow struct {
	Term         string         `db:"term"`
	Level        string         `db:"level"`
	LastTestedOn sql.NullString `db:"last_tested_on"`
}

// LoadScores returns the stored scores of a language keyed by term
func (r *ScoreRepository) LoadScores(ctx context.Context, language string) (map[string]models.StoredScore, error) {
	var rows []scoreRow
	query := r.db.Rebind("SELECT term, level, last_tested_on FROM term_scores WHERE language = ?")
	if err := r.db.SelectContext(ctx, &rows, query, language); err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	scores := make(map[string]models.StoredScore, len(rows))
	for _, row := range rows {
		scores[row.Term] = models.StoredScore{Level: row.Level, LastTestedOn: row.LastTestedOn.String}
	}
	return scores, nil
}

// WriteScores upserts the scores of one language in a single transaction
func (r *ScoreRepository) WriteScores(ctx context.Context, language string, updates []models.ScoreUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Rebind(`
		INSERT INTO term_scores (language, term, level, last_tested_on, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (language, term) DO UPDATE SET
			level = excluded.level,
			last_tested_on = excluded.last_tested_on,
			updated_at = CURRENT_TIMESTAMP
	`)
	for _, u := range updates {
		date := sql.NullString{String: u.DateString(), Valid: u.DateString() != ""}
		if _, err := tx.ExecContext(ctx, query, language, u.Key.Text, u.Level, date); err != nil {
			return fmt.Errorf("failed to write score for %q: %w", u.Key.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scores: %w", err)
	}
	return nil
}
