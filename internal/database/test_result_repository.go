package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// TestResultRepository handles database operations for test results
type TestResultRepository struct {
	db *sqlx.DB
}

// NewTestResultRepository creates a new repository instance
func NewTestResultRepository(db *sqlx.DB) *TestResultRepository {
	return &TestResultRepository{db: db}
}

// Create inserts a new test result
func (r *TestResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	if result.TestDate.IsZero() {
		result.TestDate = time.Now()
	}

	query := `
		INSERT INTO test_results (
			chat_id, language, categories, total_words, correct_words,
			wrong_words, skipped_words, passes, test_date, duration
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []interface{}{
		result.ChatID,
		result.Language,
		result.Categories,
		result.TotalWords,
		result.CorrectWords,
		result.WrongWords,
		result.SkippedWords,
		result.Passes,
		result.TestDate,
		result.Duration,
	}

	if r.db.DriverName() == "postgres" {
		return r.db.QueryRowxContext(ctx, r.db.Rebind(query+" RETURNING id"), args...).Scan(&result.ID)
	}

	// SQLite (без RETURNING)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	result.ID = id
	return nil
}

// GetByChatID returns the test results of a chat, newest first
func (r *TestResultRepository) GetByChatID(ctx context.Context, chatID int64, limit int) ([]models.TestResult, error) {
	var results []models.TestResult
	query := r.db.Rebind("SELECT * FROM test_results WHERE chat_id = ? ORDER BY test_date DESC, id DESC LIMIT ?")
	if err := r.db.SelectContext(ctx, &results, query, chatID, limit); err != nil {
		return nil, fmt.Errorf("failed to get test results: %w", err)
	}
	return results, nil
}

// GetUserStatsByPeriod returns totals for a chat within a time period
func (r *TestResultRepository) GetUserStatsByPeriod(ctx context.Context, chatID int64, startDate, endDate time.Time) (map[string]int, error) {
	var row struct {
		Tests   int `db:"tests"`
		Total   int `db:"total"`
		Correct int `db:"correct"`
	}
	query := r.db.Rebind(`
		SELECT COUNT(*) AS tests,
			COALESCE(SUM(total_words), 0) AS total,
			COALESCE(SUM(correct_words), 0) AS correct
		FROM test_results
		WHERE chat_id = ? AND test_date BETWEEN ? AND ?
	`)
	if err := r.db.GetContext(ctx, &row, query, chatID, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to get test statistics: %w", err)
	}

	return map[string]int{
		"total_tests":   row.Tests,
		"total_words":   row.Total,
		"correct_words": row.Correct,
	}, nil
}
