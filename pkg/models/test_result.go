package models

import "time"

// TestResult records the outcome of a finished test run
type TestResult struct {
	ID           int64     `json:"id" db:"id"`
	ChatID       int64     `json:"chat_id" db:"chat_id"`
	Language     string    `json:"language" db:"language"`
	Categories   string    `json:"categories" db:"categories"` // Comma separated category names
	TotalWords   int       `json:"total_words" db:"total_words"`
	CorrectWords int       `json:"correct_words" db:"correct_words"`
	WrongWords   int       `json:"wrong_words" db:"wrong_words"`
	SkippedWords int       `json:"skipped_words" db:"skipped_words"`
	Passes       int       `json:"passes" db:"passes"`
	TestDate     time.Time `json:"test_date" db:"test_date"`
	Duration     int       `json:"duration" db:"duration"` // Duration in seconds
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
