package excel

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabtrainer/pkg/models"
)

var scoreHeader = []interface{}{"Key", "Status", "Date"}

// ScoreSheet stores scores in a workbook with one "Scores <language>" sheet per language.
// Column A holds the term, B the level and C the last test date.
type ScoreSheet struct {
	path string
	mu   sync.Mutex
}

// NewScoreSheet creates a score store backed by the workbook at path.
// The file is created on the first write.
func NewScoreSheet(path string) *ScoreSheet {
	return &ScoreSheet{path: path}
}

// SheetName returns the score sheet of a language
func SheetName(language string) string {
	return "Scores " + language
}

// LoadScores reads the stored scores of a language keyed by term
func (s *ScoreSheet) LoadScores(ctx context.Context, language string) (map[string]models.StoredScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores := make(map[string]models.StoredScore)
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return scores, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open score sheet: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(SheetName(language)); err != nil || idx < 0 {
		return scores, nil
	}

	rows, err := f.GetRows(SheetName(language))
	if err != nil {
		return nil, fmt.Errorf("failed to get score rows: %w", err)
	}
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		scores[key] = models.StoredScore{Level: cell(row, 1), LastTestedOn: cell(row, 2)}
	}
	return scores, ctx.Err()
}

// WriteScores updates the rows of known terms and appends new ones
func (s *ScoreSheet) WriteScores(ctx context.Context, language string, updates []models.ScoreUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := SheetName(language)
	rows, err := s.ensureSheet(f, sheet)
	if err != nil {
		return err
	}

	keyToRow := make(map[string]int)
	for i, row := range rows {
		if i > 0 && len(row) > 0 {
			keyToRow[strings.TrimSpace(row[0])] = i + 1
		}
	}
	next := len(rows) + 1

	for _, u := range updates {
		key := strings.TrimSpace(u.Key.Text)
		if key == "" {
			continue
		}
		rowNum, ok := keyToRow[key]
		if !ok {
			rowNum = next
			keyToRow[key] = rowNum
			next++
		}
		ref, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		values := []interface{}{key, u.Level, u.DateString()}
		if err := f.SetSheetRow(sheet, ref, &values); err != nil {
			return fmt.Errorf("failed to write score row: %w", err)
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save score sheet: %w", err)
	}
	return nil
}

func (s *ScoreSheet) open() (*excelize.File, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return excelize.NewFile(), nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open score sheet: %w", err)
	}
	return f, nil
}

// ensureSheet creates the sheet with a header row if missing and returns its rows
func (s *ScoreSheet) ensureSheet(f *excelize.File, sheet string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to get score rows: %w", err)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	} else if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create score sheet: %w", err)
	}

	header := scoreHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write score header: %w", err)
	}
	return [][]string{{"Key", "Status", "Date"}}, nil
}
