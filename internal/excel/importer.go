package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabtrainer/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string   // Path to the Excel or CSV file
	Languages         []string // Sheets to import; the sheet name is the language
	Language          string   // Language of a CSV file
	TermColumn        string   // Header of the column with the foreign-language term
	CommentColumn     string   // Header of the column with the grammar note
	TranslationColumn string   // Header of the column with the translation
	CategoryColumn    string   // Header of the column with the category
	SkipRows          int      // Rows to skip after the header row
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		Languages:         []string{"Latein", "Englisch"},
		TermColumn:        "Fremdsprache",
		CommentColumn:     "Zusatz",
		TranslationColumn: "Deutsch",
		CategoryColumn:    "Kategorie",
		SkipRows:          1, // The row under the header describes the columns
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Records        []models.TermRecord
	TotalProcessed int
	Skipped        int
	Errors         []string
}

// Importer reads vocabulary from a workbook or CSV file
type Importer struct {
	config ImportConfig
}

// NewImporter creates an importer for the configured file
func NewImporter(config ImportConfig) *Importer {
	return &Importer{config: config}
}

// LoadTerms returns the terms in file order, grouped by language then category.
// A sheet that cannot be read fails the whole load.
func (i *Importer) LoadTerms(ctx context.Context) ([]models.TermRecord, error) {
	result, err := ImportWords(i.config)
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("failed to import %s: %s", i.config.FilePath, strings.Join(result.Errors, "; "))
	}
	return result.Records, ctx.Err()
}

// ImportWords imports terms from an Excel or CSV file
func ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}

	return importFromExcel(config)
}

// importFromExcel imports one sheet per language
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	result := &ImportResult{}
	for _, language := range config.Languages {
		rows, err := f.GetRows(language)
		if err != nil {
			return nil, fmt.Errorf("failed to get rows of sheet %q: %w", language, err)
		}
		processRows(rows, language, config, result)
	}

	return result, nil
}

// importFromCSV imports a single language from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}

	language := config.Language
	if language == "" {
		language = strings.TrimSuffix(filepath.Base(config.FilePath), filepath.Ext(config.FilePath))
	}

	result := &ImportResult{}
	processRows(rows, language, config, result)
	return result, nil
}

// processRows turns the rows of one language into records
func processRows(rows [][]string, language string, config ImportConfig, result *ImportResult) {
	if len(rows) == 0 {
		return
	}

	columns := headerIndex(rows[0])
	termCol, ok := columns[config.TermColumn]
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: missing column %q", language, config.TermColumn))
		return
	}
	commentCol := lookupColumn(columns, config.CommentColumn)
	translationCol := lookupColumn(columns, config.TranslationColumn)
	categoryCol := lookupColumn(columns, config.CategoryColumn)

	previousCategory := ""
	for n, row := range rows {
		// Header and description rows
		if n <= config.SkipRows {
			continue
		}
		result.TotalProcessed++

		text := cell(row, termCol)
		if text == "" {
			result.Skipped++
			continue
		}

		category := cell(row, categoryCol)
		if category == "" {
			category = previousCategory
		}
		previousCategory = category

		result.Records = append(result.Records, models.TermRecord{
			Term: models.Term{
				Text:        text,
				Translation: cell(row, translationCol),
				Language:    language,
				Category:    category,
				Comment:     cell(row, commentCol),
			},
		})
	}
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return index
}

func lookupColumn(columns map[string]int, name string) int {
	if i, ok := columns[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
