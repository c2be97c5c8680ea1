package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/excel"
	"github.com/example/vocabtrainer/internal/trainer"
)

var rootCmd = &cobra.Command{
	Use:   "vocabtrainer",
	Short: "Spaced-repetition vocabulary trainer",
	Long:  "vocabtrainer tests vocabulary from a spreadsheet, most urgent terms first, and runs as a Telegram bot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the command line
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env", "Path to an env file with the settings")
	rootCmd.PersistentFlags().String("file", "", "Vocabulary file (overrides VOCABULARY_FILE env var)")
	rootCmd.PersistentFlags().String("languages", "", "Comma separated sheets to import (overrides VOCABULARY_LANGUAGES)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(importCmd)
}

// loadConfig reads the env file and the environment, then applies the flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("file"); p != "" {
		cfg.VocabularyFile = p
	}
	if v, _ := cmd.Flags().GetString("languages"); v != "" {
		var langs []string
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		cfg.Languages = langs
	}
	return cfg, cfg.Validate()
}

func importConfig(cfg *config.Config) excel.ImportConfig {
	ic := excel.DefaultImportConfig()
	ic.FilePath = cfg.VocabularyFile
	ic.Languages = cfg.Languages
	return ic
}

// app holds the wired components shared by the commands
type app struct {
	cfg     *config.Config
	db      *sqlx.DB
	results *database.TestResultRepository
	service *trainer.Service
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// newApp connects the database, selects the score store and loads the vocabulary
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.Connect(database.Options{
		Type:    cfg.DBType,
		URL:     cfg.DatabaseURL,
		DataDir: cfg.DataDir,
	})
	if err != nil {
		return nil, err
	}

	var scores trainer.ScoreStore
	switch cfg.ScoreStore {
	case "sheet":
		scores = excel.NewScoreSheet(cfg.ScoresFile)
	default:
		scores = database.NewScoreRepository(db)
	}

	results := database.NewTestResultRepository(db)
	service := trainer.NewService(excel.NewImporter(importConfig(cfg)), scores, trainer.Options{
		DueLimit: cfg.DueLimit,
		Results:  results,
	})
	if err := service.Reload(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load vocabulary from %s: %w", cfg.VocabularyFile, err)
	}

	return &app{cfg: cfg, db: db, results: results, service: service}, nil
}
