package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/internal/trainer"
	"github.com/example/vocabtrainer/internal/vocabulary"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List languages and their categories, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		printCategories(cmd.OutOrStdout(), a.service, spaced_repetition.DefaultLadder())
		return nil
	},
}

func printCategories(w io.Writer, service *trainer.Service, ladder *spaced_repetition.Ladder) {
	repo := service.Repository()
	fmt.Fprintf(w, "%d terms, loaded %s\n", len(repo.All()), service.LoadedAt().Format("2006-01-02 15:04"))

	for _, lang := range repo.Languages() {
		entries := repo.ByLanguage(lang)
		fmt.Fprintf(w, "%s (%d terms, %d due)\n", lang, len(entries), service.DueCount(lang))
		fmt.Fprintf(w, "  levels: %s\n", levelCounts(entries, ladder))
		for _, category := range repo.Categories(lang) {
			fmt.Fprintf(w, "  %s (%d)\n", category, len(repo.ByCategory(lang, category)))
		}
	}
}

// levelCounts renders how many terms sit on each rung, lowest first, skipping empty rungs
func levelCounts(entries []vocabulary.Entry, ladder *spaced_repetition.Ladder) string {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Score.Level]++
	}

	var parts []string
	for _, name := range ladder.Names() {
		if counts[name] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", name, counts[name]))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
