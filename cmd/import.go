package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/excel"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Check a vocabulary file and report what would be loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		result, err := excel.ImportWords(importConfig(cfg))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		perLanguage := make(map[string]int)
		var languages []string
		for _, rec := range result.Records {
			if _, ok := perLanguage[rec.Term.Language]; !ok {
				languages = append(languages, rec.Term.Language)
			}
			perLanguage[rec.Term.Language]++
		}

		fmt.Fprintf(out, "Rows processed: %d, terms: %d, skipped: %d\n",
			result.TotalProcessed, len(result.Records), result.Skipped)
		for _, lang := range languages {
			fmt.Fprintf(out, "  %s: %d terms\n", lang, perLanguage[lang])
		}
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "Error: %s\n", msg)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("import finished with %d errors", len(result.Errors))
		}
		return nil
	},
}
