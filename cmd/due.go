package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/internal/vocabulary"
	"github.com/example/vocabtrainer/pkg/models"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List the terms due for a test, most urgent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		language, _ := cmd.Flags().GetString("language")
		categories, _ := cmd.Flags().GetStringSlice("category")
		guest, _ := cmd.Flags().GetBool("guest")
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")

		a, err := newApp(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		repo := a.service.Repository()
		if all {
			return printPractice(cmd.OutOrStdout(), repo, language, categories)
		}
		due := repo.DueTerms(vocabulary.DueQuery{
			Language:              language,
			Categories:            categories,
			IncludeNotYetEligible: guest,
			Limit:                 limit,
		})
		return printDue(cmd.OutOrStdout(), due)
	},
}

func init() {
	dueCmd.Flags().StringP("language", "l", "Latein", "Language to list")
	dueCmd.Flags().StringSliceP("category", "c", nil, "Categories to include (default all)")
	dueCmd.Flags().Bool("guest", false, "Include terms that are not yet eligible")
	dueCmd.Flags().Int("limit", 0, "Maximum number of terms (0 for no limit)")
	dueCmd.Flags().Bool("all", false, "List every term grouped by category instead of the due set")
}

func printDue(w io.Writer, due []vocabulary.Entry) error {
	if len(due) == 0 {
		_, err := fmt.Fprintln(w, "Nothing is due.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TERM\tTRANSLATION\tCATEGORY\tLEVEL\tLAST TESTED\tEXPIRES IN")
	for _, e := range due {
		last := "-"
		if e.Score.Tested() {
			last = e.Score.LastTestedOn.Format(models.DateLayout)
		}
		expires := "-"
		if e.Urgency != spaced_repetition.LowestRung && e.Urgency != spaced_repetition.NotYetEligible {
			expires = fmt.Sprintf("%dd", e.Urgency.DaysToExpiry)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Term.Text, e.Term.Translation, e.Term.Category, e.Score.Level, last, expires)
	}
	return tw.Flush()
}

// printPractice writes a practice sheet: every term of the categories, grouped by category
func printPractice(w io.Writer, repo *vocabulary.Repository, language string, categories []string) error {
	if len(categories) == 0 {
		categories = repo.Categories(language)
	}
	groups := repo.ByCategories(language, categories)

	for _, category := range categories {
		entries := groups[category]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "== %s ==\n", category)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Term.Text, e.Term.Translation, e.Term.Comment)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}
