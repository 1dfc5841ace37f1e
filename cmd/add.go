package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add LEXEME",
	Short: "Add a vocabulary entry",
	Example: `  lexiq add abate --definition "become less intense" --category verb
  lexiq add "give up" -d "stop trying" -c phrasal-verb --label informal --practice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		definition, _ := cmd.Flags().GetString("definition")
		categoryName, _ := cmd.Flags().GetString("category")
		collocate, _ := cmd.Flags().GetString("collocate")
		sentence, _ := cmd.Flags().GetString("sentence")
		labelNames, _ := cmd.Flags().GetStringSlice("label")
		practice, _ := cmd.Flags().GetBool("practice")

		category, err := store.ParseCategory(categoryName)
		if err != nil {
			return err
		}
		var labels []store.UsageLabel
		for _, name := range labelNames {
			l, err := store.ParseUsageLabel(name)
			if err != nil {
				return err
			}
			labels = append(labels, l)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EntryRepo().Create(cmd.Context(), store.NewEntry{
			Lexeme:      args[0],
			Definition:  definition,
			Category:    category,
			Collocate:   collocate,
			Sentence:    sentence,
			Labels:      labels,
			ForPractice: practice,
		})
		if errors.Is(err, store.ErrDuplicateEntry) {
			return fmt.Errorf("%q with that definition is already in the vocabulary", args[0])
		}
		if err != nil {
			return err
		}

		logger.Info("entry added", "id", e.ID, "lexeme", e.Lexeme)
		fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s (%s)\n", e.ID, e.Lexeme, e.Category)
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("definition", "d", "", "What the lexeme means (shown as the question)")
	addCmd.Flags().StringP("category", "c", "", "Lexical category, e.g. noun, verb, phrasal-verb, idiom")
	addCmd.Flags().String("collocate", "", "A word commonly used with the lexeme")
	addCmd.Flags().String("sentence", "", "An example sentence")
	addCmd.Flags().StringSlice("label", nil, "Usage label (repeatable), e.g. formal, slang")
	addCmd.Flags().Bool("practice", false, "Also add the entry to the practice pool")

	_ = addCmd.MarkFlagRequired("definition")
	_ = addCmd.MarkFlagRequired("category")
}
