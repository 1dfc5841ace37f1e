package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List vocabulary entries (optionally filtered)",
	Example: `  lexiq list
  lexiq list --where "test_count >= 3" --where "category == verb"
  lexiq list --where 'lexeme LIKE "ab%"'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exprs, _ := cmd.Flags().GetStringArray("where")

		filters := make([]store.Filter, 0, len(exprs))
		for _, expr := range exprs {
			f, err := store.ParseFilter(expr)
			if err != nil {
				return err
			}
			filters = append(filters, f)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.EntryRepo().List(cmd.Context(), filters...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%5s  %-20s  %-14s  %-36s  %5s  %7s  %s\n",
			"ID", "Lexeme", "Category", "Definition", "Tests", "Avg", "Practice")
		fmt.Fprintln(out, strings.Repeat("─", 104))

		for _, e := range entries {
			practice := ""
			if e.ForPractice {
				practice = "yes"
			}
			fmt.Fprintf(out, "%5d  %-20s  %-14s  %-36s  %5d  %6.2f%%  %s\n",
				e.ID, truncate(e.Lexeme, 20), e.Category, truncate(e.Definition, 36),
				e.TestCount, e.AverageMatch()*100, practice)
		}

		fmt.Fprintf(out, "\n%d entries\n", len(entries))
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	listCmd.Flags().StringArray("where", nil, `Filter "<field> <op> <value>" (repeatable, combined with AND)`)
}
