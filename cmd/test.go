package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/quiz"
)

var testCmd = &cobra.Command{
	Use:   "test [N]",
	Short: "Start a quiz of N questions",
	Long: "Start a quiz of N questions (default quiz.default_count). Entries are drawn so\n" +
		"that every entry is asked once before any is asked again. --practice reserves\n" +
		"part of the quiz for the practice pool, as a count or a percentage of N.",
	Example: `  lexiq test 10
  lexiq test 20 --practice 5
  lexiq test 20 --practice 25%`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		total := cfg.Quiz.DefaultCount
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid question count %q", args[0])
			}
			total = n
		}

		practice, _ := cmd.Flags().GetString("practice")
		quota, mode, err := quiz.ParseQuota(practice)
		if err != nil {
			return err
		}

		return runQuiz(cmd, total, quota, mode)
	},
}

func init() {
	testCmd.Flags().String("practice", "0", "Practice questions: a count (N) or a percentage (N%)")
}
