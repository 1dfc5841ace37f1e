package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/app"
	"github.com/abhisek/lexiq/internal/logging"
	"github.com/abhisek/lexiq/internal/quiz"
)

// runQuiz opens the store, builds the tester, and launches the TUI.
func runQuiz(cmd *cobra.Command, total, quota int, mode quiz.QuotaMode) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// Logs must not reach the terminal while the TUI owns it.
	quizLog := logger
	if cfg.Log.File == "" {
		quizLog = logging.Discard()
	}

	tester, err := quiz.NewTester(ctx, st.EntryRepo(), cfg.Quiz.Scheduler(),
		quiz.WithEventRepo(st.EventRepo()),
		quiz.WithLogger(quizLog),
	)
	if err != nil {
		return fmt.Errorf("prepare quiz: %w", err)
	}

	return app.Run(app.Options{
		Tester: tester,
		Total:  total,
		Quota:  quota,
		Mode:   mode,
	})
}
