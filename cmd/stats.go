package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/quiz"
	"github.com/abhisek/lexiq/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vocabulary and quiz statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	repo := st.EntryRepo()
	stats, err := repo.Stats(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if stats.Entries == 0 {
		fmt.Fprintln(out, "Your vocabulary is empty. Add entries with `lexiq add`.")
		return nil
	}

	fmt.Fprintf(out, "Entries:          %d (%d distinct lexemes)\n", stats.Entries, stats.Lexemes)
	fmt.Fprintf(out, "Practice pool:    %d\n", stats.PracticeEntries)
	fmt.Fprintf(out, "Tests answered:   %d\n", stats.TotalTests)
	fmt.Fprintf(out, "Average match:    %.2f%%\n", stats.AverageMatch()*100)

	for _, pool := range []store.Pool{store.PoolGeneral, store.PoolPractice} {
		drawn, eligible, err := quiz.CycleProgress(ctx, repo, pool)
		if err != nil {
			return err
		}
		if eligible == 0 {
			continue
		}
		fmt.Fprintf(out, "%-18s%d/%d drawn this cycle\n", fmt.Sprintf("Rotation (%s):", pool), drawn, eligible)
	}

	events := st.EventRepo()
	sessions, err := events.SessionCount(ctx)
	if err != nil {
		return err
	}
	last, err := events.LastSessionTime(ctx)
	if err != nil {
		return err
	}
	lastStr := "never"
	if !last.IsZero() {
		lastStr = humanize.Time(last)
	}
	fmt.Fprintf(out, "Quiz sessions:    %d (last %s)\n", sessions, lastStr)
	return nil
}
