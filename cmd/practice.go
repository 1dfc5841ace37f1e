package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/store"
)

var practiceCmd = &cobra.Command{
	Use:   "practice ID",
	Short: "Add an entry to or remove it from the practice pool",
	Example: `  lexiq practice 12 --on
  lexiq practice 12 --off`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		on, _ := cmd.Flags().GetBool("on")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.EntryRepo().SetForPractice(cmd.Context(), id, on); err != nil {
			if store.IsNotFound(err) {
				return fmt.Errorf("no entry with id %d", id)
			}
			return err
		}

		state := "removed from"
		if on {
			state = "added to"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "#%d %s the practice pool\n", id, state)
		return nil
	},
}

func init() {
	practiceCmd.Flags().Bool("on", false, "Add the entry to the practice pool")
	practiceCmd.Flags().Bool("off", false, "Remove the entry from the practice pool")
	practiceCmd.MarkFlagsMutuallyExclusive("on", "off")
	practiceCmd.MarkFlagsOneRequired("on", "off")
}
