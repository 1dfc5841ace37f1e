package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiq/internal/store"
)

var removeCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a vocabulary entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.EntryRepo().Delete(cmd.Context(), id); err != nil {
			if store.IsNotFound(err) {
				return fmt.Errorf("no entry with id %d", id)
			}
			return err
		}

		logger.Info("entry removed", "id", id)
		fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d\n", id)
		return nil
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}
