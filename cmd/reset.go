package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/persist"
	"github.com/abhisek/curioloop/internal/streak"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all learning paths and reset stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes every learning path; re-run with --yes to confirm")
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		adapter := persist.New(st.RecordRepo(), zap.NewNop())
		if err := adapter.SavePaths(cmd.Context(), []learning.LearningPath{}); err != nil {
			return err
		}
		if err := adapter.SaveStats(cmd.Context(), streak.Default(time.Now())); err != nil {
			return err
		}
		fmt.Println("All learning paths deleted. Stats reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
}
