package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/persist"
	"github.com/abhisek/curioloop/internal/streak"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streak, XP and today's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		loaded, err := persist.New(st.RecordRepo(), zap.NewNop()).Load(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		s := loaded.Stats

		completed, chapters := 0, 0
		for _, p := range loaded.Paths {
			completed += p.Plan.CompletedCount()
			chapters += len(p.Plan.Chapters)
		}

		fmt.Printf("Streak:          %d day(s), next milestone %d\n", s.StreakDays, streak.NextMilestone(s.StreakDays))
		fmt.Printf("Chapters today:  %d\n", s.ChaptersCompletedToday)
		fmt.Printf("Total XP:        %d\n", s.TotalXP)
		fmt.Printf("Learning paths:  %d (%d/%d chapters completed)\n", len(loaded.Paths), completed, chapters)
		fmt.Printf("Last login:      %s\n", s.LastLoginDate.Local().Format("2006-01-02 15:04"))
		return nil
	},
}
