package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/persist"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Inspect saved learning paths",
}

var pathsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learning paths, most recently opened first",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := loadPaths(cmd)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("No learning paths yet.")
			return nil
		}

		sort.SliceStable(paths, func(i, j int) bool {
			return paths[i].LastAccessedAt.After(paths[j].LastAccessedAt)
		})

		fmt.Printf("%-36s  %-28s  %-12s  %8s  %-16s\n", "ID", "Topic", "Level", "Progress", "Last opened")
		fmt.Println(strings.Repeat("─", 108))
		for _, p := range paths {
			fmt.Printf("%-36s  %-28s  %-12s  %7d%%  %-16s\n",
				p.ID,
				truncate(p.Topic, 28),
				p.UserProfile.Level,
				p.ProgressPercent,
				p.LastAccessedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

var pathsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the plan and chapter progress of a learning path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := loadPaths(cmd)
		if err != nil {
			return err
		}
		i := learning.FindPath(paths, args[0])
		if i < 0 {
			return fmt.Errorf("path %q: %w", args[0], learning.ErrPathNotFound)
		}
		p := paths[i]
		plan := p.Plan

		sep := strings.Repeat("─", 60)
		fmt.Printf("Topic:     %s\n", p.Topic)
		fmt.Printf("Level:     %s (estimated %s)\n", p.UserProfile.Level, plan.EstimatedLevel)
		if p.UserProfile.Goal != "" {
			fmt.Printf("Goal:      %s\n", p.UserProfile.Goal)
		}
		fmt.Printf("Progress:  %d%% (%d/%d chapters)\n", p.ProgressPercent, plan.CompletedCount(), len(plan.Chapters))
		fmt.Printf("Created:   %s\n", p.CreatedAt.Local().Format(time.DateTime))
		if len(plan.Strengths) > 0 {
			fmt.Printf("Strengths: %s\n", strings.Join(plan.Strengths, ", "))
		}
		if len(plan.Weaknesses) > 0 {
			fmt.Printf("Focus on:  %s\n", strings.Join(plan.Weaknesses, ", "))
		}

		fmt.Println()
		fmt.Println(sep)
		for _, ch := range plan.Chapters {
			score := ""
			if ch.Score != nil {
				score = fmt.Sprintf("%d%%", *ch.Score)
			}
			fmt.Printf("%2d. %-10s %-36s %4d min  %5s\n",
				ch.ChapterID, ch.Status, truncate(ch.Title, 36), ch.EstimatedMinutes, score)
		}
		return nil
	},
}

// loadPaths reads the saved paths without launching the app.
func loadPaths(cmd *cobra.Command) ([]learning.LearningPath, error) {
	st, _, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	loaded, err := persist.New(st.RecordRepo(), zap.NewNop()).Load(cmd.Context(), time.Now())
	if err != nil {
		return nil, err
	}
	return loaded.Paths, nil
}

func init() {
	pathsCmd.AddCommand(pathsListCmd)
	pathsCmd.AddCommand(pathsShowCmd)
}
