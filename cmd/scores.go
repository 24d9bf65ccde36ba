package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/store"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and recent results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		modeFlag, _ := cmd.Flags().GetString("mode")

		opts := store.QueryOpts{Limit: limit}
		if modeFlag != "" {
			m, err := quiz.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			opts.Mode = m.String()
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		best, err := s.ResultRepo().HighScores(ctx)
		if err != nil {
			return fmt.Errorf("query high scores: %w", err)
		}
		recent, err := s.ResultRepo().RecentResults(ctx, opts)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		if len(best) == 0 && len(recent) == 0 {
			fmt.Println("No games played yet.")
			return nil
		}

		fmt.Println("High Scores")
		fmt.Println(strings.Repeat("─", 40))
		for _, hs := range best {
			if opts.Mode != "" && hs.Mode != opts.Mode {
				continue
			}
			fmt.Printf("%-14s  %-14s  %6d\n", modeLabel(hs.Mode), topicLabel(hs.Topic), hs.Score)
		}

		fmt.Println()
		fmt.Println("Recent Games")
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("%-16s  %-14s  %-14s  %-8s  %7s  %6s  %6s\n",
			"Played", "Mode", "Topic", "Level", "Score", "Streak", "Secs")
		fmt.Println(strings.Repeat("─", 78))
		for _, r := range recent {
			level := r.Level
			if level == "" {
				level = "endless"
			}
			fmt.Printf("%-16s  %-14s  %-14s  %-8s  %3d/%-3d  %6d  %6.0f\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				modeLabel(r.Mode),
				topicLabel(r.Topic),
				level,
				r.Score, r.Total,
				r.MaxStreak,
				r.Duration.Seconds(),
			)
		}
		return nil
	},
}

func modeLabel(s string) string {
	if m, err := quiz.ParseMode(s); err == nil {
		return m.DisplayName()
	}
	return s
}

func topicLabel(s string) string {
	if t, err := dataset.ParseTopic(s); err == nil {
		return t.DisplayName()
	}
	return s
}

func init() {
	scoresCmd.Flags().IntP("limit", "n", 20, "Number of recent games to show")
	scoresCmd.Flags().StringP("mode", "m", "", "Only show this mode")
}
