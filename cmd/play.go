package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/screens/play"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a round",
	Long: `Start a round. With --topic only, the mode and level menus are shown.
With --topic, --mode and --level the round starts straight away.
Without --topic the endless game mode opens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topicFlag, _ := cmd.Flags().GetString("topic")
		modeFlag, _ := cmd.Flags().GetString("mode")
		levelFlag, _ := cmd.Flags().GetInt("level")

		if topicFlag == "" {
			return runApp(cmd, func(svc screen.Services) screen.Screen {
				return play.NewGame(svc)
			})
		}

		topic, err := dataset.ParseTopic(topicFlag)
		if err != nil {
			return err
		}
		if modeFlag == "" || levelFlag == 0 {
			return runApp(cmd, func(svc screen.Services) screen.Screen {
				return play.NewQuiz(svc, topic)
			})
		}

		mode, err := quiz.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		level, err := dataset.ParseLevel(strconv.Itoa(levelFlag))
		if err != nil {
			return err
		}
		return runApp(cmd, func(svc screen.Services) screen.Screen {
			return play.NewQuizAt(svc, topic, mode, level)
		})
	},
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Play today's challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, func(svc screen.Services) screen.Screen {
			return play.NewDaily(svc)
		})
	},
}

func init() {
	playCmd.Flags().StringP("topic", "t", "", "Topic (arithmetic, algebra, geometry, statistics, probability)")
	playCmd.Flags().StringP("mode", "m", "", "Mode (classic, time_attack, sudden_death)")
	playCmd.Flags().IntP("level", "l", 0, "Level (1-3)")
}
