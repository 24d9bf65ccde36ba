package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathmaster",
	Short: "Arcade math quiz for the terminal",
	Long:  "MathMaster: multiple-choice math rounds in Classic, Time Attack and Sudden Death modes, with a daily challenge and an optional AI tutor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides db_path and MATHMASTER_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./config/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(versionCmd)
}
