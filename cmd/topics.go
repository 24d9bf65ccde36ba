package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics, levels and question counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ds, err := loadDataset(cfg)
		if err != nil {
			return err
		}

		if v := ds.Version(); v != "" {
			fmt.Printf("Dataset version %s\n\n", v)
		}
		fmt.Printf("%-14s  %8s  %8s  %8s  %6s\n", "Topic", "Level 1", "Level 2", "Level 3", "Total")
		fmt.Println(strings.Repeat("─", 52))

		var grand int
		for _, t := range dataset.AllTopics {
			counts := make([]int, len(dataset.AllLevels))
			total := 0
			for i, l := range dataset.AllLevels {
				counts[i] = ds.Count(t, l)
				total += counts[i]
			}
			grand += total
			fmt.Printf("%-14s  %8d  %8d  %8d  %6d\n", t.DisplayName(), counts[0], counts[1], counts[2], total)
		}

		fmt.Println(strings.Repeat("─", 52))
		fmt.Printf("%-14s  %8s  %8s  %8s  %6d\n", "TOTAL", "", "", "", grand)
		if n := ds.Skipped(); n > 0 {
			fmt.Printf("\n%d malformed entries were skipped.\n", n)
		}
		return nil
	},
}
