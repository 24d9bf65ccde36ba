package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CuriousNebula/Math-Master/internal/llm"
	"github.com/CuriousNebula/Math-Master/internal/store"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Inspect logged tutor requests",
}

var tutorEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent tutor requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.TutorEventRepo().QueryTutorEvents(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No tutor requests found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Provider", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Provider,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var tutorStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.TutorEventRepo().QueryTutorEvents(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No tutor usage recorded yet.")
			return nil
		}

		usage := usageByModel(events)

		fmt.Println("Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 80))
		fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %9s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 80))

		var totalCost float64
		var unknownModels []string
		for _, u := range usage {
			price, ok := llm.PriceOf(u.model)
			if !ok {
				unknownModels = append(unknownModels, u.model)
				fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %9s\n",
					truncate(u.model, 32), u.calls, u.failed, u.input, u.output, "?")
				continue
			}
			c := price.Cost(u.input, u.output)
			totalCost += c
			fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %9s\n",
				truncate(u.model, 32), u.calls, u.failed, u.input, u.output, formatCost(c))
		}

		fmt.Println(strings.Repeat("─", 80))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %9s\n", label, "", "", "", "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

type modelUsage struct {
	model         string
	calls, failed int
	input, output int
}

// usageByModel sums events per model, ordered by model name.
func usageByModel(events []store.TutorEvent) []modelUsage {
	byModel := make(map[string]*modelUsage)
	for _, e := range events {
		u, ok := byModel[e.Model]
		if !ok {
			u = &modelUsage{model: e.Model}
			byModel[e.Model] = u
		}
		u.calls++
		if !e.Success {
			u.failed++
		}
		u.input += e.InputTokens
		u.output += e.OutputTokens
	}
	out := make([]modelUsage, 0, len(byModel))
	for _, u := range byModel {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].model < out[j].model })
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	tutorEventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	tutorCmd.AddCommand(tutorEventsCmd)
	tutorCmd.AddCommand(tutorStatsCmd)
}
