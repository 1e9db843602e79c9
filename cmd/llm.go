package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yufin/yufin/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		reqs, err := st.RecentLLMRequests(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}
		if len(reqs) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"#", "Timestamp", "Provider", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 112))
		for _, r := range reqs {
			if purpose != "" && r.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !r.Success {
				ok = "✗ " + truncate(r.ErrorMessage, 40)
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				r.Sequence,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Provider,
				truncate(r.Purpose, 14),
				truncate(r.Model, 28),
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		byPurpose, err := st.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		fmt.Printf("%-20s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
		fmt.Println(strings.Repeat("─", 62))
		var calls, in, out int
		for _, u := range byPurpose {
			fmt.Printf("%-20s  %6d  %10d  %10d  %8d\n",
				truncate(u.Key, 20), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		fmt.Println(strings.Repeat("─", 62))
		fmt.Printf("%-20s  %6d  %10d  %10d\n", "Total", calls, in, out)

		byModel, err := st.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}

		fmt.Println()
		fmt.Println("Estimated Cost (USD)")
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 76))
		var total float64
		unpriced := false
		for _, u := range byModel {
			price, ok := llm.PriceOf(u.Key)
			if !ok {
				unpriced = true
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
				continue
			}
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
				truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
		}
		fmt.Println(strings.Repeat("─", 76))
		label := "Total"
		if unpriced {
			label = "Total (priced models only)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests with this purpose")
	llmCmd.AddCommand(llmListCmd, llmStatsCmd)
}
