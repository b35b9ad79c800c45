package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/history"
)

func historyCmd() *cobra.Command {
	var (
		limit int
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the local command log",
		Long: `Every chat command and its outcome is logged locally, so you can
audit what the assistant actually did on your behalf.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				return runHistoryClear()
			}
			return runHistory(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent commands to show")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete the whole command log")
	return cmd
}

func runHistory(limit int) error {
	store, err := history.NewStore(history.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	total, executed, cancelled, failed, err := store.Stats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("📜 Command History")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("Total commands: %d\n", total)
	fmt.Printf("  Executed:  %d\n", executed)
	fmt.Printf("  Cancelled: %d\n", cancelled)
	fmt.Printf("  Failed:    %d\n", failed)

	records, err := store.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to get recent commands: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Printf("Recent (last %d):\n", limit)

	for _, r := range records {
		var icon string
		switch r.Outcome {
		case history.OutcomeExecuted:
			icon = "✅"
		case history.OutcomeCancelled:
			icon = "🚫"
		case history.OutcomeFailed:
			icon = "❌"
		default:
			icon = "💬"
		}

		fmt.Printf("%s %s  %s\n", icon, r.CreatedAt.Local().Format("2006-01-02 15:04"), truncateString(r.Instruction, 60))
		if r.ActionCount > 0 {
			fmt.Printf("   %d actions\n", r.ActionCount)
		}
	}
	return nil
}

func runHistoryClear() error {
	store, err := history.NewStore(history.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("🗑  Command history cleared")
	return nil
}
