package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent backup passes",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of passes to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := wire(); err != nil {
		return err
	}
	if passJournal == nil {
		return errors.New("pass journal not configured")
	}

	results, err := passJournal.History(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading pass history: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No backup passes recorded yet.")
		return nil
	}

	for _, result := range results {
		status := "ok"
		if !result.Success {
			status = "FAILED: " + result.Error
		}
		cmd.Printf("%s  wrote %d  failed %d  %s  %s\n",
			result.StartedAt.Local().Format("2006-01-02 15:04:05"),
			result.DocumentsWritten,
			result.DocumentsFailed,
			result.TargetDir,
			status)
	}
	return nil
}
