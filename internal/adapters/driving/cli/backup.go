package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Run a single backup pass now",
	Long: `Captures all modified buffers immediately, without starting the
periodic scheduler.`,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, _ []string) error {
	if err := wire(); err != nil {
		return err
	}
	if backupRunner == nil {
		return errors.New("backup service not configured")
	}

	result, err := backupRunner.RunPass(context.Background())
	if err != nil {
		return fmt.Errorf("backup pass failed: %w", err)
	}

	if result.DocumentsWritten == 0 && result.DocumentsFailed == 0 {
		cmd.Println("Nothing to back up.")
		return nil
	}

	cmd.Printf("Backed up %d document(s) to %s\n", result.DocumentsWritten, result.TargetDir)
	if result.DocumentsFailed > 0 {
		cmd.Printf("%d document(s) failed; see log output.\n", result.DocumentsFailed)
	}
	return nil
}
