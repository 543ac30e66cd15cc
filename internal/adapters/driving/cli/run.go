package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the periodic backup daemon",
	Long: `Starts the backup scheduler in the foreground. Modified buffers are
backed up on every tick until the process is interrupted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if err := wire(); err != nil {
		return err
	}
	if backupScheduler == nil {
		return errors.New("scheduler not configured")
	}

	// Interrupt or terminate stops future ticks and runs cleanup.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cmd.Println("Shutting down...")
		_ = backupScheduler.Stop()
	}()

	cmd.Printf("Backing up every %s (initial delay %s). Press Ctrl+C to stop.\n",
		settings.RefreshInterval, settings.InitialDelay)

	if err := backupScheduler.Start(context.Background()); err != nil &&
		!errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler stopped: %w", err)
	}
	return nil
}
