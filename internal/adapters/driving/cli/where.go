package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print this process's backup directory",
	Long: `Resolves the backup directory this process writes into, allocating
it if this is the first use.`,
	RunE: runWhere,
}

func init() {
	rootCmd.AddCommand(whereCmd)
}

func runWhere(cmd *cobra.Command, _ []string) error {
	if err := wire(); err != nil {
		return err
	}
	if backupRunner == nil {
		return errors.New("backup service not configured")
	}

	dir, err := backupRunner.Location(context.Background())
	if err != nil {
		return fmt.Errorf("resolving backup location: %w", err)
	}

	cmd.Println(dir)
	return nil
}
