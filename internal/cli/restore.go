package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avolkov/articlevault/internal/config"
)

// RestoreCommand reloads the articles table from a backup file.
type RestoreCommand struct {
	DatabasePath string
	Input        string
}

// NewRestoreCommand creates a new RestoreCommand.
func NewRestoreCommand() *RestoreCommand {
	return &RestoreCommand{}
}

// ParseFlags parses command line flags.
func (cmd *RestoreCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the article database file")
	fs.StringVar(&cmd.Input, "input", "", "Backup file to restore from (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s restore -input <file> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Drop the articles table and reload it from a backup file.\n")
		fmt.Fprintf(os.Stderr, "Group links pointing at articles missing from the backup are NOT\n")
		fmt.Fprintf(os.Stderr, "cleaned up; reconcile them yourself afterwards.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Input == "" {
		fs.Usage()
		return fmt.Errorf("-input is required")
	}
	return nil
}

// Run executes the restore command.
func (cmd *RestoreCommand) Run() error {
	absInput, err := filepath.Abs(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for input: %w", err)
	}

	repo, cleanup, err := openArticles(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := repo.Restore(absInput); err != nil {
		return err
	}

	fmt.Printf("Articles restored from %s\n", absInput)
	return nil
}
