package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avolkov/articlevault/internal/config"
)

// BackupCommand exports the articles table to a backup file.
type BackupCommand struct {
	DatabasePath string
	Output       string
}

// NewBackupCommand creates a new BackupCommand.
func NewBackupCommand() *BackupCommand {
	return &BackupCommand{}
}

// ParseFlags parses command line flags.
func (cmd *BackupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the article database file")
	fs.StringVar(&cmd.Output, "output", "./articles-backup.ndjson", "Backup file to write")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export all articles to a newline-delimited JSON file.\n")
		fmt.Fprintf(os.Stderr, "Encrypted bodies are exported as-is, still encrypted.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the backup command.
func (cmd *BackupCommand) Run() error {
	absOutput, err := filepath.Abs(cmd.Output)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for output: %w", err)
	}

	repo, cleanup, err := openArticles(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := repo.Backup(absOutput); err != nil {
		return err
	}

	fmt.Printf("Backup written to %s\n", absOutput)
	return nil
}
