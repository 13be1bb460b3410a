package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/avolkov/articlevault/internal/config"
)

// DeleteCommand removes one article by its current display id, together
// with its group links and rights row.
type DeleteCommand struct {
	DatabasePath string
	ID           int
}

// NewDeleteCommand creates a new DeleteCommand.
func NewDeleteCommand() *DeleteCommand {
	return &DeleteCommand{}
}

// ParseFlags parses command line flags.
func (cmd *DeleteCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the article database file")
	fs.IntVar(&cmd.ID, "id", 0, "Display id of the article (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s delete [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete one article by display id.\n\n")
		fmt.Fprintf(os.Stderr, "Articles after the deleted one shift down by one display id.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.ID < 1 {
		fs.Usage()
		return fmt.Errorf("delete requires a positive -id")
	}
	return nil
}

// Run executes the delete command.
func (cmd *DeleteCommand) Run() error {
	repo, cleanup, err := openArticles(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := repo.Delete(cmd.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted article %d\n", cmd.ID)
	return nil
}
