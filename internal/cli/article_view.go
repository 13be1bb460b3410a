package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/avolkov/articlevault/internal/config"
)

// ViewCommand prints one article by its current display id, with an
// encrypted body decoded through the content cipher.
type ViewCommand struct {
	DatabasePath string
	ID           int
}

// NewViewCommand creates a new ViewCommand.
func NewViewCommand() *ViewCommand {
	return &ViewCommand{}
}

// ParseFlags parses command line flags.
func (cmd *ViewCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the article database file")
	fs.IntVar(&cmd.ID, "id", 0, "Display id of the article (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s view [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show one article by display id, as printed by the list command.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.ID < 1 {
		fs.Usage()
		return fmt.Errorf("view requires a positive -id")
	}
	return nil
}

// Run executes the view command.
func (cmd *ViewCommand) Run() error {
	repo, cleanup, err := openArticles(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer cleanup()

	detail, err := repo.View(cmd.ID)
	if err != nil {
		return err
	}

	fmt.Printf("ID: %d\n", detail.DisplayID)
	fmt.Printf("Title: %s\n", detail.Title)
	fmt.Printf("Authors: %s\n", strings.Join(detail.Authors, "; "))
	fmt.Printf("Abstract: %s\n", detail.Abstract)
	fmt.Printf("Keywords: %s\n", detail.Keywords)
	fmt.Printf("References: %s\n", detail.References)
	fmt.Printf("\n%s\n", detail.Body)
	return nil
}
