package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/avolkov/articlevault/internal/config"
)

// ListCommand prints every stored article with its current display id.
type ListCommand struct {
	DatabasePath string
}

// NewListCommand creates a new ListCommand.
func NewListCommand() *ListCommand {
	return &ListCommand{}
}

// ParseFlags parses command line flags.
func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the article database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List all articles with their display ids.\n\n")
		fmt.Fprintf(os.Stderr, "Display ids are renumbered on every call: deleting an article shifts\n")
		fmt.Fprintf(os.Stderr, "the ids of everything after it. Do not cache them across changes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the list command.
func (cmd *ListCommand) Run() error {
	repo, cleanup, err := openArticles(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer cleanup()

	summaries, err := repo.List()
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No articles stored.")
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("ID: %d, Title: %s, Authors: %s\n", s.DisplayID, s.Title, strings.Join(s.Authors, "; "))
	}
	return nil
}
