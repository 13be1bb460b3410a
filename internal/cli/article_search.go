package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/avolkov/articlevault/internal/config"
	"github.com/avolkov/articlevault/internal/database/articles"
)

// SearchCommand searches articles by text, content level and group.
type SearchCommand struct {
	DatabasePath string
	Text         string
	Level        string
	Group        string
}

// NewSearchCommand creates a new SearchCommand.
func NewSearchCommand() *SearchCommand {
	return &SearchCommand{}
}

// ParseFlags parses command line flags.
func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the article database file")
	fs.StringVar(&cmd.Text, "text", "", "Substring to match in title, authors or abstract (empty matches all)")
	fs.StringVar(&cmd.Level, "level", articles.FilterAll, "Content level filter (beginner/intermediate/advanced/expert, or All)")
	fs.StringVar(&cmd.Group, "group", articles.FilterAll, "Group id filter (or All)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s search [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search articles. Filters combine with AND.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s search -text networking\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s search -level beginner -group 2f6c...\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the search command.
func (cmd *SearchCommand) Run() error {
	repo, cleanup, err := openArticles(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := repo.Search(cmd.Text, cmd.Level, cmd.Group)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matching articles.")
		return nil
	}

	for _, line := range results {
		fmt.Println(line)
	}
	return nil
}
