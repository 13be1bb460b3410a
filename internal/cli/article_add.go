package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/avolkov/articlevault/internal/config"
)

// AddCommand stores a new article. With -encrypt the body is sealed with the
// content cipher before it touches the store.
type AddCommand struct {
	DatabasePath string
	Title        string
	Authors      string
	Abstract     string
	Keywords     string
	Body         string
	References   string
	Encrypt      bool
}

// NewAddCommand creates a new AddCommand.
func NewAddCommand() *AddCommand {
	return &AddCommand{}
}

// ParseFlags parses command line flags.
func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the article database file")
	fs.StringVar(&cmd.Title, "title", "", "Article title (required)")
	fs.StringVar(&cmd.Authors, "authors", "", "Semicolon-separated author list (required)")
	fs.StringVar(&cmd.Abstract, "abstract", "", "Article abstract")
	fs.StringVar(&cmd.Keywords, "keywords", "", "Keywords, including the level keyword")
	fs.StringVar(&cmd.Body, "body", "", "Article body (required)")
	fs.StringVar(&cmd.References, "references", "", "Article references")
	fs.BoolVar(&cmd.Encrypt, "encrypt", false, "Seal the body with the content cipher")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Store a new article.\n\n")
		fmt.Fprintf(os.Stderr, "With -encrypt the body is sealed before storage; reading it back\n")
		fmt.Fprintf(os.Stderr, "requires the same CONTENT_PASSPHRASE.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the add command.
func (cmd *AddCommand) Run() error {
	repo, cleanup, err := openArticles(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer cleanup()

	body := cmd.Body
	if cmd.Encrypt {
		codec, err := contentCodec()
		if err != nil {
			return err
		}
		body, err = codec.Encode(cmd.Body)
		if err != nil {
			return fmt.Errorf("failed to seal article body: %w", err)
		}
	}

	authors := splitAuthorsFlag(cmd.Authors)
	id, err := repo.Add(cmd.Title, authors, cmd.Abstract, cmd.Keywords, body, cmd.References, cmd.Encrypt)
	if err != nil {
		return err
	}

	fmt.Printf("Stored article %d\n", id)
	return nil
}

func splitAuthorsFlag(raw string) []string {
	parts := strings.Split(raw, ";")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			authors = append(authors, trimmed)
		}
	}
	return authors
}
