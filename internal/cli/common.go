package cli

import (
	"fmt"

	"github.com/avolkov/articlevault/internal/config"
	"github.com/avolkov/articlevault/internal/crypto"
	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/database/articles"
)

// Codec is both directions of the content cipher. Satisfied by
// *crypto.Cipher and by crypto.Disabled.
type Codec interface {
	Encode(plaintext string) (string, error)
	Decode(token string) (string, error)
}

// contentCodec builds the content cipher from the environment. Without a
// passphrase it returns the disabled stand-in: operations on encrypted
// bodies fail and everything else works.
func contentCodec() (Codec, error) {
	cfg := config.NewConfig()
	if cfg.Content.Passphrase == "" {
		return crypto.Disabled{}, nil
	}
	cipher, err := crypto.NewCipherFromPassphrase(cfg.Content.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return cipher, nil
}

// openArticles opens the store at dbPath and returns a ready articles
// repository plus a cleanup closure.
func openArticles(dbPath string) (*articles.Repository, func(), error) {
	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	codec, err := contentCodec()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() { db.Close() }
	return articles.NewRepository(db.DB, codec), cleanup, nil
}
