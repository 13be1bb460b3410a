// Package articles provides database operations for the article repository:
// create, list, view, delete, search, statistics and backup/restore.
//
// Articles are addressed by display id at this boundary. Display ids are
// derived fresh on every call by numbering the surviving articles 1..N in
// internal-id order, so they shift after a deletion; callers must not cache
// them across mutations.
package articles

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/entities"
)

const authorSeparator = "; "

// Decoder turns a cipher token back into plaintext. Satisfied by
// *crypto.Cipher.
type Decoder interface {
	Decode(token string) (string, error)
}

// Summary is one row of a listing: display id plus headline fields.
type Summary struct {
	DisplayID int
	Title     string
	Authors   []string
}

// Detail is the full article record as shown to a reader. Body is always
// plaintext here; encrypted bodies are decoded before they leave the
// repository.
type Detail struct {
	DisplayID  int
	Title      string
	Authors    []string
	Abstract   string
	Keywords   string
	Body       string
	References string
	Encrypted  bool
}

// Repository handles all article database operations.
type Repository struct {
	db      *gorm.DB
	decoder Decoder
}

// NewRepository creates a new articles repository.
func NewRepository(db *gorm.DB, decoder Decoder) *Repository {
	return &Repository{db: db, decoder: decoder}
}

// Add stores a new article and returns its internal id. Title, authors and
// body are required. When encrypted is true the body must already be a cipher
// token; it is persisted verbatim. The article's implicit rights row is
// seeded in the same transaction: admin-only for encrypted content,
// view-only for plaintext.
func (r *Repository) Add(title string, authors []string, abstract, keywords, body, references string, encrypted bool) (uint, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", database.ErrValidation)
	}
	if !hasAuthor(authors) {
		return 0, fmt.Errorf("%w: at least one author is required", database.ErrValidation)
	}
	if strings.TrimSpace(body) == "" {
		return 0, fmt.Errorf("%w: body is required", database.ErrValidation)
	}

	article := entities.Article{
		Title:      title,
		Authors:    strings.Join(authors, authorSeparator),
		Abstract:   abstract,
		Keywords:   keywords,
		Body:       body,
		References: references,
		Encrypted:  encrypted,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article).Error; err != nil {
			return fmt.Errorf("%w: create article: %v", database.ErrStore, err)
		}
		right := entities.AccessRight{
			Subject:  entities.ArticleSubject(article.ID),
			Kind:     entities.SubjectArticle,
			CanView:  !encrypted,
			CanAdmin: encrypted,
		}
		if err := tx.Create(&right).Error; err != nil {
			return fmt.Errorf("%w: seed article rights: %v", database.ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return article.ID, nil
}

// List returns every article in internal-id order, numbered 1..N. The result
// is recomputed on each call; no cursor state is retained.
func (r *Repository) List() ([]Summary, error) {
	var rows []entities.Article
	if err := r.db.Select("id", "title", "authors").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list articles: %v", database.ErrStore, err)
	}

	summaries := make([]Summary, 0, len(rows))
	for i, row := range rows {
		summaries = append(summaries, Summary{
			DisplayID: i + 1,
			Title:     row.Title,
			Authors:   splitAuthors(row.Authors),
		})
	}
	return summaries, nil
}

// View returns the full record behind a display id, with the body decoded
// transparently if the article is encrypted.
func (r *Repository) View(displayID int) (*Detail, error) {
	internalID, err := r.resolveDisplayID(r.db, displayID)
	if err != nil {
		return nil, err
	}

	var article entities.Article
	if err := r.db.First(&article, internalID).Error; err != nil {
		return nil, fmt.Errorf("%w: load article %d: %v", database.ErrStore, internalID, err)
	}

	body := article.Body
	if article.Encrypted {
		body, err = r.decoder.Decode(article.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: decode article %d body: %v", database.ErrStore, internalID, err)
		}
	}

	return &Detail{
		DisplayID:  displayID,
		Title:      article.Title,
		Authors:    splitAuthors(article.Authors),
		Abstract:   article.Abstract,
		Keywords:   article.Keywords,
		Body:       body,
		References: article.References,
		Encrypted:  article.Encrypted,
	}, nil
}

// Delete removes the article behind a display id together with its group
// links and its implicit rights row, all in one transaction.
func (r *Repository) Delete(displayID int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		internalID, err := r.resolveDisplayID(tx, displayID)
		if err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", internalID).Delete(&entities.GroupArticle{}).Error; err != nil {
			return fmt.Errorf("%w: unlink article %d: %v", database.ErrStore, internalID, err)
		}
		if err := tx.Where("subject = ? AND kind = ?", entities.ArticleSubject(internalID), entities.SubjectArticle).
			Delete(&entities.AccessRight{}).Error; err != nil {
			return fmt.Errorf("%w: drop article %d rights: %v", database.ErrStore, internalID, err)
		}
		if err := tx.Delete(&entities.Article{}, internalID).Error; err != nil {
			return fmt.Errorf("%w: delete article %d: %v", database.ErrStore, internalID, err)
		}
		return nil
	})
}

func hasAuthor(authors []string) bool {
	for _, a := range authors {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

func splitAuthors(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, authorSeparator)
}
