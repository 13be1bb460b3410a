// Package rights provides the unified access-rights table keyed by
// (subject, kind). Subjects are group ids, bare usernames, or the implicit
// per-article subject derived from an article's internal id. Rows here gate
// visibility independently of group memberships.
package rights

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/entities"
)

// Repository handles all access-rights database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new rights repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the rights row for a subject, or ErrNotFound.
func (r *Repository) Get(subject string, kind entities.SubjectKind) (*entities.AccessRight, error) {
	var right entities.AccessRight
	err := r.db.Where("subject = ? AND kind = ?", subject, kind).First(&right).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: rights for %s %q", database.ErrNotFound, kind, subject)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load rights: %v", database.ErrStore, err)
	}
	return &right, nil
}

// SetGroupView grants or revokes view rights for a group subject.
func (r *Repository) SetGroupView(groupID string, on bool) error {
	return r.set(groupID, entities.SubjectGroup, "can_view", on)
}

// SetGroupAdmin grants or revokes admin rights for a group subject.
func (r *Repository) SetGroupAdmin(groupID string, on bool) error {
	return r.set(groupID, entities.SubjectGroup, "can_admin", on)
}

// SetUserView grants or revokes view rights for a username subject.
func (r *Repository) SetUserView(username string, on bool) error {
	return r.set(username, entities.SubjectUser, "can_view", on)
}

// SetUserAdmin grants or revokes admin rights for a username subject.
func (r *Repository) SetUserAdmin(username string, on bool) error {
	return r.set(username, entities.SubjectUser, "can_admin", on)
}

// SetArticleView updates view rights on an article's implicit subject. The
// write is refused when it would leave the row with view and admin equal:
// article subjects must hold exactly one of the two, matching the article's
// encryption state set at creation.
func (r *Repository) SetArticleView(articleID uint, on bool) error {
	return r.set(entities.ArticleSubject(articleID), entities.SubjectArticle, "can_view", on)
}

// SetArticleAdmin updates admin rights on an article's implicit subject,
// under the same mutual-exclusion rule as SetArticleView.
func (r *Repository) SetArticleAdmin(articleID uint, on bool) error {
	return r.set(entities.ArticleSubject(articleID), entities.SubjectArticle, "can_admin", on)
}

// AdminAccounts lists every username holding admin rights in the rights
// table.
func (r *Repository) AdminAccounts() ([]string, error) {
	var usernames []string
	err := r.db.Model(&entities.AccessRight{}).
		Where("kind = ? AND can_admin = ?", entities.SubjectUser, true).
		Order("subject ASC").
		Pluck("subject", &usernames).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list admin accounts: %v", database.ErrStore, err)
	}
	return usernames, nil
}

func (r *Repository) set(subject string, kind entities.SubjectKind, column string, value bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var right entities.AccessRight
		err := tx.Where("subject = ? AND kind = ?", subject, kind).First(&right).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			right = entities.AccessRight{Subject: subject, Kind: kind}
		case err != nil:
			return fmt.Errorf("%w: load rights: %v", database.ErrStore, err)
		}

		switch column {
		case "can_view":
			right.CanView = value
		case "can_admin":
			right.CanAdmin = value
		}

		if kind == entities.SubjectArticle && right.CanView == right.CanAdmin {
			return fmt.Errorf("%w: article rights must hold exactly one of view/admin", database.ErrInvariant)
		}

		if err := tx.Save(&right).Error; err != nil {
			return fmt.Errorf("%w: save rights: %v", database.ErrStore, err)
		}
		return nil
	})
}
