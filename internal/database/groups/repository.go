// Package groups provides database operations for access groups: group
// lifecycle, membership, per-member view/admin rights and the articles linked
// into a group.
package groups

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/entities"
)

// NoPermissionBody replaces an article body for members without view rights.
const NoPermissionBody = "No Permission"

// Decoder turns a cipher token back into plaintext. Satisfied by
// *crypto.Cipher.
type Decoder interface {
	Decode(token string) (string, error)
}

// Membership is one user's standing in a group.
type Membership struct {
	Username string
	Role     string
	CanView  bool
	CanAdmin bool
}

// VisibleArticle is a linked article as seen by a particular member. Body is
// the decoded content for members with view rights and NoPermissionBody for
// everyone else.
type VisibleArticle struct {
	ID    uint
	Title string
	Body  string
}

// Repository handles all access-group database operations.
type Repository struct {
	db      *gorm.DB
	decoder Decoder
}

// NewRepository creates a new groups repository.
func NewRepository(db *gorm.DB, decoder Decoder) *Repository {
	return &Repository{db: db, decoder: decoder}
}

// Create registers a new group under a fresh opaque id. The name must be
// unused.
func (r *Repository) Create(name string, special bool) (*entities.AccessGroup, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: group name is required", database.ErrValidation)
	}

	groupType := entities.GroupTypeGeneral
	if special {
		groupType = entities.GroupTypeSpecial
	}

	group := entities.AccessGroup{
		ID:   uuid.NewString(),
		Name: name,
		Type: groupType,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.AccessGroup
		result := tx.Where("name = ?", name).First(&existing)
		if result.Error == nil {
			return fmt.Errorf("%w: group %q", database.ErrConflict, name)
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: check group name: %v", database.ErrStore, result.Error)
		}
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("%w: create group: %v", database.ErrStore, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// IDByName resolves a group name to its opaque id. Callers implementing
// "create on first use" catch the not-found and call Create.
func (r *Repository) IDByName(name string) (string, error) {
	var group entities.AccessGroup
	err := r.db.Where("name = ?", name).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: group %q", database.ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: resolve group name: %v", database.ErrStore, err)
	}
	return group.ID, nil
}

// AddUser upserts a membership row. View access defaults to on; admin is
// granted exactly when the role is "Instructor" (case-insensitive); it is
// not a caller-settable flag here, only via UpdateAdminRights afterwards.
func (r *Repository) AddUser(groupID, username, role string) error {
	if err := r.requireGroup(groupID); err != nil {
		return err
	}

	membership := entities.GroupMembership{
		GroupID:  groupID,
		Username: username,
		Role:     role,
		CanView:  true,
		CanAdmin: strings.EqualFold(role, entities.RoleInstructor),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "can_view", "can_admin"}),
	}).Create(&membership).Error
	if err != nil {
		return fmt.Errorf("%w: add user to group: %v", database.ErrStore, err)
	}
	return nil
}

// RemoveUser deletes a membership row and reports whether one existed.
//
// Known gap, preserved deliberately: this path does not enforce the
// last-admin invariant, so removing the final admin through membership
// removal is possible. Only UpdateAdminRights guards the invariant.
func (r *Repository) RemoveUser(groupID, username string) (bool, error) {
	result := r.db.Where("group_id = ? AND username = ?", groupID, username).
		Delete(&entities.GroupMembership{})
	if result.Error != nil {
		return false, fmt.Errorf("%w: remove user from group: %v", database.ErrStore, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateViewRights sets a member's view flag.
func (r *Repository) UpdateViewRights(groupID, username string, canView bool) error {
	result := r.db.Model(&entities.GroupMembership{}).
		Where("group_id = ? AND username = ?", groupID, username).
		Update("can_view", canView)
	if result.Error != nil {
		return fmt.Errorf("%w: update view rights: %v", database.ErrStore, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s is not a member of group %s", database.ErrNotFound, username, groupID)
	}
	return nil
}

// UpdateAdminRights sets a member's admin flag. Revoking is refused while the
// group is down to its last admin.
func (r *Repository) UpdateAdminRights(groupID, username string, canAdmin bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if !canAdmin {
			var admins int64
			err := tx.Model(&entities.GroupMembership{}).
				Where("group_id = ? AND can_admin = ?", groupID, true).
				Count(&admins).Error
			if err != nil {
				return fmt.Errorf("%w: count group admins: %v", database.ErrStore, err)
			}
			if admins == 1 {
				return fmt.Errorf("%w: there must be at least one admin in the group", database.ErrInvariant)
			}
		}

		result := tx.Model(&entities.GroupMembership{}).
			Where("group_id = ? AND username = ?", groupID, username).
			Update("can_admin", canAdmin)
		if result.Error != nil {
			return fmt.Errorf("%w: update admin rights: %v", database.ErrStore, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s is not a member of group %s", database.ErrNotFound, username, groupID)
		}
		return nil
	})
}

// AddArticle links an existing article into a group. Re-linking the same
// article is a no-op. viewHint is advisory only: visibility flows through
// the membership and rights tables, never through the link itself.
func (r *Repository) AddArticle(groupID string, articleID uint, viewHint bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.requireGroupTx(tx, groupID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&entities.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: check article: %v", database.ErrStore, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: article %d", database.ErrNotFound, articleID)
		}

		link := entities.GroupArticle{GroupID: groupID, ArticleID: articleID}
		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
		if err != nil {
			return fmt.Errorf("%w: link article to group: %v", database.ErrStore, err)
		}
		return nil
	})
}

// Delete removes a group and cascades to its memberships and article links.
func (r *Repository) Delete(groupID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.AccessGroup{}, "id = ?", groupID)
		if result.Error != nil {
			return fmt.Errorf("%w: delete group: %v", database.ErrStore, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: group %s", database.ErrNotFound, groupID)
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&entities.GroupMembership{}).Error; err != nil {
			return fmt.Errorf("%w: delete group memberships: %v", database.ErrStore, err)
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&entities.GroupArticle{}).Error; err != nil {
			return fmt.Errorf("%w: delete group article links: %v", database.ErrStore, err)
		}
		return nil
	})
}

// Users lists every membership row of a group.
func (r *Repository) Users(groupID string) ([]Membership, error) {
	var rows []entities.GroupMembership
	if err := r.db.Where("group_id = ?", groupID).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list group users: %v", database.ErrStore, err)
	}

	members := make([]Membership, 0, len(rows))
	for _, row := range rows {
		members = append(members, Membership{
			Username: row.Username,
			Role:     row.Role,
			CanView:  row.CanView,
			CanAdmin: row.CanAdmin,
		})
	}
	return members, nil
}

// ArticlesVisibleTo returns the group's linked articles as the given member
// sees them. Members with view rights get the decoded body, members without
// get NoPermissionBody. A user with no membership row sees nothing at all;
// that falls out of the join, there is no separate check.
func (r *Repository) ArticlesVisibleTo(groupID, username string) ([]VisibleArticle, error) {
	var rows []struct {
		ID        uint
		Title     string
		Body      string
		Encrypted bool
		CanView   bool
	}

	err := r.db.Table("articles").
		Select("articles.id, articles.title, articles.body, articles.encrypted, group_memberships.can_view").
		Joins("JOIN group_articles ON articles.id = group_articles.article_id").
		Joins("JOIN group_memberships ON group_articles.group_id = group_memberships.group_id").
		Where("group_articles.group_id = ? AND group_memberships.username = ?", groupID, username).
		Order("articles.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list group articles: %v", database.ErrStore, err)
	}

	visible := make([]VisibleArticle, 0, len(rows))
	for _, row := range rows {
		body := NoPermissionBody
		if row.CanView {
			body = row.Body
			if row.Encrypted {
				body, err = r.decoder.Decode(row.Body)
				if err != nil {
					return nil, fmt.Errorf("%w: decode article %d body: %v", database.ErrStore, row.ID, err)
				}
			}
		}
		visible = append(visible, VisibleArticle{ID: row.ID, Title: row.Title, Body: body})
	}
	return visible, nil
}

func (r *Repository) requireGroup(groupID string) error {
	return r.requireGroupTx(r.db, groupID)
}

func (r *Repository) requireGroupTx(tx *gorm.DB, groupID string) error {
	var count int64
	if err := tx.Model(&entities.AccessGroup{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: check group: %v", database.ErrStore, err)
	}
	if count == 0 {
		return fmt.Errorf("%w: group %s", database.ErrNotFound, groupID)
	}
	return nil
}
