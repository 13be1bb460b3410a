package entities

import (
	"fmt"
	"time"
)

type GroupType string

const (
	GroupTypeGeneral GroupType = "General"
	GroupTypeSpecial GroupType = "Special"
)

// RoleInstructor is the one role label with built-in meaning: adding a user
// with this role (case-insensitive) grants admin rights automatically.
const RoleInstructor = "Instructor"

// AccessGroup is a named access group. The ID is an opaque UUID generated at
// creation and immutable afterwards; the name is unique and human-chosen.
type AccessGroup struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Type      GroupType `gorm:"size:50;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMembership relates a user to a group. A user has at most one row per
// group (composite primary key).
type GroupMembership struct {
	GroupID   string    `gorm:"primaryKey;size:36" json:"group_id"`
	Username  string    `gorm:"primaryKey;size:255" json:"username"`
	Role      string    `gorm:"size:50" json:"role"`
	CanView   bool      `gorm:"default:false" json:"can_view"`
	CanAdmin  bool      `gorm:"default:false" json:"can_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupArticle links an article into a group. The article must already exist
// when the link is created.
type GroupArticle struct {
	GroupID   string `gorm:"primaryKey;size:36" json:"group_id"`
	ArticleID uint   `gorm:"primaryKey" json:"article_id"`
}

// SubjectKind tags what an AccessRight subject refers to.
type SubjectKind string

const (
	SubjectGroup   SubjectKind = "group"   // an AccessGroup id
	SubjectArticle SubjectKind = "article" // the implicit per-article subject
	SubjectUser    SubjectKind = "user"    // a bare username
)

// AccessRight is the unified rights table: one row per (subject, kind) pair.
// Article subjects carry the encryption gate: an encrypted article's row has
// admin on and view off, a plaintext article's the reverse.
type AccessRight struct {
	Subject   string      `gorm:"primaryKey;size:255" json:"subject"`
	Kind      SubjectKind `gorm:"primaryKey;size:20" json:"kind"`
	CanView   bool        `gorm:"default:false" json:"can_view"`
	CanAdmin  bool        `gorm:"default:false" json:"can_admin"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ArticleSubject derives the implicit per-article rights subject for an
// article id.
func ArticleSubject(articleID uint) string {
	return fmt.Sprintf("article-%d", articleID)
}
