package entities

import (
	"time"
)

// ContentLevel values are matched as case-insensitive substrings of an
// article's keywords field. An article may carry several levels at once.
type ContentLevel string

const (
	LevelBeginner     ContentLevel = "beginner"
	LevelIntermediate ContentLevel = "intermediate"
	LevelAdvanced     ContentLevel = "advanced"
	LevelExpert       ContentLevel = "expert"
)

// ContentLevels lists every known level in display order.
var ContentLevels = []ContentLevel{
	LevelBeginner,
	LevelIntermediate,
	LevelAdvanced,
	LevelExpert,
}

// Article is a stored help article. IDs are assigned by the store, are
// monotonically increasing and are never reused. When Encrypted is true the
// Body column holds a cipher token, never plaintext; when false it holds
// plaintext. The two states never mix.
type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Authors    string    `gorm:"size:255" json:"authors"` // "; "-joined author list
	Abstract   string    `gorm:"type:text" json:"abstract"`
	Keywords   string    `gorm:"size:255" json:"keywords"`
	Body       string    `gorm:"type:text" json:"body"`
	References string    `gorm:"type:text" json:"references"`
	Encrypted  bool      `gorm:"default:false" json:"encrypted"`
	CreatedAt  time.Time `json:"created_at"`
}
