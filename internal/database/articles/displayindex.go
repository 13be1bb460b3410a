package articles

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/entities"
)

// resolveDisplayID maps a 1-based display id onto the internal article id it
// currently denotes. The mapping is re-derived on every call by walking the
// surviving internal ids in ascending order; nothing is persisted. This keeps
// the numbering gap-free at the cost of display ids shifting downward after
// a deletion, which is the intended trade-off.
func (r *Repository) resolveDisplayID(tx *gorm.DB, displayID int) (uint, error) {
	if displayID < 1 {
		return 0, fmt.Errorf("%w: display id must be positive, got %d", database.ErrValidation, displayID)
	}

	var ids []uint
	if err := tx.Model(&entities.Article{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("%w: enumerate article ids: %v", database.ErrStore, err)
	}

	if displayID > len(ids) {
		return 0, fmt.Errorf("%w: no article at display id %d", database.ErrNotFound, displayID)
	}
	return ids[displayID-1], nil
}
