package articles

import (
	"fmt"
	"strings"

	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/entities"
)

// FilterAll is the sentinel that disables the level or group filter.
const FilterAll = "All"

// Search returns formatted result lines for articles matching all supplied
// filters. A non-empty text matches title, authors or abstract
// (case-insensitive substring); a level other than "All" must appear in the
// keywords; a group other than "All" restricts to articles linked into that
// group. Each result carries a 1-based sequence number assigned at search
// time, independent of display ids.
func (r *Repository) Search(text, level, groupID string) ([]string, error) {
	query := r.db.Model(&entities.Article{}).Order("id ASC")

	if text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(authors) LIKE ? OR LOWER(abstract) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if !strings.EqualFold(level, FilterAll) {
		query = query.Where("LOWER(keywords) LIKE ?", "%"+strings.ToLower(level)+"%")
	}
	if !strings.EqualFold(groupID, FilterAll) {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&entities.GroupArticle{}).Select("article_id").Where("group_id = ?", groupID),
		)
	}

	var rows []entities.Article
	if err := query.Select("id", "title", "authors", "abstract").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: search articles: %v", database.ErrStore, err)
	}

	results := make([]string, 0, len(rows))
	for i, row := range rows {
		results = append(results, fmt.Sprintf("Seq: %d, Title: %s, Authors: %s, Abstract: %s",
			i+1, row.Title, row.Authors, row.Abstract))
	}
	return results, nil
}

// LevelStats counts how many of the requested articles mention each content
// level in their keywords. An article counts toward every level it mentions.
type LevelStats struct {
	Beginner     int
	Intermediate int
	Advanced     int
	Expert       int

	// Empty is set when there was nothing to analyze.
	Empty bool
}

func (s LevelStats) String() string {
	if s.Empty {
		return "No articles to analyze."
	}
	return fmt.Sprintf("Beginner: %d, Intermediate: %d, Advanced: %d, Expert: %d",
		s.Beginner, s.Intermediate, s.Advanced, s.Expert)
}

// LevelStatistics computes level counts over the given internal article ids.
func (r *Repository) LevelStatistics(ids []uint) (LevelStats, error) {
	if len(ids) == 0 {
		return LevelStats{Empty: true}, nil
	}

	var keywords []string
	if err := r.db.Model(&entities.Article{}).Where("id IN ?", ids).Pluck("keywords", &keywords).Error; err != nil {
		return LevelStats{}, fmt.Errorf("%w: load keywords: %v", database.ErrStore, err)
	}

	var stats LevelStats
	for _, kw := range keywords {
		lowered := strings.ToLower(kw)
		if strings.Contains(lowered, string(entities.LevelBeginner)) {
			stats.Beginner++
		}
		if strings.Contains(lowered, string(entities.LevelIntermediate)) {
			stats.Intermediate++
		}
		if strings.Contains(lowered, string(entities.LevelAdvanced)) {
			stats.Advanced++
		}
		if strings.Contains(lowered, string(entities.LevelExpert)) {
			stats.Expert++
		}
	}
	return stats, nil
}
