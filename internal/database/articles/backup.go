package articles

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/entities"
)

// Backup exports the full articles table to path as newline-delimited JSON,
// one article per line, in internal-id order. Bodies are written exactly as
// stored: cipher tokens stay tokens.
func (r *Repository) Backup(path string) error {
	var rows []entities.Article
	if err := r.db.Order("id ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("%w: read articles for backup: %v", database.ErrStore, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			return fmt.Errorf("failed to write backup record: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush backup file: %w", err)
	}

	logrus.WithFields(logrus.Fields{"path": path, "articles": len(rows)}).Info("backup written")
	return nil
}

// Restore drops the articles table and reloads it from a file written by
// Backup. Internal ids are restored verbatim. Group links and memberships
// referencing articles absent from the backup are left dangling; reconciling
// them is the caller's responsibility.
func (r *Repository) Restore(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	var restored []entities.Article
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var article entities.Article
		if err := json.Unmarshal(line, &article); err != nil {
			return fmt.Errorf("failed to parse backup record: %w", err)
		}
		restored = append(restored, article)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Migrator().DropTable(&entities.Article{}); err != nil {
			return fmt.Errorf("%w: drop articles table: %v", database.ErrStore, err)
		}
		if err := tx.Migrator().CreateTable(&entities.Article{}); err != nil {
			return fmt.Errorf("%w: recreate articles table: %v", database.ErrStore, err)
		}
		for _, article := range restored {
			if err := tx.Create(&article).Error; err != nil {
				return fmt.Errorf("%w: restore article %d: %v", database.ErrStore, article.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"path": path, "articles": len(restored)}).Info("backup restored")
	return nil
}
