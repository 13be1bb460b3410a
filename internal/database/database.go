package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkov/articlevault/internal/entities"
)

// Database owns the single store connection and the schema. Construct it once
// at process start and hand it to the repositories; a failure here is fatal.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %v", ErrStore, err)
	}

	err = db.AutoMigrate(
		&entities.Article{},
		&entities.AccessGroup{},
		&entities.GroupMembership{},
		&entities.GroupArticle{},
		&entities.AccessRight{},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to migrate database: %v", ErrStore, err)
	}

	logrus.WithField("path", dbPath).Info("database initialized")

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reset deletes every row from every table, children before parents so link
// rows never outlive what they point at.
func (d *Database) Reset() error {
	models := []interface{}{
		&entities.GroupArticle{},
		&entities.GroupMembership{},
		&entities.AccessGroup{},
		&entities.AccessRight{},
		&entities.Article{},
	}
	for _, model := range models {
		if err := d.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("%w: reset: %v", ErrStore, err)
		}
	}
	return nil
}
