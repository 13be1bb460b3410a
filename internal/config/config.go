package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Content
		Backup
		Global
	}

	Database struct {
		Path string
	}
	Content struct {
		Passphrase string // Key material for the article body cipher
	}
	Backup struct {
		Dir             string
		ScheduleEnabled bool
		Schedule        string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("content_passphrase", "")
	v.SetDefault("backup_dir", DefaultBackupDir)
	v.SetDefault("backup_schedule_enabled", false)
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	return &Config{
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Content: Content{
			Passphrase: v.GetString("CONTENT_PASSPHRASE"),
		},
		Backup: Backup{
			Dir:             v.GetString("BACKUP_DIR"),
			ScheduleEnabled: v.GetBool("BACKUP_SCHEDULE_ENABLED"),
			Schedule:        v.GetString("BACKUP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
