package config

const (
	// DefaultDatabasePath is the default path for the article database
	DefaultDatabasePath = "./articlevault.db"

	// DefaultBackupDir is the default directory for article backups
	DefaultBackupDir = "./backups"
)
