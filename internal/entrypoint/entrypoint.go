// Package entrypoint wires configuration, store, cipher and scheduler
// together and runs the long-lived process.
package entrypoint

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avolkov/articlevault/internal/config"
	"github.com/avolkov/articlevault/internal/crypto"
	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/database/articles"
	"github.com/avolkov/articlevault/internal/scheduler"
)

// Run starts the daemon: opens the store, starts the backup scheduler and
// blocks until a termination signal. A store failure here is fatal: the
// process must not come up without a working schema.
func Run(cfg *config.Config, version string) {
	logrus.WithField("version", version).Info("articlevault starting")

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer db.Close()

	var decoder articles.Decoder = crypto.Disabled{}
	if cfg.Content.Passphrase != "" {
		cipher, err := crypto.NewCipherFromPassphrase(cfg.Content.Passphrase)
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialize content cipher")
		}
		decoder = cipher
	} else {
		logrus.Warn("CONTENT_PASSPHRASE not set; encrypted article bodies will not be readable")
	}

	repo := articles.NewRepository(db.DB, decoder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backups := scheduler.NewBackupScheduler(repo, cfg.Backup)
	if err := backups.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to start backup scheduler")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	cancel()

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	done := make(chan struct{})
	go func() {
		backups.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		logrus.Warn("shutdown timeout exceeded, exiting anyway")
	}
}
