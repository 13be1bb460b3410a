// Package scheduler runs periodic maintenance jobs, currently the scheduled
// article backups.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/avolkov/articlevault/internal/config"
	"github.com/avolkov/articlevault/internal/database/articles"
)

// BackupScheduler writes timestamped article backups on a cron schedule.
type BackupScheduler struct {
	repo *articles.Repository
	cfg  config.Backup

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a new scheduler instance.
func NewBackupScheduler(repo *articles.Repository, cfg config.Backup) *BackupScheduler {
	return &BackupScheduler{
		repo: repo,
		cfg:  cfg,
		cron: cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if scheduled backups are enabled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.ScheduleEnabled {
		logrus.Info("backup scheduler: disabled")
		return nil
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", s.cfg.Dir, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule '%s': %w", s.cfg.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	logrus.WithFields(logrus.Fields{
		"schedule": s.cfg.Schedule,
		"dir":      s.cfg.Dir,
	}).Info("backup scheduler: started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running backup to
// finish.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false

	logrus.Info("backup scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *BackupScheduler) runBackup() {
	path := filepath.Join(s.cfg.Dir, fmt.Sprintf("articles-%s.ndjson", time.Now().Format("20060102-150405")))
	if err := s.repo.Backup(path); err != nil {
		logrus.WithError(err).Error("backup scheduler: backup failed")
		return
	}
	logrus.WithField("path", path).Info("backup scheduler: backup complete")
}
