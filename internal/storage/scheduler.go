package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BackupScheduler takes a backup of a database at a fixed interval.
type BackupScheduler struct {
	db       *DB
	dir      string
	interval time.Duration
	logger   *zap.Logger

	mu           sync.Mutex
	cancel       context.CancelFunc
	done         chan struct{}
	lastBackup   string
	lastError    error
	backupCount  int
	failureCount int
}

// SchedulerStatus is a snapshot of the scheduler's history.
type SchedulerStatus struct {
	Running      bool   `json:"running"`
	LastBackup   string `json:"lastBackup,omitempty"`
	LastError    string `json:"lastError,omitempty"`
	BackupCount  int    `json:"backupCount"`
	FailureCount int    `json:"failureCount"`
}

// NewBackupScheduler creates a scheduler writing into dir every interval.
func NewBackupScheduler(db *DB, dir string, interval time.Duration, logger *zap.Logger) *BackupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupScheduler{
		db:       db,
		dir:      dir,
		interval: interval,
		logger:   logger.Named("backup"),
	}
}

// Start runs the schedule until ctx is done or Stop is called.
func (s *BackupScheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("backup interval must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("scheduler is already running")
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx, s.done)

	s.logger.Info("backup scheduler started", zap.Duration("interval", s.interval), zap.String("dir", s.dir))
	return nil
}

// Stop ends the schedule and waits for an in-flight backup to finish.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *BackupScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce takes one backup now and records the outcome.
func (s *BackupScheduler) RunOnce(ctx context.Context) {
	path, err := s.db.Backup(ctx, s.dir, "")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failureCount++
		s.lastError = err
		s.logger.Warn("scheduled backup failed", zap.Error(err))
		return
	}
	s.backupCount++
	s.lastBackup = path
	s.lastError = nil
	s.logger.Info("scheduled backup written", zap.String("path", path))
}

// Status returns the scheduler's history.
func (s *BackupScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SchedulerStatus{
		Running:      s.cancel != nil,
		LastBackup:   s.lastBackup,
		BackupCount:  s.backupCount,
		FailureCount: s.failureCount,
	}
	if s.lastError != nil {
		st.LastError = s.lastError.Error()
	}
	return st
}
