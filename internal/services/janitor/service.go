package janitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// ExpiredArtifacts deletes artifacts past their expiry
type ExpiredArtifacts interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// WorkspaceSweeper removes request workspaces older than maxAge
type WorkspaceSweeper interface {
	Sweep(maxAge time.Duration) (int, error)
}

// GarbageCollector reclaims storage space
type GarbageCollector interface {
	RunGC() error
}

// Report summarises one sweep
type Report struct {
	ArtifactsDeleted  int
	WorkspacesRemoved int
	Errors            []error
}

// Service periodically removes expired artifacts and abandoned workspaces
type Service struct {
	artifacts  ExpiredArtifacts
	workspaces WorkspaceSweeper
	gc         GarbageCollector
	maxAge     time.Duration
	cron       *cron.Cron
	logger     arbor.ILogger
	mu         sync.Mutex // Prevents overlapping sweeps
	running    bool
	lastRun    *time.Time
}

// NewService creates a new janitor service. gc may be nil.
func NewService(artifacts ExpiredArtifacts, workspaces WorkspaceSweeper, gc GarbageCollector, maxAge time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		artifacts:  artifacts,
		workspaces: workspaces,
		gc:         gc,
		maxAge:     maxAge,
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start registers the sweep on schedule and starts the cron runner
func (s *Service) Start(schedule string) error {
	if s.running {
		return fmt.Errorf("janitor already running")
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to add janitor job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", schedule).
		Str("workspace_max_age", s.maxAge.String()).
		Msg("Janitor started")
	return nil
}

// Stop halts the cron runner and waits for a sweep in progress
func (s *Service) Stop() {
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("Janitor stopped")
}

// IsRunning reports whether the scheduled sweep is active
func (s *Service) IsRunning() bool {
	return s.running
}

// LastRun returns the time the last sweep finished, or nil
func (s *Service) LastRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// RunOnce performs a single sweep. Failures in one step do not skip the others.
func (s *Service) RunOnce(ctx context.Context) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report Report

	if s.artifacts != nil {
		deleted, err := s.artifacts.DeleteExpired(ctx)
		report.ArtifactsDeleted = deleted
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to delete expired artifacts")
			report.Errors = append(report.Errors, err)
		}
	}

	if s.workspaces != nil {
		removed, err := s.workspaces.Sweep(s.maxAge)
		report.WorkspacesRemoved = removed
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to sweep workspaces")
			report.Errors = append(report.Errors, err)
		}
	}

	if s.gc != nil {
		if err := s.gc.RunGC(); err != nil {
			s.logger.Warn().Err(err).Msg("Storage garbage collection failed")
			report.Errors = append(report.Errors, err)
		}
	}

	now := time.Now()
	s.lastRun = &now

	if report.ArtifactsDeleted > 0 || report.WorkspacesRemoved > 0 {
		s.logger.Info().
			Int("artifacts_deleted", report.ArtifactsDeleted).
			Int("workspaces_removed", report.WorkspacesRemoved).
			Msg("Janitor sweep completed")
	} else {
		s.logger.Debug().Msg("Janitor sweep found nothing to remove")
	}

	return report
}
