// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance over the content store and the
// event log.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/redux-collective/redux-go/internal/content"
	"github.com/redux-collective/redux-go/internal/logging"
)

// Cron expressions for the maintenance jobs.
const (
	// retentionSchedule trims version histories once an hour.
	retentionSchedule = "0 * * * *"
	// pruneSchedule drops old events nightly, off the busy hours.
	pruneSchedule = "30 3 * * *"
)

// Scheduler owns the cron loop for background maintenance.
type Scheduler struct {
	content     *content.Store
	events      *logging.EventLog
	cron        *cron.Cron
	logger      *slog.Logger
	eventMaxAge time.Duration
}

// New creates a scheduler. Events older than eventMaxAge are pruned by the
// nightly job; zero disables pruning.
func New(store *content.Store, events *logging.EventLog, eventMaxAge time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		content:     store,
		events:      events,
		cron:        cron.New(),
		logger:      logger,
		eventMaxAge: eventMaxAge,
	}
}

// Start registers the maintenance jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(retentionSchedule, func() {
		if err := s.RunRetention(context.Background()); err != nil {
			s.logger.Error("retention sweep failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if s.eventMaxAge > 0 {
		if _, err := s.cron.AddFunc(pruneSchedule, func() {
			if err := s.RunEventPrune(context.Background()); err != nil {
				s.logger.Error("event prune failed", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish and stops the loop.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunRetention trims every page's version history to the configured cap.
func (s *Scheduler) RunRetention(ctx context.Context) error {
	evicted, err := s.content.EnforceRetention(ctx)
	if err != nil {
		return err
	}
	if evicted > 0 {
		s.logger.Info("retention sweep evicted versions", "count", evicted)
	}
	return nil
}

// RunEventPrune drops events older than the configured maximum age.
func (s *Scheduler) RunEventPrune(ctx context.Context) error {
	if s.eventMaxAge <= 0 {
		return nil
	}
	pruned, err := s.events.Prune(ctx, time.Now().Add(-s.eventMaxAge))
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.logger.Info("pruned old events", "count", pruned)
	}
	return nil
}
