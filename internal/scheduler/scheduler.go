// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler runs the recurring jobs: daily batch generation and
// weekly cleanup of aged generated posts.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"postforge/internal/generator"
)

// generateTimeout bounds one scheduled batch run.
const generateTimeout = 30 * time.Minute

// Batcher runs batch generation.
type Batcher interface {
	GenerateBatch(ctx context.Context, opts generator.BatchOptions) *generator.BatchResult
}

// Cleaner prunes old generated posts.
type Cleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time, keepNewest int) (int64, error)
}

// Invalidator drops cached post responses after content changes.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Config holds the cron schedules and job parameters.
type Config struct {
	GenerateSchedule string // e.g. "0 6 * * *"
	GenerateCount    int
	CleanupSchedule  string // e.g. "0 4 * * 0"
	RetentionDays    int
	KeepMinPosts     int
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron    *cron.Cron
	cfg     Config
	batch   Batcher
	cleaner Cleaner
	cache   Invalidator // may be nil
}

// New registers both jobs. Invalid cron expressions fail here rather
// than at first trigger. cache may be nil.
func New(cfg Config, batch Batcher, cleaner Cleaner, cache Invalidator) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		cfg:     cfg,
		batch:   batch,
		cleaner: cleaner,
		cache:   cache,
	}

	if _, err := s.cron.AddFunc(cfg.GenerateSchedule, s.runGenerate); err != nil {
		return nil, fmt.Errorf("generate schedule %q: %w", cfg.GenerateSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.CleanupSchedule, s.runCleanup); err != nil {
		return nil, fmt.Errorf("cleanup schedule %q: %w", cfg.CleanupSchedule, err)
	}
	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started",
		"generate", s.cfg.GenerateSchedule,
		"cleanup", s.cfg.CleanupSchedule,
	)
}

// Stop halts the runner and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) runGenerate() {
	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	slog.Info("scheduled generation starting", "count", s.cfg.GenerateCount)
	result := s.batch.GenerateBatch(ctx, generator.BatchOptions{Count: s.cfg.GenerateCount})

	if result.Success > 0 && s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
	slog.Info("scheduled generation finished",
		"success", result.Success,
		"failed", result.Failed,
	)
}

func (s *Scheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.cleaner.DeleteOlderThan(ctx, cutoff, s.cfg.KeepMinPosts)
	if err != nil {
		slog.Error("scheduled cleanup failed", "error", err)
		return
	}

	if deleted > 0 && s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
	slog.Info("scheduled cleanup finished", "deleted", deleted, "cutoff", cutoff)
}
