// Package scheduler запускает пересчёт сроков по расписанию cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
)

// Runner выполняет один проход пересчёта по всем фирмам.
type Runner interface {
	RunAll(ctx context.Context) ([]*escalation.PassSummary, error)
}

type Config struct {
	Spec     string
	Timeout  time.Duration
	Location *time.Location
}

type RecomputeScheduler struct {
	engine *cron.Cron
	runner Runner
	cfg    Config
}

func New(runner Runner, cfg Config) *RecomputeScheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	cronLog := cron.PrintfLogger(logger.Log)
	return &RecomputeScheduler{
		engine: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		runner: runner,
		cfg:    cfg,
	}
}

// Start регистрирует задание и запускает планировщик в фоне.
func (s *RecomputeScheduler) Start() error {
	if _, err := s.engine.AddFunc(s.cfg.Spec, s.tick); err != nil {
		return fmt.Errorf("scheduler: некорректное расписание %q: %w", s.cfg.Spec, err)
	}
	s.engine.Start()
	logger.Log.WithFields(logrus.Fields{"spec": s.cfg.Spec}).Info("Планировщик пересчёта запущен")
	return nil
}

// Stop останавливает планировщик и ждёт текущий проход не дольше ctx.
func (s *RecomputeScheduler) Stop(ctx context.Context) {
	done := s.engine.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Log.Warn("Планировщик остановлен, не дождавшись завершения прохода")
	}
}

func (s *RecomputeScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// RunOnce выполняет проход синхронно и журналирует его итог.
func (s *RecomputeScheduler) RunOnce(ctx context.Context) ([]*escalation.PassSummary, error) {
	started := time.Now()
	summaries, err := s.runner.RunAll(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Пересчёт сроков не выполнен")
		return nil, err
	}

	var dispatched, failed int
	for _, sm := range summaries {
		dispatched += sm.Dispatched
		failed += sm.Failed
	}
	logger.Log.WithFields(logrus.Fields{
		"firms":      len(summaries),
		"dispatched": dispatched,
		"failed":     failed,
		"took":       time.Since(started).String(),
	}).Info("Плановый пересчёт завершён")
	return summaries, nil
}
