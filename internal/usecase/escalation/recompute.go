package escalation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/goroutine"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// PassSummary содержит итог одного прохода пересчёта по фирме.
type PassSummary struct {
	PassID        uuid.UUID `json:"pass_id"`
	FirmID        uuid.UUID `json:"firm_id"`
	Now           time.Time `json:"now"`
	Evaluated     int       `json:"evaluated"`
	StatusChanged int       `json:"status_changed"`
	Breached      int       `json:"breached"`
	Dispatched    int       `json:"dispatched"`
	AlreadySent   int       `json:"already_sent"`
	NoRecipient   int       `json:"no_recipient"`
	Failed        int       `json:"failed"`
}

type JobConfig struct {
	TenantConcurrency int
	AdminFallback     bool
}

// RecomputationJob пересчитывает статусы открытых дедлайнов фирмы и
// запускает эскалацию на новых уровнях. Проход можно безопасно повторять.
type RecomputationJob struct {
	firms      repository.FirmRepository
	matters    repository.MatterRepository
	repos      repository.Repositories
	policies   *PolicyService
	dispatcher *Dispatcher
	resolver   rules.RecipientResolver
	clock      clock.Clock
	recovery   *goroutine.RecoveryHandler
	cfg        JobConfig

	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

func NewRecomputationJob(
	firms repository.FirmRepository,
	matters repository.MatterRepository,
	repos repository.Repositories,
	policies *PolicyService,
	dispatcher *Dispatcher,
	clk clock.Clock,
	cfg JobConfig,
) *RecomputationJob {
	if cfg.TenantConcurrency <= 0 {
		cfg.TenantConcurrency = 1
	}
	return &RecomputationJob{
		firms:      firms,
		matters:    matters,
		repos:      repos,
		policies:   policies,
		dispatcher: dispatcher,
		resolver:   rules.RecipientResolver{AdminFallback: cfg.AdminFallback},
		clock:      clk,
		recovery:   goroutine.DefaultRecoveryHandler,
		cfg:        cfg,
		running:    make(map[uuid.UUID]struct{}),
	}
}

func (j *RecomputationJob) tryLock(firmID uuid.UUID) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, busy := j.running[firmID]; busy {
		return false
	}
	j.running[firmID] = struct{}{}
	return true
}

func (j *RecomputationJob) unlock(firmID uuid.UUID) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.running, firmID)
}

// RunAll выполняет проход по всем фирмам, параллельно, но не более
// TenantConcurrency одновременно. Фирмы, где проход уже идёт, пропускаются.
func (j *RecomputationJob) RunAll(ctx context.Context) ([]*PassSummary, error) {
	firmIDs, err := j.firms.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		summaries = make([]*PassSummary, 0, len(firmIDs))
	)
	goroutine.ForEachLimited(ctx, j.recovery, j.cfg.TenantConcurrency, firmIDs, func(ctx context.Context, firmID uuid.UUID) {
		summary, err := j.RunPass(ctx, firmID)
		if err != nil {
			if !apperror.IsConflict(err) {
				logger.Log.WithError(err).WithField("firm_id", firmID).Error("Пересчёт фирмы завершился ошибкой")
			}
			return
		}
		mu.Lock()
		summaries = append(summaries, summary)
		mu.Unlock()
	})
	return summaries, nil
}

// RunPass выполняет один проход по фирме. Все дедлайны оцениваются относительно
// одного момента now. Ошибка по отдельному дедлайну не прерывает проход.
func (j *RecomputationJob) RunPass(ctx context.Context, firmID uuid.UUID) (*PassSummary, error) {
	if !j.tryLock(firmID) {
		return nil, apperror.ErrPassInProgress
	}
	defer j.unlock(firmID)

	summary := &PassSummary{PassID: uuid.New(), FirmID: firmID, Now: j.clock.Now()}
	log := logger.Log.WithFields(logrus.Fields{"firm_id": firmID, "pass_id": summary.PassID})

	policies, err := j.policies.Effective(ctx, firmID)
	if err != nil {
		return nil, err
	}

	teams := make(map[uuid.UUID]*entity.MatterTeam)
	for _, kind := range []valueobject.DeadlineKind{valueobject.DeadlineKindKeyDate, valueobject.DeadlineKindCalendarEvent} {
		store := j.repos.Deadlines(kind)
		deadlines, err := store.ListOpenDeadlines(ctx, firmID)
		if err != nil {
			log.WithError(err).WithField("kind", kind).Error("Не удалось получить открытые дедлайны")
			summary.Failed++
			continue
		}

		for i := range deadlines {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			dl := deadlines[i]
			summary.Evaluated++
			if err := j.process(ctx, store, &dl, policies, teams, summary, log); err != nil {
				summary.Failed++
				log.WithError(err).WithFields(logrus.Fields{
					"deadline_id": dl.ID,
					"kind":        dl.Kind,
				}).Error("Не удалось обработать дедлайн")
			}
		}
	}

	log.WithFields(logrus.Fields{
		"evaluated":      summary.Evaluated,
		"status_changed": summary.StatusChanged,
		"breached":       summary.Breached,
		"dispatched":     summary.Dispatched,
		"already_sent":   summary.AlreadySent,
		"no_recipient":   summary.NoRecipient,
		"failed":         summary.Failed,
	}).Info("Пересчёт сроков завершён")

	return summary, nil
}

func (j *RecomputationJob) process(
	ctx context.Context,
	store repository.DeadlineStore,
	dl *entity.Deadline,
	policies []entity.EscalationPolicy,
	teams map[uuid.UUID]*entity.MatterTeam,
	summary *PassSummary,
	log *logrus.Entry,
) error {
	now := summary.Now
	previous := dl.Status
	status := rules.Classify(dl.DueAt, dl.CompletedAt, now)
	changed, breached := dl.ApplyStatus(status, now)

	if dl.Kind == valueobject.DeadlineKindCalendarEvent {
		changed = previous.IsPastDue() != status.IsPastDue()
		breached = false
	}
	if changed || breached {
		if err := store.SaveEvaluation(ctx, dl); err != nil {
			return err
		}
	}
	if changed {
		summary.StatusChanged++
	}
	if breached {
		summary.Breached++
	}

	policy, ok := rules.ResolveActiveTier(dl.DueAt, now, policies)
	if !ok || !rules.IsMoreUrgent(policy.Tier, dl.EscalatedTier, policies) {
		return nil
	}

	team, err := j.team(ctx, dl.FirmID, dl.MatterID, teams)
	if err != nil {
		return err
	}
	recipient, ok := j.resolver.Resolve(policy.EscalateTo, team, dl.OwnerID)
	if !ok {
		summary.NoRecipient++
		log.WithFields(logrus.Fields{
			"deadline_id": dl.ID,
			"kind":        dl.Kind,
			"tier":        policy.Tier,
			"target":      policy.EscalateTo,
		}).Warn("Нет адресата для эскалации")
		return nil
	}

	result, err := j.dispatcher.Dispatch(ctx, *dl, policy, recipient, now)
	if err != nil {
		return err
	}
	if result.AlreadySent {
		summary.AlreadySent++
	} else {
		summary.Dispatched++
	}
	return nil
}

func (j *RecomputationJob) team(ctx context.Context, firmID, matterID uuid.UUID, cache map[uuid.UUID]*entity.MatterTeam) (*entity.MatterTeam, error) {
	if team, ok := cache[matterID]; ok {
		return team, nil
	}
	team, err := j.matters.FindTeam(ctx, firmID, matterID)
	if apperror.IsNotFound(err) {
		team, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[matterID] = team
	return team, nil
}
