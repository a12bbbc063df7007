// Package app собирает usecase-слой и HTTP-хэндлеры поверх выбранного хранилища.
package app

import (
	"time"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/handler"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/calendar"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/direction"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/keydate"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/notification"
)

// Storage реализуют memory.Store и persistence.Postgres.
type Storage interface {
	repository.UnitOfWork
	repository.MatterRepository
	repository.FirmRepository
	Repositories() repository.Repositories
}

type Options struct {
	Clock          clock.Clock
	Deliverer      notification.Deliverer
	Cache          *service.CacheService
	PolicyCacheTTL time.Duration
	Templates      []escalation.PolicyTemplate
	Job            escalation.JobConfig
}

type App struct {
	Storage   Storage
	Clock     clock.Clock
	Deliverer notification.Deliverer
	Policies  *escalation.PolicyService
	Job       *escalation.RecomputationJob
}

func New(store Storage, opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Deliverer == nil {
		opts.Deliverer = notification.Discard
	}
	if len(opts.Templates) == 0 {
		opts.Templates = escalation.BuiltinDefaults()
	}

	repos := store.Repositories()
	policies := escalation.NewPolicyService(repos.Policies, opts.Cache, opts.PolicyCacheTTL, opts.Clock, opts.Templates)
	dispatcher := escalation.NewDispatcher(store, opts.Deliverer)

	return &App{
		Storage:   store,
		Clock:     opts.Clock,
		Deliverer: opts.Deliverer,
		Policies:  policies,
		Job:       escalation.NewRecomputationJob(store, store, repos, policies, dispatcher, opts.Clock, opts.Job),
	}
}

func (a *App) KeyDateHandler() *handler.KeyDateHandler {
	repo := a.Storage.Repositories().KeyDates
	return handler.NewKeyDateHandler(
		keydate.NewCreateKeyDateUseCase(repo, a.Storage, a.Clock),
		keydate.NewUpdateKeyDateUseCase(repo, a.Clock),
		keydate.NewCompleteKeyDateUseCase(repo, a.Clock),
		keydate.NewDeleteKeyDateUseCase(repo),
		keydate.NewGetKeyDateUseCase(repo, a.Clock),
		keydate.NewListKeyDatesUseCase(repo, a.Clock),
		keydate.NewExportICSUseCase(repo, a.Clock),
		a.Clock,
	)
}

func (a *App) DirectionHandler() *handler.DirectionHandler {
	repos := a.Storage.Repositories()
	return handler.NewDirectionHandler(
		direction.NewCreateDirectionUseCase(repos.Directions, a.Storage, a.Clock),
		direction.NewGetDirectionUseCase(repos.Directions),
		direction.NewListDirectionsUseCase(repos.Directions),
		direction.NewUpdateDirectionUseCase(a.Storage, a.Clock),
		direction.NewSubmitDirectionUseCase(repos.Directions, a.Clock),
		direction.NewVacateDirectionUseCase(a.Storage, a.Clock),
		direction.NewConfirmDirectionUseCase(a.Storage, a.Storage, repos.Notifications, a.Deliverer, a.Clock),
	)
}

func (a *App) CalendarHandler() *handler.CalendarHandler {
	repo := a.Storage.Repositories().CalendarEvents
	return handler.NewCalendarHandler(
		calendar.NewListCalendarUseCase(repo, a.Clock),
		calendar.NewCreateDeadlineUseCase(repo, a.Storage, a.Clock),
		calendar.NewCompleteEventUseCase(repo, a.Clock),
	)
}

func (a *App) NotificationHandler() *handler.NotificationHandler {
	repo := a.Storage.Repositories().Notifications
	return handler.NewNotificationHandler(
		notification.NewListNotificationsUseCase(repo),
		notification.NewUnreadCountUseCase(repo),
		notification.NewMarkReadUseCase(repo, a.Clock),
		notification.NewMarkAllReadUseCase(repo, a.Clock),
		notification.NewAcknowledgeUseCase(repo, a.Clock),
	)
}

func (a *App) PolicyHandler() *handler.PolicyHandler {
	return handler.NewPolicyHandler(a.Policies)
}

func (a *App) EscalationHandler() *handler.EscalationHandler {
	return handler.NewEscalationHandler(a.Job)
}
