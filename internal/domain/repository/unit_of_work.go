package repository

import (
	"context"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// Repositories объединяет репозитории одной транзакции.
type Repositories struct {
	KeyDates       KeyDateRepository
	CalendarEvents CalendarEventRepository
	Directions     DirectionRepository
	Policies       PolicyRepository
	Notifications  NotificationRepository
}

// Deadlines возвращает хранилище дедлайнов нужного вида.
func (r Repositories) Deadlines(kind valueobject.DeadlineKind) DeadlineStore {
	if kind == valueobject.DeadlineKindCalendarEvent {
		return r.CalendarEvents
	}
	return r.KeyDates
}

// UnitOfWork выполняет fn атомарно: любая ошибка откатывает все записи.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}
