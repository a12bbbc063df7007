package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type calendarEventRepo struct {
	v *view
}

func (r *calendarEventRepo) Create(_ context.Context, ev *entity.CalendarEvent) error {
	item := *ev
	return r.v.write(func(st *state) error {
		if item.DirectionID != nil {
			for _, existing := range st.events {
				if existing.DirectionID != nil && *existing.DirectionID == *item.DirectionID {
					return apperror.ErrDeadlineExists
				}
			}
		}
		st.events[item.ID] = item
		return nil
	})
}

func (r *calendarEventRepo) Update(_ context.Context, ev *entity.CalendarEvent) error {
	item := *ev
	return r.v.write(func(st *state) error {
		if _, ok := st.events[item.ID]; !ok {
			return apperror.ErrCalendarEventNotFound
		}
		st.events[item.ID] = item
		return nil
	})
}

func (r *calendarEventRepo) FindByID(_ context.Context, firmID, id uuid.UUID) (*entity.CalendarEvent, error) {
	st, done := r.v.read()
	defer done()
	ev, ok := st.events[id]
	if !ok || ev.FirmID != firmID {
		return nil, apperror.ErrCalendarEventNotFound
	}
	ev.MatterReference, ev.MatterTitle = st.matterLabels(ev.MatterID)
	return &ev, nil
}

func (r *calendarEventRepo) FindByDirectionID(_ context.Context, directionID uuid.UUID) (*entity.CalendarEvent, error) {
	st, done := r.v.read()
	defer done()
	for _, ev := range st.events {
		if ev.DirectionID != nil && *ev.DirectionID == directionID {
			return &ev, nil
		}
	}
	return nil, apperror.ErrCalendarEventNotFound
}

func (r *calendarEventRepo) List(_ context.Context, filter repository.CalendarFilter) ([]*entity.CalendarEvent, error) {
	st, done := r.v.read()
	defer done()

	out := make([]*entity.CalendarEvent, 0)
	for _, ev := range st.events {
		if ev.FirmID != filter.FirmID {
			continue
		}
		if filter.MatterID != nil && ev.MatterID != *filter.MatterID {
			continue
		}
		if filter.DeadlinesOnly && !ev.IsDeadline {
			continue
		}
		if filter.From != nil && ev.StartAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && ev.StartAt.After(*filter.To) {
			continue
		}
		item := ev
		item.MatterReference, item.MatterTitle = st.matterLabels(ev.MatterID)
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *calendarEventRepo) ListOpenDeadlines(_ context.Context, firmID uuid.UUID) ([]entity.Deadline, error) {
	st, done := r.v.read()
	defer done()

	out := make([]entity.Deadline, 0)
	for _, ev := range st.events {
		if ev.FirmID != firmID || !ev.IsDeadline || ev.CompletedAt != nil {
			continue
		}
		out = append(out, ev.AsDeadline())
	}
	return out, nil
}

func (r *calendarEventRepo) SaveEvaluation(_ context.Context, d *entity.Deadline) error {
	id, overdue := d.ID, d.Status.IsPastDue()
	return r.v.write(func(st *state) error {
		ev, ok := st.events[id]
		if !ok {
			return apperror.ErrCalendarEventNotFound
		}
		ev.IsOverdue = overdue
		st.events[id] = ev
		return nil
	})
}

func (r *calendarEventRepo) MarkEscalated(_ context.Context, id uuid.UUID, revision int, tier valueobject.Tier) error {
	return r.v.write(func(st *state) error {
		ev, ok := st.events[id]
		if !ok {
			return apperror.ErrCalendarEventNotFound
		}
		if ev.DueRevision != revision {
			return nil
		}
		ev.EscalatedTier = &tier
		st.events[id] = ev
		return nil
	})
}
