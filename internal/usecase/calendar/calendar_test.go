package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/calendar"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCalendar_CreateListComplete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clk := clock.Fixed(now)
	firm, matter := uuid.New(), uuid.New()
	store.PutMatter(entity.MatterTeam{MatterID: matter, FirmID: firm, Reference: "COM-3"})

	create := calendar.NewCreateDeadlineUseCase(store.Repositories().CalendarEvents, store, clk)
	past, err := create.Execute(ctx, calendar.CreateDeadlineInput{FirmID: firm, MatterID: matter, Title: "Пошлина", DueAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	assert.True(t, past.IsOverdue)
	future, err := create.Execute(ctx, calendar.CreateDeadlineInput{FirmID: firm, MatterID: matter, Title: "Заседание", DueAt: now.Add(72 * time.Hour)})
	require.NoError(t, err)
	assert.False(t, future.IsOverdue)

	_, err = create.Execute(ctx, calendar.CreateDeadlineInput{FirmID: firm, MatterID: uuid.New(), Title: "x", DueAt: now})
	assert.ErrorIs(t, err, apperror.ErrMatterNotFound)

	list := calendar.NewListCalendarUseCase(store.Repositories().CalendarEvents, clk)
	overdue, err := list.Execute(ctx, calendar.ListInput{FirmID: firm, OverdueOnly: true})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, past.ID, overdue[0].ID)

	complete := calendar.NewCompleteEventUseCase(store.Repositories().CalendarEvents, clk)
	_, err = complete.Execute(ctx, firm, past.ID)
	require.NoError(t, err)

	overdue, err = list.Execute(ctx, calendar.ListInput{FirmID: firm, OverdueOnly: true})
	require.NoError(t, err)
	assert.Empty(t, overdue)

	clk.Advance(4 * 24 * time.Hour)
	all, err := list.Execute(ctx, calendar.ListInput{FirmID: firm})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[1].IsOverdue)
	assert.Equal(t, "COM-3", all[1].MatterReference)
}

func TestCalendar_ListRejectsInvertedRange(t *testing.T) {
	store := memory.NewStore()
	list := calendar.NewListCalendarUseCase(store.Repositories().CalendarEvents, clock.Fixed(now))
	from, to := now, now.Add(-time.Hour)

	_, err := list.Execute(context.Background(), calendar.ListInput{FirmID: uuid.New(), From: &from, To: &to})
	assert.True(t, apperror.IsValidation(err))
}
