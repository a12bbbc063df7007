package direction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/direction"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/notification"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

var errDiskFull = errors.New("disk full")

// failingEventsUoW подменяет репозиторий событий внутри транзакции,
// чтобы сбой случился после обновления статуса указания.
type failingEventsUoW struct {
	*memory.Store
}

type failingEvents struct {
	repository.CalendarEventRepository
}

func (failingEvents) Create(context.Context, *entity.CalendarEvent) error {
	return errDiskFull
}

func (u failingEventsUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	return u.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		tx.CalendarEvents = failingEvents{tx.CalendarEvents}
		return fn(ctx, tx)
	})
}

// failingUpdatesUoW роняет обновление события после смены статуса указания.
type failingUpdatesUoW struct {
	*memory.Store
}

type failingUpdates struct {
	repository.CalendarEventRepository
}

func (failingUpdates) Update(context.Context, *entity.CalendarEvent) error {
	return errDiskFull
}

func (u failingUpdatesUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	return u.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		tx.CalendarEvents = failingUpdates{tx.CalendarEvents}
		return fn(ctx, tx)
	})
}

type env struct {
	store  *memory.Store
	clk    *clock.FixedClock
	firm   uuid.UUID
	matter uuid.UUID
	owner  uuid.UUID
	sent   []*entity.Notification
}

func newEnv() *env {
	e := &env{
		store:  memory.NewStore(),
		clk:    clock.Fixed(now),
		firm:   uuid.New(),
		matter: uuid.New(),
		owner:  uuid.New(),
	}
	e.store.PutMatter(entity.MatterTeam{MatterID: e.matter, FirmID: e.firm, Reference: "FAM-7", OwnerID: &e.owner})
	return e
}

func (e *env) confirmUseCase(uow repository.UnitOfWork) *direction.ConfirmDirectionUseCase {
	deliverer := notification.DelivererFunc(func(_ context.Context, n *entity.Notification) error {
		e.sent = append(e.sent, n)
		return nil
	})
	return direction.NewConfirmDirectionUseCase(uow, e.store, e.store.Repositories().Notifications, deliverer, e.clk)
}

func (e *env) direction(t *testing.T, due *time.Time) *entity.Direction {
	t.Helper()
	uc := direction.NewCreateDirectionUseCase(e.store.Repositories().Directions, e.store, e.clk)
	d, err := uc.Execute(context.Background(), direction.CreateDirectionInput{
		FirmID:   e.firm,
		MatterID: e.matter,
		Title:    "Представить письменные пояснения",
		DueAt:    due,
		Status:   "PENDING_REVIEW",
	})
	require.NoError(t, err)
	return d
}

func (e *env) deadlines(t *testing.T) []*entity.CalendarEvent {
	t.Helper()
	events, err := e.store.Repositories().CalendarEvents.List(context.Background(), repository.CalendarFilter{FirmID: e.firm})
	require.NoError(t, err)
	return events
}

func TestConfirmDirection_CreatesDeadline(t *testing.T) {
	e := newEnv()
	due := now.Add(5 * 24 * time.Hour)
	d := e.direction(t, &due)
	user := uuid.New()

	out, err := e.confirmUseCase(e.store).Execute(context.Background(), direction.ConfirmDirectionInput{
		FirmID:      e.firm,
		DirectionID: d.ID,
		UserID:      user,
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.DirectionStatusConfirmed, out.Direction.Status)
	assert.Equal(t, user, *out.Direction.ConfirmedByID)
	require.NotNil(t, out.CalendarEvent)
	assert.True(t, out.CalendarEvent.IsDeadline)
	assert.Equal(t, due, out.CalendarEvent.StartAt)

	require.Len(t, e.sent, 1)
	assert.Equal(t, e.owner, e.sent[0].UserID)
	assert.Equal(t, valueobject.NotificationTypeDirectionConfirmed, e.sent[0].Type)
}

func TestConfirmDirection_WithoutDueDateCreatesNoDeadline(t *testing.T) {
	e := newEnv()
	d := e.direction(t, nil)

	out, err := e.confirmUseCase(e.store).Execute(context.Background(), direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, out.CalendarEvent)
	assert.Empty(t, e.deadlines(t))
}

func TestConfirmDirection_ScenarioE_TwiceIsConflict(t *testing.T) {
	e := newEnv()
	due := now.Add(48 * time.Hour)
	d := e.direction(t, &due)
	uc := e.confirmUseCase(e.store)
	input := direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()}

	_, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), input)
	assert.ErrorIs(t, err, apperror.ErrDirectionAlreadyConfirmed)
	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, e.deadlines(t), 1)
}

func TestConfirmDirection_AtomicOnFailure(t *testing.T) {
	e := newEnv()
	due := now.Add(48 * time.Hour)
	d := e.direction(t, &due)

	_, err := e.confirmUseCase(failingEventsUoW{e.store}).Execute(context.Background(), direction.ConfirmDirectionInput{
		FirmID:      e.firm,
		DirectionID: d.ID,
		UserID:      uuid.New(),
	})
	assert.ErrorIs(t, err, errDiskFull)

	got, err := e.store.Repositories().Directions.FindByID(context.Background(), e.firm, d.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DirectionStatusPendingReview, got.Status)
	assert.Nil(t, got.ConfirmedAt)
	assert.Empty(t, e.deadlines(t))
	assert.Empty(t, e.sent)

	// После сбоя подтверждение проходит штатно.
	_, err = e.confirmUseCase(e.store).Execute(context.Background(), direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()})
	require.NoError(t, err)
	assert.Len(t, e.deadlines(t), 1)
}

func TestConfirmDirection_OtherFirmNotFound(t *testing.T) {
	e := newEnv()
	d := e.direction(t, nil)

	_, err := e.confirmUseCase(e.store).Execute(context.Background(), direction.ConfirmDirectionInput{FirmID: uuid.New(), DirectionID: d.ID, UserID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrDirectionNotFound)
}

func TestConfirmDirection_VacatedIsConflict(t *testing.T) {
	e := newEnv()
	d := e.direction(t, nil)
	_, err := direction.NewVacateDirectionUseCase(e.store, e.clk).Execute(context.Background(), e.firm, d.ID)
	require.NoError(t, err)

	_, err = e.confirmUseCase(e.store).Execute(context.Background(), direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()})
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateDirection_AmendMovesDeadline(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	due := now.Add(48 * time.Hour)
	d := e.direction(t, &due)
	out, err := e.confirmUseCase(e.store).Execute(ctx, direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, e.store.Repositories().CalendarEvents.MarkEscalated(ctx, out.CalendarEvent.ID, out.CalendarEvent.DueRevision, valueobject.TierT48H))

	later := due.Add(7 * 24 * time.Hour)
	amended, err := direction.NewUpdateDirectionUseCase(e.store, e.clk).Execute(ctx, direction.UpdateDirectionInput{
		FirmID: e.firm,
		ID:     d.ID,
		DueAt:  &later,
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.DirectionStatusAmended, amended.Status)

	events := e.deadlines(t)
	require.Len(t, events, 1)
	assert.Equal(t, later, events[0].StartAt)
	assert.Nil(t, events[0].EscalatedTier)
}

func TestSubmitDirection_OnlyFromDraft(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	create := direction.NewCreateDirectionUseCase(e.store.Repositories().Directions, e.store, e.clk)
	d, err := create.Execute(ctx, direction.CreateDirectionInput{FirmID: e.firm, MatterID: e.matter, Title: "Черновик"})
	require.NoError(t, err)

	submit := direction.NewSubmitDirectionUseCase(e.store.Repositories().Directions, e.clk)
	got, err := submit.Execute(ctx, e.firm, d.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DirectionStatusPendingReview, got.Status)

	_, err = submit.Execute(ctx, e.firm, d.ID)
	assert.True(t, apperror.IsConflict(err))
}

func (e *env) openDeadlines(t *testing.T) []entity.Deadline {
	t.Helper()
	open, err := e.store.Repositories().CalendarEvents.ListOpenDeadlines(context.Background(), e.firm)
	require.NoError(t, err)
	return open
}

func TestVacateDirection_WithdrawsConfirmedDeadline(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	due := now.Add(72 * time.Hour)
	d := e.direction(t, &due)
	_, err := e.confirmUseCase(e.store).Execute(ctx, direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()})
	require.NoError(t, err)
	require.Len(t, e.openDeadlines(t), 1)

	vacated, err := direction.NewVacateDirectionUseCase(e.store, e.clk).Execute(ctx, e.firm, d.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DirectionStatusVacated, vacated.Status)

	assert.Empty(t, e.openDeadlines(t))
	events := e.deadlines(t)
	require.Len(t, events, 1)
	assert.False(t, events[0].IsDeadline)
}

func TestVacateDirection_FailureKeepsDeadline(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	due := now.Add(72 * time.Hour)
	d := e.direction(t, &due)
	_, err := e.confirmUseCase(e.store).Execute(ctx, direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()})
	require.NoError(t, err)

	_, err = direction.NewVacateDirectionUseCase(failingUpdatesUoW{e.store}, e.clk).Execute(ctx, e.firm, d.ID)
	assert.ErrorIs(t, err, errDiskFull)

	got, err := e.store.Repositories().Directions.FindByID(ctx, e.firm, d.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DirectionStatusConfirmed, got.Status)
	assert.Len(t, e.openDeadlines(t), 1)
}

func TestUpdateDirection_ClearDueWithdrawsAndRestoreTracks(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	due := now.Add(72 * time.Hour)
	d := e.direction(t, &due)
	_, err := e.confirmUseCase(e.store).Execute(ctx, direction.ConfirmDirectionInput{FirmID: e.firm, DirectionID: d.ID, UserID: uuid.New()})
	require.NoError(t, err)

	update := direction.NewUpdateDirectionUseCase(e.store, e.clk)
	_, err = update.Execute(ctx, direction.UpdateDirectionInput{FirmID: e.firm, ID: d.ID, ClearDueAt: true})
	require.NoError(t, err)
	assert.Empty(t, e.openDeadlines(t))

	later := due.Add(24 * time.Hour)
	_, err = update.Execute(ctx, direction.UpdateDirectionInput{FirmID: e.firm, ID: d.ID, DueAt: &later})
	require.NoError(t, err)

	open := e.openDeadlines(t)
	require.Len(t, open, 1)
	assert.Equal(t, later, open[0].DueAt)
	assert.Nil(t, open[0].EscalatedTier)
	assert.Len(t, e.deadlines(t), 1)
}
