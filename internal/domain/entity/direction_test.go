package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNewDirection_DefaultsToDraft(t *testing.T) {
	d, err := NewDirection(uuid.New(), uuid.New(), "  Подать отзыв  ", nil, nil, "", now)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DirectionStatusDraft, d.Status)
	assert.Equal(t, "Подать отзыв", d.Title)

	_, err = NewDirection(uuid.New(), uuid.New(), "x", nil, nil, valueobject.DirectionStatusConfirmed, now)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewDirection(uuid.New(), uuid.New(), " ", nil, nil, "", now)
	assert.True(t, apperror.IsValidation(err))
}

func TestDirection_ConfirmTwiceIsConflict(t *testing.T) {
	d, err := NewDirection(uuid.New(), uuid.New(), "Обмен доказательствами", nil, nil, valueobject.DirectionStatusPendingReview, now)
	require.NoError(t, err)

	user := uuid.New()
	require.NoError(t, d.Confirm(user, now))
	assert.Equal(t, valueobject.DirectionStatusConfirmed, d.Status)
	assert.Equal(t, &user, d.ConfirmedByID)

	err = d.Confirm(user, now)
	assert.ErrorIs(t, err, apperror.ErrDirectionAlreadyConfirmed)
	assert.True(t, apperror.IsConflict(err))
}

func TestDirection_VacatedCannotBeConfirmed(t *testing.T) {
	d, _ := NewDirection(uuid.New(), uuid.New(), "x", nil, nil, "", now)
	require.NoError(t, d.Vacate(now))

	err := d.Confirm(uuid.New(), now)
	assert.True(t, apperror.IsConflict(err))
	assert.True(t, apperror.IsConflict(d.Vacate(now)))
}

func TestDirection_EditAfterConfirmAmends(t *testing.T) {
	due := now.Add(72 * time.Hour)
	d, _ := NewDirection(uuid.New(), uuid.New(), "x", nil, &due, "", now)
	require.NoError(t, d.Confirm(uuid.New(), now))

	later := due.Add(24 * time.Hour)
	require.NoError(t, d.Edit(nil, nil, &later, false, now))
	assert.Equal(t, valueobject.DirectionStatusAmended, d.Status)
	assert.Equal(t, later, *d.DueAt)

	assert.True(t, apperror.IsConflict(d.Confirm(uuid.New(), now)))
}

func TestDirection_Deadline(t *testing.T) {
	d, _ := NewDirection(uuid.New(), uuid.New(), "x", nil, nil, "", now)
	assert.Nil(t, d.Deadline(now))

	due := now.Add(48 * time.Hour)
	d.DueAt = &due
	ev := d.Deadline(now)
	require.NotNil(t, ev)
	assert.True(t, ev.IsDeadline)
	assert.True(t, ev.IsAllDay)
	assert.Equal(t, d.ID, *ev.DirectionID)
	assert.Equal(t, due, ev.StartAt)
}
