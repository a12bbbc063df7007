package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

func TestNewKeyDate_Validation(t *testing.T) {
	matter, firm, owner := uuid.New(), uuid.New(), uuid.New()
	due := now.Add(time.Hour)
	long := strings.Repeat("я", 2001)

	tests := []struct {
		name  string
		title string
		desc  *string
		due   time.Time
		owner uuid.UUID
		prio  valueobject.Priority
	}{
		{"пустое название", " ", nil, due, owner, valueobject.PriorityNormal},
		{"длинное название", strings.Repeat("a", 501), nil, due, owner, valueobject.PriorityNormal},
		{"длинное описание", "ok", &long, due, owner, valueobject.PriorityNormal},
		{"нет срока", "ok", nil, time.Time{}, owner, valueobject.PriorityNormal},
		{"нет ответственного", "ok", nil, due, uuid.Nil, valueobject.PriorityNormal},
		{"плохой приоритет", "ok", nil, due, owner, valueobject.Priority("URGENT")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeyDate(matter, firm, tt.owner, tt.title, tt.desc, tt.due, tt.prio, now)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestKeyDate_RescheduleResetsMarker(t *testing.T) {
	kd, err := NewKeyDate(uuid.New(), uuid.New(), uuid.New(), "Срок подачи", nil, now.Add(time.Hour), valueobject.PriorityHigh, now)
	require.NoError(t, err)

	tier := valueobject.TierT24H
	kd.EscalatedTier = &tier

	require.NoError(t, kd.Reschedule(kd.DueAt, now))
	assert.NotNil(t, kd.EscalatedTier)

	require.NoError(t, kd.Reschedule(now.Add(10*24*time.Hour), now))
	assert.Nil(t, kd.EscalatedTier)
}

func TestDeadline_BreachSetOnce(t *testing.T) {
	d := Deadline{Status: valueobject.KeyDateStatusOverdue}

	changed, breached := d.ApplyStatus(valueobject.KeyDateStatusBreach, now)
	assert.True(t, changed)
	assert.True(t, breached)
	first := *d.BreachedAt

	changed, breached = d.ApplyStatus(valueobject.KeyDateStatusBreach, now.Add(time.Hour))
	assert.False(t, changed)
	assert.False(t, breached)
	assert.Equal(t, first, *d.BreachedAt)

	d.ApplyStatus(valueobject.KeyDateStatusOnTrack, now.Add(2*time.Hour))
	assert.Equal(t, first, *d.BreachedAt)
}
