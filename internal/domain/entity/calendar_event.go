package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// CalendarEvent представляет событие календаря дела. С флагом IsDeadline участвует в эскалации.
type CalendarEvent struct {
	ID            uuid.UUID
	MatterID      uuid.UUID
	FirmID        uuid.UUID
	DirectionID   *uuid.UUID
	Title         string
	Description   *string
	StartAt       time.Time
	IsAllDay      bool
	IsDeadline    bool
	CompletedAt   *time.Time
	IsOverdue     bool
	EscalatedTier *valueobject.Tier
	DueRevision   int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	MatterReference string
	MatterTitle     string
}

func NewCalendarDeadline(matterID, firmID uuid.UUID, title string, description *string, startAt time.Time, now time.Time) (*CalendarEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название события обязательно")
	}
	if startAt.IsZero() {
		return nil, apperror.Validation("дата события обязательна")
	}

	return &CalendarEvent{
		ID:          uuid.New(),
		MatterID:    matterID,
		FirmID:      firmID,
		Title:       title,
		Description: description,
		StartAt:     startAt.UTC(),
		IsAllDay:    true,
		IsDeadline:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Reschedule переносит дату события и сбрасывает отметку эскалации.
func (e *CalendarEvent) Reschedule(startAt time.Time, now time.Time) {
	if startAt.Equal(e.StartAt) {
		return
	}
	e.StartAt = startAt.UTC()
	e.EscalatedTier = nil
	e.DueRevision++
	e.UpdatedAt = now
}

// Withdraw снимает событие с контроля сроков. Оно остаётся в календаре,
// но пересчёт его больше не видит.
func (e *CalendarEvent) Withdraw(now time.Time) {
	if !e.IsDeadline {
		return
	}
	e.IsDeadline = false
	e.IsOverdue = false
	e.EscalatedTier = nil
	e.DueRevision++
	e.UpdatedAt = now
}

// Track возвращает событие под контроль сроков с датой startAt.
func (e *CalendarEvent) Track(startAt time.Time, now time.Time) {
	e.Reschedule(startAt, now)
	if !e.IsDeadline {
		e.IsDeadline = true
		e.UpdatedAt = now
	}
}

func (e *CalendarEvent) Complete(now time.Time) {
	e.CompletedAt = &now
	e.IsOverdue = false
	e.UpdatedAt = now
}

func (e *CalendarEvent) AsDeadline() Deadline {
	status := valueobject.KeyDateStatusOnTrack
	if e.IsOverdue {
		status = valueobject.KeyDateStatusOverdue
	}
	return Deadline{
		Kind:          valueobject.DeadlineKindCalendarEvent,
		ID:            e.ID,
		FirmID:        e.FirmID,
		MatterID:      e.MatterID,
		Title:         e.Title,
		DueAt:         e.StartAt,
		CompletedAt:   e.CompletedAt,
		Status:        status,
		EscalatedTier: e.EscalatedTier,
		DueRevision:   e.DueRevision,
	}
}
