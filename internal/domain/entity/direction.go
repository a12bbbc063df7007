package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// Direction представляет обязательство из судебного определения.
type Direction struct {
	ID            uuid.UUID
	MatterID      uuid.UUID
	FirmID        uuid.UUID
	Title         string
	Description   *string
	DueAt         *time.Time
	Status        valueobject.DirectionStatus
	ConfirmedByID *uuid.UUID
	ConfirmedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewDirection(matterID, firmID uuid.UUID, title string, description *string, dueAt *time.Time, status valueobject.DirectionStatus, now time.Time) (*Direction, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название указания обязательно")
	}
	if status == "" {
		status = valueobject.DirectionStatusDraft
	}
	if status != valueobject.DirectionStatusDraft && status != valueobject.DirectionStatusPendingReview {
		return nil, apperror.Validation("новое указание может быть только черновиком или на проверке")
	}
	if dueAt != nil {
		utc := dueAt.UTC()
		dueAt = &utc
	}

	return &Direction{
		ID:          uuid.New(),
		MatterID:    matterID,
		FirmID:      firmID,
		Title:       title,
		Description: description,
		DueAt:       dueAt,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Confirm переводит указание в CONFIRMED. Повторное подтверждение даёт конфликт.
func (d *Direction) Confirm(userID uuid.UUID, now time.Time) error {
	if d.Status.IsConfirmed() {
		return apperror.ErrDirectionAlreadyConfirmed
	}
	if !d.Status.CanTransitionTo(valueobject.DirectionStatusConfirmed) {
		return apperror.New(apperror.ErrCodeConflict, "указание нельзя подтвердить из статуса "+string(d.Status))
	}
	d.Status = valueobject.DirectionStatusConfirmed
	d.ConfirmedByID = &userID
	d.ConfirmedAt = &now
	d.UpdatedAt = now
	return nil
}

func (d *Direction) SubmitForReview(now time.Time) error {
	if !d.Status.CanTransitionTo(valueobject.DirectionStatusPendingReview) {
		return apperror.New(apperror.ErrCodeConflict, "отправить на проверку можно только черновик")
	}
	d.Status = valueobject.DirectionStatusPendingReview
	d.UpdatedAt = now
	return nil
}

func (d *Direction) Vacate(now time.Time) error {
	if !d.Status.CanTransitionTo(valueobject.DirectionStatusVacated) {
		return apperror.New(apperror.ErrCodeConflict, "указание уже отменено")
	}
	d.Status = valueobject.DirectionStatusVacated
	d.UpdatedAt = now
	return nil
}

// Edit меняет содержимое указания. Правка после подтверждения переводит его в AMENDED.
func (d *Direction) Edit(title *string, description *string, dueAt *time.Time, clearDue bool, now time.Time) error {
	if d.Status == valueobject.DirectionStatusVacated {
		return apperror.New(apperror.ErrCodeConflict, "отменённое указание нельзя изменить")
	}
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return apperror.Validation("название указания обязательно")
		}
		d.Title = t
	}
	if description != nil {
		d.Description = description
	}
	if clearDue {
		d.DueAt = nil
	} else if dueAt != nil {
		utc := dueAt.UTC()
		d.DueAt = &utc
	}
	if d.Status.IsConfirmed() {
		d.Status = valueobject.DirectionStatusAmended
	}
	d.UpdatedAt = now
	return nil
}

// Deadline материализует дедлайн календаря из подтверждённого указания.
// Возвращает nil, если у указания нет срока.
func (d *Direction) Deadline(now time.Time) *CalendarEvent {
	if d.DueAt == nil {
		return nil
	}
	directionID := d.ID
	return &CalendarEvent{
		ID:          uuid.New(),
		MatterID:    d.MatterID,
		FirmID:      d.FirmID,
		DirectionID: &directionID,
		Title:       d.Title,
		Description: d.Description,
		StartAt:     *d.DueAt,
		IsAllDay:    true,
		IsDeadline:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
