package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

const (
	maxKeyDateTitleLen       = 500
	maxKeyDateDescriptionLen = 2000
)

// KeyDate представляет отслеживаемый процессуальный срок по делу.
type KeyDate struct {
	ID            uuid.UUID
	MatterID      uuid.UUID
	FirmID        uuid.UUID
	Title         string
	Description   *string
	DueAt         time.Time
	Priority      valueobject.Priority
	OwnerID       uuid.UUID
	CompletedAt   *time.Time
	BreachedAt    *time.Time
	Status        valueobject.KeyDateStatus
	EscalatedTier *valueobject.Tier
	// DueRevision растёт при каждом переносе срока.
	DueRevision int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Поля проекции для списков.
	MatterReference string
	MatterTitle     string
}

func NewKeyDate(matterID, firmID, ownerID uuid.UUID, title string, description *string, dueAt time.Time, priority valueobject.Priority, now time.Time) (*KeyDate, error) {
	title = strings.TrimSpace(title)
	if err := validateKeyDateTitle(title); err != nil {
		return nil, err
	}
	if err := validateKeyDateDescription(description); err != nil {
		return nil, err
	}
	if dueAt.IsZero() {
		return nil, apperror.Validation("срок обязателен")
	}
	if ownerID == uuid.Nil {
		return nil, apperror.Validation("ответственный за ключевую дату обязателен")
	}
	if !priority.IsValid() {
		return nil, apperror.Validation("некорректный приоритет")
	}

	return &KeyDate{
		ID:          uuid.New(),
		MatterID:    matterID,
		FirmID:      firmID,
		Title:       title,
		Description: description,
		DueAt:       dueAt.UTC(),
		Priority:    priority,
		OwnerID:     ownerID,
		Status:      valueobject.KeyDateStatusOnTrack,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateKeyDateTitle(title string) error {
	if title == "" {
		return apperror.Validation("название обязательно")
	}
	if len([]rune(title)) > maxKeyDateTitleLen {
		return apperror.Validation("название не длиннее 500 символов")
	}
	return nil
}

func validateKeyDateDescription(description *string) error {
	if description != nil && len([]rune(*description)) > maxKeyDateDescriptionLen {
		return apperror.Validation("описание не длиннее 2000 символов")
	}
	return nil
}

func (k *KeyDate) Rename(title string, now time.Time) error {
	title = strings.TrimSpace(title)
	if err := validateKeyDateTitle(title); err != nil {
		return err
	}
	k.Title = title
	k.UpdatedAt = now
	return nil
}

func (k *KeyDate) Describe(description *string, now time.Time) error {
	if err := validateKeyDateDescription(description); err != nil {
		return err
	}
	k.Description = description
	k.UpdatedAt = now
	return nil
}

// Reschedule переносит срок. Для эскалации это новый дедлайн:
// отметка об отправленном уровне сбрасывается.
func (k *KeyDate) Reschedule(dueAt time.Time, now time.Time) error {
	if dueAt.IsZero() {
		return apperror.Validation("срок обязателен")
	}
	if dueAt.Equal(k.DueAt) {
		return nil
	}
	k.DueAt = dueAt.UTC()
	k.EscalatedTier = nil
	k.DueRevision++
	k.UpdatedAt = now
	return nil
}

func (k *KeyDate) AssignOwner(ownerID uuid.UUID, now time.Time) error {
	if ownerID == uuid.Nil {
		return apperror.Validation("ответственный за ключевую дату обязателен")
	}
	k.OwnerID = ownerID
	k.UpdatedAt = now
	return nil
}

func (k *KeyDate) SetPriority(priority valueobject.Priority, now time.Time) error {
	if !priority.IsValid() {
		return apperror.Validation("некорректный приоритет")
	}
	k.Priority = priority
	k.UpdatedAt = now
	return nil
}

// Complete фиксирует выполнение. Статус замораживается, breachedAt сохраняется.
func (k *KeyDate) Complete(at time.Time, now time.Time) {
	at = at.UTC()
	k.CompletedAt = &at
	k.Status = valueobject.KeyDateStatusOnTrack
	k.UpdatedAt = now
}

func (k *KeyDate) Reopen(now time.Time) {
	k.CompletedAt = nil
	k.UpdatedAt = now
}

func (k *KeyDate) IsCompleted() bool {
	return k.CompletedAt != nil
}

func (k *KeyDate) AsDeadline() Deadline {
	owner := k.OwnerID
	return Deadline{
		Kind:          valueobject.DeadlineKindKeyDate,
		ID:            k.ID,
		FirmID:        k.FirmID,
		MatterID:      k.MatterID,
		Title:         k.Title,
		DueAt:         k.DueAt,
		CompletedAt:   k.CompletedAt,
		OwnerID:       &owner,
		Status:        k.Status,
		BreachedAt:    k.BreachedAt,
		EscalatedTier: k.EscalatedTier,
		DueRevision:   k.DueRevision,
	}
}
