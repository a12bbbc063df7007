package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// ParseTime разбирает RFC3339; пустая строка считается отсутствием значения.
func ParseTime(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		return nil, apperror.Validation("некорректный формат даты, ожидается RFC3339")
	}
	utc := t.UTC()
	return &utc, nil
}

// ParseRequiredTime то же, что ParseTime, но значение обязательно.
func ParseRequiredTime(value string) (time.Time, error) {
	t, err := ParseTime(&value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, apperror.Validation("дата обязательна")
	}
	return *t, nil
}

func ParseUUIDPtr(value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, apperror.Validation("некорректный идентификатор")
	}
	return &id, nil
}
