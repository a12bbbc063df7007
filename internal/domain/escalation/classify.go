// Package escalation содержит чистые правила движка сроков: классификацию
// статуса, выбор действующего уровня эскалации и адресата.
package escalation

import (
	"time"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

const (
	// BreachAfter: с такой просрочки срок считается нарушенным.
	BreachAfter = 48 * time.Hour
	// AtRiskWithinDays задаёт порог дней до срока для AT_RISK.
	AtRiskWithinDays = 5

	day = 24 * time.Hour
)

// Classify вычисляет статус срока на момент now.
// Выполненный срок всегда ON_TRACK. Срок, равный now, уже OVERDUE.
func Classify(dueAt time.Time, completedAt *time.Time, now time.Time) valueobject.KeyDateStatus {
	if completedAt != nil {
		return valueobject.KeyDateStatusOnTrack
	}

	pastDue := now.Sub(dueAt)
	switch {
	case pastDue >= BreachAfter:
		return valueobject.KeyDateStatusBreach
	case pastDue >= 0:
		return valueobject.KeyDateStatusOverdue
	}

	if DaysUntilDue(dueAt, now) <= AtRiskWithinDays {
		return valueobject.KeyDateStatusAtRisk
	}
	return valueobject.KeyDateStatusOnTrack
}

// DaysUntilDue считает дни до срока с округлением вверх; для прошедшего срока 0.
func DaysUntilDue(dueAt, now time.Time) int {
	left := dueAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + day - 1) / day)
}

// IsOverdue отвечает, просрочен ли дедлайн календаря.
func IsOverdue(dueAt time.Time, completedAt *time.Time, now time.Time) bool {
	return Classify(dueAt, completedAt, now).IsPastDue()
}
