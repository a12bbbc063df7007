package valueobject

import "github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"

// KeyDateStatus описывает срочность ключевой даты. Хранится в БД как кэш,
// источником истины всегда служит пересчёт по due/completed/now.
type KeyDateStatus string

const (
	KeyDateStatusOnTrack KeyDateStatus = "ON_TRACK"
	KeyDateStatusAtRisk  KeyDateStatus = "AT_RISK"
	KeyDateStatusOverdue KeyDateStatus = "OVERDUE"
	KeyDateStatusBreach  KeyDateStatus = "BREACH"
)

func (s KeyDateStatus) IsValid() bool {
	switch s {
	case KeyDateStatusOnTrack, KeyDateStatusAtRisk, KeyDateStatusOverdue, KeyDateStatusBreach:
		return true
	}
	return false
}

// Urgency возвращает порядок сортировки: BREACH первым, ON_TRACK последним.
func (s KeyDateStatus) Urgency() int {
	switch s {
	case KeyDateStatusBreach:
		return 0
	case KeyDateStatusOverdue:
		return 1
	case KeyDateStatusAtRisk:
		return 2
	default:
		return 3
	}
}

// IsPastDue истинно для OVERDUE и BREACH.
func (s KeyDateStatus) IsPastDue() bool {
	return s == KeyDateStatusOverdue || s == KeyDateStatusBreach
}

func NewKeyDateStatus(status string) (KeyDateStatus, error) {
	s := KeyDateStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус ключевой даты")
	}
	return s, nil
}

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// NewPriority разбирает приоритет; пустая строка означает NORMAL.
func NewPriority(priority string) (Priority, error) {
	if priority == "" {
		return PriorityNormal, nil
	}
	p := Priority(priority)
	if !p.IsValid() {
		return "", apperror.Validation("некорректный приоритет")
	}
	return p, nil
}

type DirectionStatus string

const (
	DirectionStatusDraft         DirectionStatus = "DRAFT"
	DirectionStatusPendingReview DirectionStatus = "PENDING_REVIEW"
	DirectionStatusConfirmed     DirectionStatus = "CONFIRMED"
	DirectionStatusAmended       DirectionStatus = "AMENDED"
	DirectionStatusVacated       DirectionStatus = "VACATED"
)

func (s DirectionStatus) IsValid() bool {
	switch s {
	case DirectionStatusDraft, DirectionStatusPendingReview, DirectionStatusConfirmed,
		DirectionStatusAmended, DirectionStatusVacated:
		return true
	}
	return false
}

func (s DirectionStatus) CanTransitionTo(newStatus DirectionStatus) bool {
	transitions := map[DirectionStatus][]DirectionStatus{
		DirectionStatusDraft:         {DirectionStatusPendingReview, DirectionStatusConfirmed, DirectionStatusVacated},
		DirectionStatusPendingReview: {DirectionStatusConfirmed, DirectionStatusVacated},
		DirectionStatusConfirmed:     {DirectionStatusAmended, DirectionStatusVacated},
		DirectionStatusAmended:       {DirectionStatusAmended, DirectionStatusVacated},
		DirectionStatusVacated:       {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// IsConfirmed истинно, если указание хотя бы раз было подтверждено.
func (s DirectionStatus) IsConfirmed() bool {
	return s == DirectionStatusConfirmed || s == DirectionStatusAmended
}

func NewDirectionStatus(status string) (DirectionStatus, error) {
	s := DirectionStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус указания")
	}
	return s, nil
}

// AckStatus описывает ответ пользователя на уведомление.
type AckStatus string

const (
	AckStatusReviewed   AckStatus = "REVIEWED"
	AckStatusInProgress AckStatus = "IN_PROGRESS"
	AckStatusFiled      AckStatus = "FILED"
	AckStatusDismissed  AckStatus = "DISMISSED"
)

func NewAckStatus(status string) (AckStatus, error) {
	s := AckStatus(status)
	switch s {
	case AckStatusReviewed, AckStatusInProgress, AckStatusFiled, AckStatusDismissed:
		return s, nil
	}
	return "", apperror.Validation("некорректный статус подтверждения")
}
