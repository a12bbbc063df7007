package valueobject

import (
	"strings"

	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// Tier идентифицирует уровень эскалации.
type Tier string

const (
	TierT14D    Tier = "T_14D"
	TierT7D     Tier = "T_7D"
	TierT48H    Tier = "T_48H"
	TierT24H    Tier = "T_24H"
	TierOverdue Tier = "OVERDUE"
)

// AllTiers перечисляет уровни от раннего предупреждения к самому срочному.
var AllTiers = []Tier{TierT14D, TierT7D, TierT48H, TierT24H, TierOverdue}

// DefaultOffsetHours задаёт смещения по умолчанию относительно срока.
var DefaultOffsetHours = map[Tier]int{
	TierT14D:    336,
	TierT7D:     168,
	TierT48H:    48,
	TierT24H:    24,
	TierOverdue: 0,
}

func (t Tier) IsValid() bool {
	_, ok := DefaultOffsetHours[t]
	return ok
}

func NewTier(tier string) (Tier, error) {
	t := Tier(tier)
	if !t.IsValid() {
		return "", apperror.Validation("некорректный уровень эскалации")
	}
	return t, nil
}

// Channel задаёт канал доставки уведомления.
type Channel string

const (
	ChannelInApp Channel = "IN_APP"
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelPush  Channel = "PUSH"
)

func (c Channel) IsValid() bool {
	switch c {
	case ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush:
		return true
	}
	return false
}

// NewChannels проверяет список каналов и убирает дубликаты, сохраняя порядок.
func NewChannels(raw []string) ([]Channel, error) {
	if len(raw) == 0 {
		return nil, apperror.Validation("нужен хотя бы один канал уведомления")
	}
	seen := make(map[Channel]struct{}, len(raw))
	channels := make([]Channel, 0, len(raw))
	for _, r := range raw {
		c := Channel(strings.ToUpper(strings.TrimSpace(r)))
		if !c.IsValid() {
			return nil, apperror.Validation("некорректный канал уведомления: " + r)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		channels = append(channels, c)
	}
	return channels, nil
}

// EscalationTarget описывает абстрактного адресата эскалации. Закрытое множество,
// конкретный пользователь определяется по ролям в команде дела.
type EscalationTarget string

const (
	TargetAssigned    EscalationTarget = "ASSIGNED"
	TargetSupervisor  EscalationTarget = "SUPERVISOR"
	TargetOwner       EscalationTarget = "OWNER"
	TargetPartnerColp EscalationTarget = "PARTNER_COLP"
)

func (t EscalationTarget) IsValid() bool {
	switch t {
	case TargetAssigned, TargetSupervisor, TargetOwner, TargetPartnerColp:
		return true
	}
	return false
}

func NewEscalationTarget(target string) (EscalationTarget, error) {
	t := EscalationTarget(target)
	if !t.IsValid() {
		return "", apperror.Validation("некорректный адресат эскалации")
	}
	return t, nil
}

// DeadlineKind различает источники дедлайнов в одной очереди пересчёта.
type DeadlineKind string

const (
	DeadlineKindKeyDate       DeadlineKind = "KEY_DATE"
	DeadlineKindCalendarEvent DeadlineKind = "CALENDAR_EVENT"
)

type NotificationType string

const (
	NotificationTypeEscalation         NotificationType = "ESCALATION"
	NotificationTypeDirectionConfirmed NotificationType = "DIRECTION_CONFIRMED"
)
