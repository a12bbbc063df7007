package escalation

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// Метки дополнительных назначений на дело, которые учитывает маршрутизация.
const (
	RoleTagAssigned   = "ASSIGNED"
	RoleTagSupervisor = "SUPERVISOR"
	RoleTagPartner    = "PARTNER"
	RoleTagColp       = "COLP"
)

// ResolveActiveTier выбирает действующий уровень: среди активных политик,
// окно которых уже открылось (now >= dueAt - offset), берётся политика
// с наименьшим смещением. ok=false, если ни одно окно не открыто.
func ResolveActiveTier(dueAt, now time.Time, policies []entity.EscalationPolicy) (entity.EscalationPolicy, bool) {
	var (
		active entity.EscalationPolicy
		found  bool
	)
	for _, p := range policies {
		if !p.IsActive {
			continue
		}
		if now.Before(p.OpensAt(dueAt)) {
			continue
		}
		if !found || moreUrgent(p.OffsetHours, p.Tier, active.OffsetHours, active.Tier) {
			active = p
			found = true
		}
	}
	return active, found
}

// IsMoreUrgent сообщает, срочнее ли candidate уже отправленного уровня sent.
// Срочность задаётся смещением политики фирмы; для уровня без политики
// берётся смещение по умолчанию.
func IsMoreUrgent(candidate valueobject.Tier, sent *valueobject.Tier, policies []entity.EscalationPolicy) bool {
	if sent == nil {
		return true
	}
	return moreUrgent(offsetOf(candidate, policies), candidate, offsetOf(*sent, policies), *sent)
}

func offsetOf(tier valueobject.Tier, policies []entity.EscalationPolicy) int {
	for _, p := range policies {
		if p.Tier == tier {
			return p.OffsetHours
		}
	}
	return valueobject.DefaultOffsetHours[tier]
}

func tierIndex(tier valueobject.Tier) int {
	for i, t := range valueobject.AllTiers {
		if t == tier {
			return i
		}
	}
	return -1
}

// При равных смещениях срочнее уровень, стоящий дальше в AllTiers.
func moreUrgent(offsetA int, tierA valueobject.Tier, offsetB int, tierB valueobject.Tier) bool {
	if offsetA != offsetB {
		return offsetA < offsetB
	}
	return tierIndex(tierA) > tierIndex(tierB)
}

// RecipientResolver находит конкретного пользователя для абстрактного адресата.
type RecipientResolver struct {
	AdminFallback bool
}

// Resolve проходит слоты команды дела в фиксированном порядке для цели target.
// ok=false означает «нет адресата»: эскалация для уровня пропускается.
func (r RecipientResolver) Resolve(target valueobject.EscalationTarget, team *entity.MatterTeam, deadlineOwner *uuid.UUID) (uuid.UUID, bool) {
	if team == nil {
		if target == valueobject.TargetAssigned || target == valueobject.TargetOwner {
			return first(deadlineOwner)
		}
		return uuid.Nil, false
	}

	var candidates []*uuid.UUID
	switch target {
	case valueobject.TargetAssigned:
		candidates = []*uuid.UUID{deadlineOwner, team.AssignedWith(RoleTagAssigned), team.MatterManagerID, team.OwnerID}
	case valueobject.TargetSupervisor:
		candidates = []*uuid.UUID{team.MatterManagerID, team.AssignedWith(RoleTagSupervisor), team.MatterPartnerID}
	case valueobject.TargetOwner:
		candidates = []*uuid.UUID{team.OwnerID, deadlineOwner}
	case valueobject.TargetPartnerColp:
		candidates = []*uuid.UUID{team.MatterPartnerID, team.ClientPartnerID, team.AssignedWith(RoleTagColp, RoleTagPartner)}
	}
	if r.AdminFallback {
		candidates = append(candidates, team.FirmAdminID)
	}
	return first(candidates...)
}

func first(ids ...*uuid.UUID) (uuid.UUID, bool) {
	for _, id := range ids {
		if id != nil && *id != uuid.Nil {
			return *id, true
		}
	}
	return uuid.Nil, false
}

// IdempotencyKey строит ключ «не более одного уведомления» для пары (дедлайн, уровень).
// Срок и его ревизия входят в ключ: любой перенос, даже обратно на прежнюю дату,
// даёт новый дедлайн с точки зрения эскалации.
func IdempotencyKey(kind valueobject.DeadlineKind, deadlineID uuid.UUID, tier valueobject.Tier, dueAt time.Time, revision int) string {
	raw := string(kind) + "|" + deadlineID.String() + "|" + string(tier) + "|" +
		strconv.FormatInt(dueAt.Unix(), 10) + "|" + strconv.Itoa(revision)
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
