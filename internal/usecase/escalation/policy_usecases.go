package escalation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
)

// PolicyService управляет политиками эскалации фирмы и кэширует чтение.
type PolicyService struct {
	repo      repository.PolicyRepository
	cache     *service.CacheService
	ttl       time.Duration
	clock     clock.Clock
	templates []PolicyTemplate
}

func NewPolicyService(repo repository.PolicyRepository, cache *service.CacheService, ttl time.Duration, clk clock.Clock, templates []PolicyTemplate) *PolicyService {
	if len(templates) == 0 {
		templates = BuiltinDefaults()
	}
	return &PolicyService{repo: repo, cache: cache, ttl: ttl, clock: clk, templates: templates}
}

// List возвращает сохранённые политики фирмы по убыванию смещения.
func (s *PolicyService) List(ctx context.Context, firmID uuid.UUID) ([]entity.EscalationPolicy, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.repo.ListByFirm(ctx, firmID)
	}
	v, err := s.cache.GetOrSet(ctx, service.PoliciesCacheKey(firmID), s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListByFirm(ctx, firmID)
	})
	if err != nil {
		return nil, err
	}
	return append([]entity.EscalationPolicy(nil), v.([]entity.EscalationPolicy)...), nil
}

// Effective возвращает политики, по которым работает пересчёт. Пока фирма ничего
// не настроила, действуют шаблоны по умолчанию.
func (s *PolicyService) Effective(ctx context.Context, firmID uuid.UUID) ([]entity.EscalationPolicy, error) {
	policies, err := s.List(ctx, firmID)
	if err != nil {
		return nil, err
	}
	if len(policies) > 0 {
		return policies, nil
	}
	return s.fromTemplates(firmID)
}

func (s *PolicyService) fromTemplates(firmID uuid.UUID) ([]entity.EscalationPolicy, error) {
	now := s.clock.Now()
	out := make([]entity.EscalationPolicy, 0, len(s.templates))
	for _, t := range s.templates {
		p, err := policyFromInput(firmID, UpsertPolicyInput{
			Tier:        t.Tier,
			OffsetHours: t.OffsetHours,
			EscalateTo:  t.EscalateTo,
			Channels:    t.Channels,
			IsActive:    t.Active,
		}, now)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

type UpsertPolicyInput struct {
	Tier        string
	OffsetHours int
	EscalateTo  string
	Channels    []string
	IsActive    *bool
}

func policyFromInput(firmID uuid.UUID, input UpsertPolicyInput, now time.Time) (*entity.EscalationPolicy, error) {
	tier, err := valueobject.NewTier(input.Tier)
	if err != nil {
		return nil, err
	}
	target, err := valueobject.NewEscalationTarget(input.EscalateTo)
	if err != nil {
		return nil, err
	}
	channels, err := valueobject.NewChannels(input.Channels)
	if err != nil {
		return nil, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return entity.NewEscalationPolicy(firmID, tier, input.OffsetHours, target, channels, active, now)
}

// Upsert создаёт или заменяет политику уровня и сбрасывает кэш фирмы.
func (s *PolicyService) Upsert(ctx context.Context, firmID uuid.UUID, input UpsertPolicyInput) (*entity.EscalationPolicy, error) {
	p, err := policyFromInput(firmID, input, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(firmID)
	return p, nil
}

// SeedDefaults сохраняет шаблоны для уровней, которых у фирмы ещё нет.
// Существующие настройки не трогает.
func (s *PolicyService) SeedDefaults(ctx context.Context, firmID uuid.UUID) ([]entity.EscalationPolicy, error) {
	existing, err := s.repo.ListByFirm(ctx, firmID)
	if err != nil {
		return nil, err
	}
	have := make(map[valueobject.Tier]struct{}, len(existing))
	for _, p := range existing {
		have[p.Tier] = struct{}{}
	}

	defaults, err := s.fromTemplates(firmID)
	if err != nil {
		return nil, err
	}
	for i := range defaults {
		if _, ok := have[defaults[i].Tier]; ok {
			continue
		}
		if err := s.repo.Upsert(ctx, &defaults[i]); err != nil {
			return nil, err
		}
	}
	s.invalidate(firmID)
	return s.repo.ListByFirm(ctx, firmID)
}

func (s *PolicyService) invalidate(firmID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateFirmPolicies(firmID)
	}
}
