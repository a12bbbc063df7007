package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

type policyRepo struct {
	v *view
}

func (r *policyRepo) ListByFirm(_ context.Context, firmID uuid.UUID) ([]entity.EscalationPolicy, error) {
	st, done := r.v.read()
	defer done()

	out := make([]entity.EscalationPolicy, 0)
	for _, p := range st.policies {
		if p.FirmID == firmID {
			p.Channels = append([]valueobject.Channel(nil), p.Channels...)
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OffsetHours > out[j].OffsetHours })
	return out, nil
}

// Upsert сохраняет политику по паре (фирма, уровень); для существующей
// записи в p возвращаются её id и created_at.
func (r *policyRepo) Upsert(_ context.Context, p *entity.EscalationPolicy) error {
	stored := *p
	stored.Channels = append([]valueobject.Channel(nil), p.Channels...)

	var saved entity.EscalationPolicy
	err := r.v.write(func(st *state) error {
		item := stored
		for id, existing := range st.policies {
			if existing.FirmID == item.FirmID && existing.Tier == item.Tier {
				item.ID = id
				item.CreatedAt = existing.CreatedAt
				break
			}
		}
		st.policies[item.ID] = item
		saved = item
		return nil
	})
	if err != nil {
		return err
	}
	p.ID = saved.ID
	p.CreatedAt = saved.CreatedAt
	return nil
}
