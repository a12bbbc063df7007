package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type keyDateRepo struct {
	v *view
}

func (r *keyDateRepo) Create(_ context.Context, kd *entity.KeyDate) error {
	item := *kd
	return r.v.write(func(st *state) error {
		st.keyDates[item.ID] = item
		return nil
	})
}

func (r *keyDateRepo) Update(_ context.Context, kd *entity.KeyDate) error {
	item := *kd
	return r.v.write(func(st *state) error {
		if _, ok := st.keyDates[item.ID]; !ok {
			return apperror.ErrKeyDateNotFound
		}
		st.keyDates[item.ID] = item
		return nil
	})
}

func (r *keyDateRepo) Delete(_ context.Context, firmID, id uuid.UUID) error {
	return r.v.write(func(st *state) error {
		kd, ok := st.keyDates[id]
		if !ok || kd.FirmID != firmID {
			return apperror.ErrKeyDateNotFound
		}
		delete(st.keyDates, id)
		return nil
	})
}

func (r *keyDateRepo) FindByID(_ context.Context, firmID, id uuid.UUID) (*entity.KeyDate, error) {
	st, done := r.v.read()
	defer done()
	kd, ok := st.keyDates[id]
	if !ok || kd.FirmID != firmID {
		return nil, apperror.ErrKeyDateNotFound
	}
	kd.MatterReference, kd.MatterTitle = st.matterLabels(kd.MatterID)
	return &kd, nil
}

func (r *keyDateRepo) List(_ context.Context, filter repository.KeyDateFilter) ([]*entity.KeyDate, error) {
	st, done := r.v.read()
	defer done()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*entity.KeyDate, 0)
	for _, kd := range st.keyDates {
		if kd.FirmID != filter.FirmID {
			continue
		}
		if filter.MatterID != nil && kd.MatterID != *filter.MatterID {
			continue
		}
		if !filter.IncludeCompleted && kd.CompletedAt != nil {
			continue
		}
		kd.MatterReference, kd.MatterTitle = st.matterLabels(kd.MatterID)
		if search != "" && !containsAny(search, kd.Title, kd.MatterReference, kd.MatterTitle) {
			continue
		}
		item := kd
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

func containsAny(needle string, haystack ...string) bool {
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func (r *keyDateRepo) ListOpenDeadlines(_ context.Context, firmID uuid.UUID) ([]entity.Deadline, error) {
	st, done := r.v.read()
	defer done()

	out := make([]entity.Deadline, 0)
	for _, kd := range st.keyDates {
		if kd.FirmID != firmID || kd.CompletedAt != nil {
			continue
		}
		out = append(out, kd.AsDeadline())
	}
	return out, nil
}

func (r *keyDateRepo) SaveEvaluation(_ context.Context, d *entity.Deadline) error {
	id, status := d.ID, d.Status
	var breachedAt *time.Time
	if d.BreachedAt != nil {
		at := *d.BreachedAt
		breachedAt = &at
	}
	return r.v.write(func(st *state) error {
		kd, ok := st.keyDates[id]
		if !ok {
			return apperror.ErrKeyDateNotFound
		}
		kd.Status = status
		if kd.BreachedAt == nil && breachedAt != nil {
			kd.BreachedAt = breachedAt
		}
		st.keyDates[id] = kd
		return nil
	})
}

func (r *keyDateRepo) MarkEscalated(_ context.Context, id uuid.UUID, revision int, tier valueobject.Tier) error {
	return r.v.write(func(st *state) error {
		kd, ok := st.keyDates[id]
		if !ok {
			return apperror.ErrKeyDateNotFound
		}
		if kd.DueRevision != revision {
			return nil
		}
		kd.EscalatedTier = &tier
		st.keyDates[id] = kd
		return nil
	})
}
