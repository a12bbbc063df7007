package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type directionRepo struct {
	v *view
}

func (r *directionRepo) Create(_ context.Context, d *entity.Direction) error {
	item := *d
	return r.v.write(func(st *state) error {
		st.directions[item.ID] = item
		return nil
	})
}

func (r *directionRepo) Update(_ context.Context, d *entity.Direction) error {
	item := *d
	return r.v.write(func(st *state) error {
		if _, ok := st.directions[item.ID]; !ok {
			return apperror.ErrDirectionNotFound
		}
		st.directions[item.ID] = item
		return nil
	})
}

func (r *directionRepo) FindByID(_ context.Context, firmID, id uuid.UUID) (*entity.Direction, error) {
	st, done := r.v.read()
	defer done()
	d, ok := st.directions[id]
	if !ok || d.FirmID != firmID {
		return nil, apperror.ErrDirectionNotFound
	}
	return &d, nil
}

// LockByID: транзакции хранилища и так выполняются по одной.
func (r *directionRepo) LockByID(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error) {
	return r.FindByID(ctx, firmID, id)
}

func (r *directionRepo) ListByMatter(_ context.Context, firmID, matterID uuid.UUID) ([]*entity.Direction, error) {
	st, done := r.v.read()
	defer done()

	out := make([]*entity.Direction, 0)
	for _, d := range st.directions {
		if d.FirmID == firmID && d.MatterID == matterID {
			item := d
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
