package keydate

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ListKeyDatesInput struct {
	FirmID           uuid.UUID
	MatterID         *uuid.UUID
	Status           string
	Search           string
	IncludeCompleted bool
	Page             int
	Limit            int
}

type ListKeyDatesOutput struct {
	Items []*entity.KeyDate
	Total int
	Page  int
	Limit int
	Now   time.Time
}

// ListKeyDatesUseCase отдаёт ключевые даты со статусом, вычисленным на момент запроса.
// Сохранённый статус служит кэшем и здесь не используется.
type ListKeyDatesUseCase struct {
	keyDates repository.KeyDateRepository
	clock    clock.Clock
}

func NewListKeyDatesUseCase(keyDates repository.KeyDateRepository, clk clock.Clock) *ListKeyDatesUseCase {
	return &ListKeyDatesUseCase{keyDates: keyDates, clock: clk}
}

func (uc *ListKeyDatesUseCase) Execute(ctx context.Context, input ListKeyDatesInput) (*ListKeyDatesOutput, error) {
	var statusFilter valueobject.KeyDateStatus
	if input.Status != "" {
		s, err := valueobject.NewKeyDateStatus(input.Status)
		if err != nil {
			return nil, err
		}
		statusFilter = s
	}

	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	all, err := uc.keyDates.List(ctx, repository.KeyDateFilter{
		FirmID:           input.FirmID,
		MatterID:         input.MatterID,
		Search:           input.Search,
		IncludeCompleted: input.IncludeCompleted,
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	items := make([]*entity.KeyDate, 0, len(all))
	for _, kd := range all {
		kd.Status = rules.Classify(kd.DueAt, kd.CompletedAt, now)
		if statusFilter != "" && kd.Status != statusFilter {
			continue
		}
		items = append(items, kd)
	}
	SortByUrgency(items)

	total := len(items)
	from := (page - 1) * limit
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}

	return &ListKeyDatesOutput{Items: items[from:to], Total: total, Page: page, Limit: limit, Now: now}, nil
}

// SortByUrgency ставит BREACH первыми, за ними OVERDUE, AT_RISK и ON_TRACK, внутри группы по сроку.
func SortByUrgency(items []*entity.KeyDate) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Status.Urgency() != b.Status.Urgency() {
			return a.Status.Urgency() < b.Status.Urgency()
		}
		return a.DueAt.Before(b.DueAt)
	})
}

type GetKeyDateUseCase struct {
	keyDates repository.KeyDateRepository
	clock    clock.Clock
}

func NewGetKeyDateUseCase(keyDates repository.KeyDateRepository, clk clock.Clock) *GetKeyDateUseCase {
	return &GetKeyDateUseCase{keyDates: keyDates, clock: clk}
}

func (uc *GetKeyDateUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) (*entity.KeyDate, error) {
	kd, err := uc.keyDates.FindByID(ctx, firmID, id)
	if err != nil {
		return nil, err
	}
	kd.Status = rules.Classify(kd.DueAt, kd.CompletedAt, uc.clock.Now())
	return kd, nil
}
