package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ListInput struct {
	FirmID     uuid.UUID
	UserID     uuid.UUID
	UnreadOnly bool
	Page       int
	Limit      int
}

type ListOutput struct {
	Items       []*entity.Notification
	Total       int
	UnreadCount int
	Page        int
	Limit       int
}

type ListNotificationsUseCase struct {
	repo repository.NotificationRepository
}

func NewListNotificationsUseCase(repo repository.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{repo: repo}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, input ListInput) (*ListOutput, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	items, total, err := uc.repo.List(ctx, repository.NotificationFilter{
		FirmID:     input.FirmID,
		UserID:     input.UserID,
		UnreadOnly: input.UnreadOnly,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	unread, err := uc.repo.CountUnread(ctx, input.FirmID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Items: items, Total: total, UnreadCount: unread, Page: page, Limit: limit}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

type UnreadCountUseCase struct {
	repo repository.NotificationRepository
}

func NewUnreadCountUseCase(repo repository.NotificationRepository) *UnreadCountUseCase {
	return &UnreadCountUseCase{repo: repo}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, firmID, userID uuid.UUID) (int, error) {
	return uc.repo.CountUnread(ctx, firmID, userID)
}

type MarkReadUseCase struct {
	repo  repository.NotificationRepository
	clock clock.Clock
}

func NewMarkReadUseCase(repo repository.NotificationRepository, clk clock.Clock) *MarkReadUseCase {
	return &MarkReadUseCase{repo: repo, clock: clk}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, firmID, userID, notificationID uuid.UUID) error {
	n, err := uc.repo.FindByID(ctx, firmID, notificationID)
	if err != nil {
		return err
	}
	if !n.IsOwnedBy(userID) {
		return apperror.ErrForbidden
	}
	if n.IsRead() {
		return nil
	}
	return uc.repo.MarkRead(ctx, n.ID, uc.clock.Now())
}

type MarkAllReadUseCase struct {
	repo  repository.NotificationRepository
	clock clock.Clock
}

func NewMarkAllReadUseCase(repo repository.NotificationRepository, clk clock.Clock) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{repo: repo, clock: clk}
}

func (uc *MarkAllReadUseCase) Execute(ctx context.Context, firmID, userID uuid.UUID) (int, error) {
	return uc.repo.MarkAllRead(ctx, firmID, userID, uc.clock.Now())
}

type AcknowledgeInput struct {
	FirmID         uuid.UUID
	UserID         uuid.UUID
	NotificationID uuid.UUID
	Status         string
	Note           *string
}

// AcknowledgeUseCase записывает ответ на уведомление; подтверждённое считается прочитанным.
type AcknowledgeUseCase struct {
	repo  repository.NotificationRepository
	clock clock.Clock
}

func NewAcknowledgeUseCase(repo repository.NotificationRepository, clk clock.Clock) *AcknowledgeUseCase {
	return &AcknowledgeUseCase{repo: repo, clock: clk}
}

func (uc *AcknowledgeUseCase) Execute(ctx context.Context, input AcknowledgeInput) (*entity.Acknowledgement, error) {
	status, err := valueobject.NewAckStatus(input.Status)
	if err != nil {
		return nil, err
	}

	n, err := uc.repo.FindByID(ctx, input.FirmID, input.NotificationID)
	if err != nil {
		return nil, err
	}
	if !n.IsOwnedBy(input.UserID) {
		return nil, apperror.ErrForbidden
	}

	now := uc.clock.Now()
	ack := &entity.Acknowledgement{
		ID:             uuid.New(),
		NotificationID: n.ID,
		UserID:         input.UserID,
		Status:         status,
		Note:           input.Note,
		AcknowledgedAt: now,
	}
	if err := uc.repo.SaveAcknowledgement(ctx, ack); err != nil {
		return nil, err
	}
	if !n.IsRead() {
		if err := uc.repo.MarkRead(ctx, n.ID, now); err != nil {
			return nil, err
		}
	}
	return ack, nil
}
