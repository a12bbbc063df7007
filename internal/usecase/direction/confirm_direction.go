package direction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/notification"
)

type ConfirmDirectionInput struct {
	FirmID      uuid.UUID
	DirectionID uuid.UUID
	UserID      uuid.UUID
}

type ConfirmDirectionOutput struct {
	Direction     *entity.Direction
	CalendarEvent *entity.CalendarEvent
}

// ConfirmDirectionUseCase подтверждает указание и создаёт по нему дедлайн.
// Смена статуса и создание дедлайна выполняются в одной транзакции.
type ConfirmDirectionUseCase struct {
	uow           repository.UnitOfWork
	matters       repository.MatterRepository
	notifications repository.NotificationRepository
	deliverer     notification.Deliverer
	clock         clock.Clock
}

func NewConfirmDirectionUseCase(
	uow repository.UnitOfWork,
	matters repository.MatterRepository,
	notifications repository.NotificationRepository,
	deliverer notification.Deliverer,
	clk clock.Clock,
) *ConfirmDirectionUseCase {
	if deliverer == nil {
		deliverer = notification.Discard
	}
	return &ConfirmDirectionUseCase{
		uow:           uow,
		matters:       matters,
		notifications: notifications,
		deliverer:     deliverer,
		clock:         clk,
	}
}

func (uc *ConfirmDirectionUseCase) Execute(ctx context.Context, input ConfirmDirectionInput) (*ConfirmDirectionOutput, error) {
	now := uc.clock.Now()
	out := &ConfirmDirectionOutput{}

	err := uc.uow.WithinTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		d, err := tx.Directions.LockByID(ctx, input.FirmID, input.DirectionID)
		if err != nil {
			return err
		}
		if err := d.Confirm(input.UserID, now); err != nil {
			return err
		}
		if err := tx.Directions.Update(ctx, d); err != nil {
			return err
		}
		out.Direction = d

		out.CalendarEvent, err = createDeadline(ctx, tx, d, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notifyOwner(ctx, out.Direction, input.UserID)
	return out, nil
}

// notifyOwner сообщает владельцу дела о подтверждении. Ошибки только логируются.
func (uc *ConfirmDirectionUseCase) notifyOwner(ctx context.Context, d *entity.Direction, confirmedBy uuid.UUID) {
	log := logger.Log.WithFields(logrus.Fields{"direction_id": d.ID, "matter_id": d.MatterID})

	team, err := uc.matters.FindTeam(ctx, d.FirmID, d.MatterID)
	if err != nil {
		log.WithError(err).Warn("Не удалось найти дело для уведомления о подтверждении")
		return
	}
	if team.OwnerID == nil || *team.OwnerID == confirmedBy {
		return
	}

	matterID := d.MatterID
	message := fmt.Sprintf("Указание «%s» по делу %s подтверждено", d.Title, team.Reference)
	if d.DueAt != nil {
		message += fmt.Sprintf(", срок %s", d.DueAt.Format("02.01.2006"))
	}
	n := &entity.Notification{
		ID:        uuid.New(),
		FirmID:    d.FirmID,
		UserID:    *team.OwnerID,
		Type:      valueobject.NotificationTypeDirectionConfirmed,
		Channel:   valueobject.ChannelInApp,
		Title:     "Указание суда подтверждено",
		Message:   message,
		MatterID:  &matterID,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.notifications.Create(ctx, n); err != nil {
		log.WithError(err).Warn("Не удалось создать уведомление о подтверждении")
		return
	}
	if err := uc.deliverer.Deliver(ctx, n); err != nil {
		log.WithError(err).Warn("Не удалось доставить уведомление о подтверждении")
	}
}
