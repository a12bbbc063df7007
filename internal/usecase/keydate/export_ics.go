package keydate

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

const icsProductID = "-//LexSuite//Key Dates//RU"

type ExportICSUseCase struct {
	keyDates repository.KeyDateRepository
	clock    clock.Clock
}

func NewExportICSUseCase(keyDates repository.KeyDateRepository, clk clock.Clock) *ExportICSUseCase {
	return &ExportICSUseCase{keyDates: keyDates, clock: clk}
}

// Execute возвращает ключевую дату как событие календаря на весь день срока.
func (uc *ExportICSUseCase) Execute(ctx context.Context, firmID, id uuid.UUID) (string, error) {
	kd, err := uc.keyDates.FindByID(ctx, firmID, id)
	if err != nil {
		return "", err
	}
	return BuildCalendar(kd, uc.clock.Now()).Serialize(), nil
}

func BuildCalendar(kd *entity.KeyDate, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetMethod(ics.MethodPublish)

	summary := kd.Title
	if kd.MatterReference != "" {
		summary = fmt.Sprintf("[%s] %s", kd.MatterReference, kd.Title)
	}

	day := kd.DueAt.UTC()
	event := cal.AddEvent(kd.ID.String() + "@keydates")
	event.SetDtStampTime(now.UTC())
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	event.SetSummary(summary)
	if kd.Description != nil && *kd.Description != "" {
		event.SetDescription(*kd.Description)
	}
	event.SetProperty(ics.ComponentPropertyPriority, icsPriority(kd.Priority))
	return cal
}

func icsPriority(p valueobject.Priority) string {
	switch p {
	case valueobject.PriorityHigh:
		return "1"
	case valueobject.PriorityLow:
		return "9"
	}
	return "5"
}
