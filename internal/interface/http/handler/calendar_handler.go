package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/calendar"
)

type CalendarHandler struct {
	listUC     *calendar.ListCalendarUseCase
	createUC   *calendar.CreateDeadlineUseCase
	completeUC *calendar.CompleteEventUseCase
}

func NewCalendarHandler(listUC *calendar.ListCalendarUseCase, createUC *calendar.CreateDeadlineUseCase, completeUC *calendar.CompleteEventUseCase) *CalendarHandler {
	return &CalendarHandler{listUC: listUC, createUC: createUC, completeUC: completeUC}
}

// List обрабатывает GET /api/calendar?from=&to=&matter_id=&deadlines_only=&overdue_only=.
func (h *CalendarHandler) List(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	matterID, ok := queryUUID(c, "matter_id")
	if !ok {
		return
	}
	from, to := c.Query("from"), c.Query("to")
	fromAt, err := dto.ParseTime(&from)
	if err != nil {
		response.Error(c, err)
		return
	}
	toAt, err := dto.ParseTime(&to)
	if err != nil {
		response.Error(c, err)
		return
	}

	events, err := h.listUC.Execute(c.Request.Context(), calendar.ListInput{
		FirmID:        firmID,
		MatterID:      matterID,
		From:          fromAt,
		To:            toAt,
		DeadlinesOnly: parseBoolQuery(c, "deadlines_only"),
		OverdueOnly:   parseBoolQuery(c, "overdue_only"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCalendarEventResponses(events))
}

func (h *CalendarHandler) CreateDeadline(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	dueAt, err := dto.ParseRequiredTime(req.DueAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	ev, err := h.createUC.Execute(c.Request.Context(), calendar.CreateDeadlineInput{
		FirmID:      firmID,
		MatterID:    uuid.MustParse(req.MatterID),
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dueAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToCalendarEventResponse(ev))
}

func (h *CalendarHandler) Complete(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	ev, err := h.completeUC.Execute(c.Request.Context(), firmID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCalendarEventResponse(ev))
}
