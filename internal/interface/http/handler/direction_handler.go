package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/direction"
)

type DirectionHandler struct {
	createUC  *direction.CreateDirectionUseCase
	getUC     *direction.GetDirectionUseCase
	listUC    *direction.ListDirectionsUseCase
	updateUC  *direction.UpdateDirectionUseCase
	submitUC  *direction.SubmitDirectionUseCase
	vacateUC  *direction.VacateDirectionUseCase
	confirmUC *direction.ConfirmDirectionUseCase
}

func NewDirectionHandler(
	createUC *direction.CreateDirectionUseCase,
	getUC *direction.GetDirectionUseCase,
	listUC *direction.ListDirectionsUseCase,
	updateUC *direction.UpdateDirectionUseCase,
	submitUC *direction.SubmitDirectionUseCase,
	vacateUC *direction.VacateDirectionUseCase,
	confirmUC *direction.ConfirmDirectionUseCase,
) *DirectionHandler {
	return &DirectionHandler{
		createUC:  createUC,
		getUC:     getUC,
		listUC:    listUC,
		updateUC:  updateUC,
		submitUC:  submitUC,
		vacateUC:  vacateUC,
		confirmUC: confirmUC,
	}
}

func (h *DirectionHandler) Create(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateDirectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	dueAt, err := dto.ParseTime(req.DueAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.createUC.Execute(c.Request.Context(), direction.CreateDirectionInput{
		FirmID:      firmID,
		MatterID:    uuid.MustParse(req.MatterID),
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dueAt,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToDirectionResponse(d))
}

func (h *DirectionHandler) Get(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.getUC.Execute(c.Request.Context(), firmID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDirectionResponse(d))
}

// ListByMatter обрабатывает GET /api/matters/:id/directions.
func (h *DirectionHandler) ListByMatter(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	matterID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.listUC.Execute(c.Request.Context(), firmID, matterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDirectionResponses(items))
}

func (h *DirectionHandler) Update(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDirectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	dueAt, err := dto.ParseTime(req.DueAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.updateUC.Execute(c.Request.Context(), direction.UpdateDirectionInput{
		FirmID:      firmID,
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dueAt,
		ClearDueAt:  req.ClearDueAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDirectionResponse(d))
}

func (h *DirectionHandler) Submit(c *gin.Context) {
	h.transition(c, h.submitUC.Execute)
}

func (h *DirectionHandler) Vacate(c *gin.Context) {
	h.transition(c, h.vacateUC.Execute)
}

func (h *DirectionHandler) transition(c *gin.Context, exec func(ctx context.Context, firmID, id uuid.UUID) (*entity.Direction, error)) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	d, err := exec(c.Request.Context(), firmID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDirectionResponse(d))
}

// Confirm обрабатывает POST /api/directions/:id/confirm: указание становится
// CONFIRMED и по нему создаётся дедлайн в календаре.
func (h *DirectionHandler) Confirm(c *gin.Context) {
	userID, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.confirmUC.Execute(c.Request.Context(), direction.ConfirmDirectionInput{
		FirmID:      firmID,
		DirectionID: id,
		UserID:      userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ConfirmDirectionResponse{Direction: dto.ToDirectionResponse(out.Direction)}
	if out.CalendarEvent != nil {
		ev := dto.ToCalendarEventResponse(out.CalendarEvent)
		resp.CalendarEvent = &ev
	}
	response.Success(c, resp)
}
