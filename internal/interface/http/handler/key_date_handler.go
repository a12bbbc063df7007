package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/keydate"
)

type KeyDateHandler struct {
	createUC   *keydate.CreateKeyDateUseCase
	updateUC   *keydate.UpdateKeyDateUseCase
	completeUC *keydate.CompleteKeyDateUseCase
	deleteUC   *keydate.DeleteKeyDateUseCase
	getUC      *keydate.GetKeyDateUseCase
	listUC     *keydate.ListKeyDatesUseCase
	exportUC   *keydate.ExportICSUseCase
	clock      clock.Clock
}

func NewKeyDateHandler(
	createUC *keydate.CreateKeyDateUseCase,
	updateUC *keydate.UpdateKeyDateUseCase,
	completeUC *keydate.CompleteKeyDateUseCase,
	deleteUC *keydate.DeleteKeyDateUseCase,
	getUC *keydate.GetKeyDateUseCase,
	listUC *keydate.ListKeyDatesUseCase,
	exportUC *keydate.ExportICSUseCase,
	clk clock.Clock,
) *KeyDateHandler {
	return &KeyDateHandler{
		createUC:   createUC,
		updateUC:   updateUC,
		completeUC: completeUC,
		deleteUC:   deleteUC,
		getUC:      getUC,
		listUC:     listUC,
		exportUC:   exportUC,
		clock:      clk,
	}
}

// List обрабатывает GET /api/key-dates.
func (h *KeyDateHandler) List(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	matterID, ok := queryUUID(c, "matter_id")
	if !ok {
		return
	}

	out, err := h.listUC.Execute(c.Request.Context(), keydate.ListKeyDatesInput{
		FirmID:           firmID,
		MatterID:         matterID,
		Status:           c.Query("status"),
		Search:           c.Query("search"),
		IncludeCompleted: parseBoolQuery(c, "include_completed"),
		Page:             parseIntQuery(c, "page", 1),
		Limit:            parseIntQuery(c, "limit", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToKeyDateResponses(out.Items, out.Now), out.Total, out.Page, out.Limit, nil)
}

func (h *KeyDateHandler) Get(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	kd, err := h.getUC.Execute(c.Request.Context(), firmID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToKeyDateResponse(kd, h.clock.Now()))
}

func (h *KeyDateHandler) Create(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateKeyDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	dueAt, err := dto.ParseRequiredTime(req.DueAt)
	if err != nil {
		response.Error(c, err)
		return
	}

	kd, err := h.createUC.Execute(c.Request.Context(), keydate.CreateKeyDateInput{
		FirmID:      firmID,
		MatterID:    uuid.MustParse(req.MatterID),
		OwnerID:     uuid.MustParse(req.OwnerID),
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dueAt,
		Priority:    req.Priority,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToKeyDateResponse(kd, h.clock.Now()))
}

func (h *KeyDateHandler) Update(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateKeyDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	dueAt, err := dto.ParseTime(req.DueAt)
	if err != nil {
		response.Error(c, err)
		return
	}
	completedAt, err := dto.ParseTime(req.CompletedAt)
	if err != nil {
		response.Error(c, err)
		return
	}
	ownerID, err := dto.ParseUUIDPtr(req.OwnerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	kd, err := h.updateUC.Execute(c.Request.Context(), keydate.UpdateKeyDateInput{
		FirmID:      firmID,
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dueAt,
		OwnerID:     ownerID,
		Priority:    req.Priority,
		CompletedAt: completedAt,
		Reopen:      req.Reopen,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToKeyDateResponse(kd, h.clock.Now()))
}

// Complete обрабатывает POST /api/key-dates/:id/complete.
func (h *KeyDateHandler) Complete(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	kd, err := h.completeUC.Execute(c.Request.Context(), firmID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToKeyDateResponse(kd, h.clock.Now()))
}

func (h *KeyDateHandler) Delete(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), firmID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportICS отдаёт ключевую дату файлом календаря.
func (h *KeyDateHandler) ExportICS(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	body, err := h.exportUC.Execute(c.Request.Context(), firmID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="key-date-`+id.String()+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
