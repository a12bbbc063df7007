package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/notification"
)

type NotificationHandler struct {
	listUC    *notification.ListNotificationsUseCase
	unreadUC  *notification.UnreadCountUseCase
	markUC    *notification.MarkReadUseCase
	markAllUC *notification.MarkAllReadUseCase
	ackUC     *notification.AcknowledgeUseCase
}

func NewNotificationHandler(
	listUC *notification.ListNotificationsUseCase,
	unreadUC *notification.UnreadCountUseCase,
	markUC *notification.MarkReadUseCase,
	markAllUC *notification.MarkAllReadUseCase,
	ackUC *notification.AcknowledgeUseCase,
) *NotificationHandler {
	return &NotificationHandler{
		listUC:    listUC,
		unreadUC:  unreadUC,
		markUC:    markUC,
		markAllUC: markAllUC,
		ackUC:     ackUC,
	}
}

// List обрабатывает GET /api/notifications?unread=true&page=&limit=.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, firmID, ok := caller(c)
	if !ok {
		return
	}

	out, err := h.listUC.Execute(c.Request.Context(), notification.ListInput{
		FirmID:     firmID,
		UserID:     userID,
		UnreadOnly: parseBoolQuery(c, "unread"),
		Page:       parseIntQuery(c, "page", 1),
		Limit:      parseIntQuery(c, "limit", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := dto.UnreadCountResponse{Count: out.UnreadCount}
	response.Paginated(c, dto.ToNotificationResponses(out.Items), out.Total, out.Page, out.Limit, meta)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, firmID, ok := caller(c)
	if !ok {
		return
	}

	count, err := h.unreadUC.Execute(c.Request.Context(), firmID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.markUC.Execute(c.Request.Context(), firmID, userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, firmID, ok := caller(c)
	if !ok {
		return
	}

	updated, err := h.markAllUC.Execute(c.Request.Context(), firmID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": updated})
}

func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	userID, firmID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req dto.AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	ack, err := h.ackUC.Execute(c.Request.Context(), notification.AcknowledgeInput{
		FirmID:         firmID,
		UserID:         userID,
		NotificationID: id,
		Status:         req.Status,
		Note:           req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AcknowledgementResponse{
		Status:         string(ack.Status),
		Note:           ack.Note,
		UserID:         ack.UserID,
		AcknowledgedAt: ack.AcknowledgedAt,
	})
}
