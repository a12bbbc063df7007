package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
)

// PassRunner запускает один проход пересчёта по фирме.
type PassRunner interface {
	RunPass(ctx context.Context, firmID uuid.UUID) (*escalation.PassSummary, error)
}

type EscalationHandler struct {
	runner PassRunner
}

func NewEscalationHandler(runner PassRunner) *EscalationHandler {
	return &EscalationHandler{runner: runner}
}

// Recompute обрабатывает POST /api/escalation/recompute для фирмы вызывающего.
// Если проход по фирме уже идёт, отвечает 409.
func (h *EscalationHandler) Recompute(c *gin.Context) {
	userID, firmID, ok := caller(c)
	if !ok {
		return
	}

	summary, err := h.runner.RunPass(c.Request.Context(), firmID)
	if err != nil {
		response.Error(c, err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"firm_id":    firmID,
		"user_id":    userID,
		"pass_id":    summary.PassID,
		"dispatched": summary.Dispatched,
	}).Info("ручной пересчёт выполнен")
	response.Success(c, summary)
}
