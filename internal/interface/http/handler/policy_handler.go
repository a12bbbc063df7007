package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
)

type PolicyHandler struct {
	policies *escalation.PolicyService
}

func NewPolicyHandler(policies *escalation.PolicyService) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

// List отдаёт сохранённые политики фирмы, а с ?effective=true действующие с учётом шаблонов.
func (h *PolicyHandler) List(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}

	list := h.policies.List
	if parseBoolQuery(c, "effective") {
		list = h.policies.Effective
	}
	items, err := list(c.Request.Context(), firmID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPolicyResponses(items))
}

// Upsert обрабатывает PUT /api/escalation-policies/:tier.
func (h *PolicyHandler) Upsert(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}

	var req dto.UpsertPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	p, err := h.policies.Upsert(c.Request.Context(), firmID, escalation.UpsertPolicyInput{
		Tier:        strings.ToUpper(c.Param("tier")),
		OffsetHours: req.OffsetHours,
		EscalateTo:  req.EscalateTo,
		Channels:    req.Channels,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPolicyResponse(p))
}

func (h *PolicyHandler) Seed(c *gin.Context) {
	_, firmID, ok := caller(c)
	if !ok {
		return
	}

	items, err := h.policies.SeedDefaults(c.Request.Context(), firmID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPolicyResponses(items))
}
