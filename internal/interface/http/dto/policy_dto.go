package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

type UpsertPolicyRequest struct {
	OffsetHours int      `json:"offset_hours" binding:"gte=0"`
	EscalateTo  string   `json:"escalate_to" binding:"required"`
	Channels    []string `json:"channels" binding:"required,min=1"`
	IsActive    *bool    `json:"is_active"`
}

type PolicyResponse struct {
	ID          uuid.UUID `json:"id"`
	Tier        string    `json:"tier"`
	OffsetHours int       `json:"offset_hours"`
	EscalateTo  string    `json:"escalate_to"`
	Channels    []string  `json:"channels"`
	IsActive    bool      `json:"is_active"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToPolicyResponses(items []entity.EscalationPolicy) []PolicyResponse {
	out := make([]PolicyResponse, 0, len(items))
	for i := range items {
		out = append(out, ToPolicyResponse(&items[i]))
	}
	return out
}

func ToPolicyResponse(p *entity.EscalationPolicy) PolicyResponse {
	channels := make([]string, len(p.Channels))
	for i, c := range p.Channels {
		channels[i] = string(c)
	}
	return PolicyResponse{
		ID:          p.ID,
		Tier:        string(p.Tier),
		OffsetHours: p.OffsetHours,
		EscalateTo:  string(p.EscalateTo),
		Channels:    channels,
		IsActive:    p.IsActive,
		UpdatedAt:   p.UpdatedAt,
	}
}
