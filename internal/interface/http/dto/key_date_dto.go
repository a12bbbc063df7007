package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
)

type CreateKeyDateRequest struct {
	MatterID    string  `json:"matter_id" binding:"required,uuid"`
	OwnerID     string  `json:"owner_id" binding:"required,uuid"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	DueAt       string  `json:"due_at" binding:"required"`
	Priority    string  `json:"priority"`
}

// UpdateKeyDateRequest: отсутствующие поля не меняются.
// Reopen снимает отметку о выполнении.
type UpdateKeyDateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueAt       *string `json:"due_at"`
	OwnerID     *string `json:"owner_id"`
	Priority    *string `json:"priority"`
	CompletedAt *string `json:"completed_at"`
	Reopen      bool    `json:"reopen"`
}

type KeyDateResponse struct {
	ID              uuid.UUID  `json:"id"`
	MatterID        uuid.UUID  `json:"matter_id"`
	MatterReference string     `json:"matter_reference,omitempty"`
	MatterTitle     string     `json:"matter_title,omitempty"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	DueAt           time.Time  `json:"due_at"`
	Priority        string     `json:"priority"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	Status          string     `json:"status"`
	DaysUntilDue    int        `json:"days_until_due"`
	CompletedAt     *time.Time `json:"completed_at"`
	BreachedAt      *time.Time `json:"breached_at"`
	EscalatedTier   *string    `json:"escalated_tier"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ToKeyDateResponse(kd *entity.KeyDate, now time.Time) KeyDateResponse {
	resp := KeyDateResponse{
		ID:              kd.ID,
		MatterID:        kd.MatterID,
		MatterReference: kd.MatterReference,
		MatterTitle:     kd.MatterTitle,
		Title:           kd.Title,
		Description:     kd.Description,
		DueAt:           kd.DueAt,
		Priority:        string(kd.Priority),
		OwnerID:         kd.OwnerID,
		Status:          string(kd.Status),
		DaysUntilDue:    rules.DaysUntilDue(kd.DueAt, now),
		CompletedAt:     kd.CompletedAt,
		BreachedAt:      kd.BreachedAt,
		CreatedAt:       kd.CreatedAt,
		UpdatedAt:       kd.UpdatedAt,
	}
	if kd.EscalatedTier != nil {
		tier := string(*kd.EscalatedTier)
		resp.EscalatedTier = &tier
	}
	return resp
}

func ToKeyDateResponses(items []*entity.KeyDate, now time.Time) []KeyDateResponse {
	out := make([]KeyDateResponse, 0, len(items))
	for _, kd := range items {
		out = append(out, ToKeyDateResponse(kd, now))
	}
	return out
}
