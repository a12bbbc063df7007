package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

type CreateDirectionRequest struct {
	MatterID    string  `json:"matter_id" binding:"required,uuid"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	DueAt       *string `json:"due_at"`
	Status      string  `json:"status"`
}

type UpdateDirectionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueAt       *string `json:"due_at"`
	ClearDueAt  bool    `json:"clear_due_at"`
}

type DirectionResponse struct {
	ID            uuid.UUID  `json:"id"`
	MatterID      uuid.UUID  `json:"matter_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	DueAt         *time.Time `json:"due_at"`
	Status        string     `json:"status"`
	ConfirmedByID *uuid.UUID `json:"confirmed_by_id"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ConfirmDirectionResponse struct {
	Direction     DirectionResponse      `json:"direction"`
	CalendarEvent *CalendarEventResponse `json:"calendar_event"`
}

func ToDirectionResponse(d *entity.Direction) DirectionResponse {
	return DirectionResponse{
		ID:            d.ID,
		MatterID:      d.MatterID,
		Title:         d.Title,
		Description:   d.Description,
		DueAt:         d.DueAt,
		Status:        string(d.Status),
		ConfirmedByID: d.ConfirmedByID,
		ConfirmedAt:   d.ConfirmedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func ToDirectionResponses(items []*entity.Direction) []DirectionResponse {
	out := make([]DirectionResponse, 0, len(items))
	for _, d := range items {
		out = append(out, ToDirectionResponse(d))
	}
	return out
}
