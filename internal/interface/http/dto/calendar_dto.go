package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

type CreateDeadlineRequest struct {
	MatterID    string  `json:"matter_id" binding:"required,uuid"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	DueAt       string  `json:"due_at" binding:"required"`
}

type CalendarEventResponse struct {
	ID              uuid.UUID  `json:"id"`
	MatterID        uuid.UUID  `json:"matter_id"`
	MatterReference string     `json:"matter_reference,omitempty"`
	MatterTitle     string     `json:"matter_title,omitempty"`
	DirectionID     *uuid.UUID `json:"direction_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	StartAt         time.Time  `json:"start_at"`
	IsAllDay        bool       `json:"is_all_day"`
	IsDeadline      bool       `json:"is_deadline"`
	IsOverdue       bool       `json:"is_overdue"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ToCalendarEventResponse(ev *entity.CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		ID:              ev.ID,
		MatterID:        ev.MatterID,
		MatterReference: ev.MatterReference,
		MatterTitle:     ev.MatterTitle,
		DirectionID:     ev.DirectionID,
		Title:           ev.Title,
		Description:     ev.Description,
		StartAt:         ev.StartAt,
		IsAllDay:        ev.IsAllDay,
		IsDeadline:      ev.IsDeadline,
		IsOverdue:       ev.IsOverdue,
		CompletedAt:     ev.CompletedAt,
		CreatedAt:       ev.CreatedAt,
	}
}

func ToCalendarEventResponses(items []*entity.CalendarEvent) []CalendarEventResponse {
	out := make([]CalendarEventResponse, 0, len(items))
	for _, ev := range items {
		out = append(out, ToCalendarEventResponse(ev))
	}
	return out
}
