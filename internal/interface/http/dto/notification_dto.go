package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

type AcknowledgeRequest struct {
	Status string  `json:"status" binding:"required"`
	Note   *string `json:"note"`
}

type AcknowledgementResponse struct {
	Status         string    `json:"status"`
	Note           *string   `json:"note"`
	UserID         uuid.UUID `json:"user_id"`
	AcknowledgedAt time.Time `json:"acknowledged_at"`
}

type NotificationResponse struct {
	ID              uuid.UUID                `json:"id"`
	Type            string                   `json:"type"`
	Channel         string                   `json:"channel"`
	Title           string                   `json:"title"`
	Message         string                   `json:"message"`
	SourceKind      *string                  `json:"source_kind"`
	SourceID        *uuid.UUID               `json:"source_id"`
	MatterID        *uuid.UUID               `json:"matter_id"`
	Tier            *string                  `json:"tier"`
	ReadAt          *time.Time               `json:"read_at"`
	CreatedAt       time.Time                `json:"created_at"`
	Acknowledgement *AcknowledgementResponse `json:"acknowledgement"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Channel:   string(n.Channel),
		Title:     n.Title,
		Message:   n.Message,
		SourceID:  n.SourceID,
		MatterID:  n.MatterID,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.SourceKind != nil {
		kind := string(*n.SourceKind)
		resp.SourceKind = &kind
	}
	if n.Tier != nil {
		tier := string(*n.Tier)
		resp.Tier = &tier
	}
	if ack := n.Acknowledgement; ack != nil {
		resp.Acknowledgement = &AcknowledgementResponse{
			Status:         string(ack.Status),
			Note:           ack.Note,
			UserID:         ack.UserID,
			AcknowledgedAt: ack.AcknowledgedAt,
		}
	}
	return resp
}

func ToNotificationResponses(items []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, ToNotificationResponse(n))
	}
	return out
}
