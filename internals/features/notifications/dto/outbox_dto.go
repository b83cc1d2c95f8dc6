package dto

import (
	"time"

	"workshop_backend/internals/features/notifications/model"
)

// OutboxDTO is the admin view of one notification intent; the payload stays server side.
type OutboxDTO struct {
	ID            string     `json:"id"`
	Channel       string     `json:"channel"`
	Kind          string     `json:"kind"`
	Recipient     string     `json:"recipient"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	NextAttemptAt time.Time  `json:"nextAttemptAt"`
	LastError     *string    `json:"lastError,omitempty"`
	FallbackLink  *string    `json:"fallbackLink,omitempty"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func ToOutboxDTO(m model.OutboxModel) OutboxDTO {
	return OutboxDTO{
		ID:            m.OutboxID,
		Channel:       string(m.OutboxChannel),
		Kind:          string(m.OutboxKind),
		Recipient:     m.OutboxRecipient,
		Status:        string(m.OutboxStatus),
		Attempts:      m.OutboxAttempts,
		NextAttemptAt: m.OutboxNextAttemptAt,
		LastError:     m.OutboxLastError,
		FallbackLink:  m.OutboxFallbackLink,
		DeliveredAt:   m.OutboxDeliveredAt,
		CreatedAt:     m.CreatedAt,
	}
}

func ToOutboxDTOs(rows []model.OutboxModel) []OutboxDTO {
	out := make([]OutboxDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToOutboxDTO(r))
	}
	return out
}
