package model

import (
	"time"

	"gorm.io/datatypes"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEvent    Channel = "event"
)

type Kind string

const (
	KindRegistrationPending   Kind = "registration_pending"
	KindAdminNotify           Kind = "admin_notify"
	KindPaymentConfirmed      Kind = "payment_confirmed"
	KindPaymentConfirmedAdmin Kind = "payment_confirmed_admin"
)

// Status of an outbox row. Everything except pending is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusQueued    Status = "queued"   // handed to the WhatsApp pending queue
	StatusFallback  Status = "fallback" // WhatsApp unavailable, click-to-chat link recorded
	StatusDead      Status = "dead"
)

/* ===========================
   NOTIFICATION OUTBOX
   =========================== */
type OutboxModel struct {
	OutboxID             string         `gorm:"column:outbox_id;primaryKey;type:uuid;default:gen_random_uuid()"`
	OutboxRegistrationID string         `gorm:"column:outbox_registration_id;type:uuid;not null;index"`
	OutboxDedupKey       string         `gorm:"column:outbox_dedup_key;type:varchar(120);not null;uniqueIndex:uq_outbox_dedup_key"`
	OutboxChannel        Channel        `gorm:"column:outbox_channel;type:varchar(20);not null"`
	OutboxKind           Kind           `gorm:"column:outbox_kind;type:varchar(50);not null"`
	OutboxRecipient      string         `gorm:"column:outbox_recipient;type:varchar(255);not null"`
	OutboxPayload        datatypes.JSON `gorm:"column:outbox_payload;type:jsonb;not null"`
	OutboxStatus         Status         `gorm:"column:outbox_status;type:varchar(20);not null;default:pending"`
	OutboxAttempts       int            `gorm:"column:outbox_attempts;not null;default:0"`
	OutboxNextAttemptAt  time.Time      `gorm:"column:outbox_next_attempt_at;not null"`
	OutboxLastError      *string        `gorm:"column:outbox_last_error;type:text"`
	OutboxFallbackLink   *string        `gorm:"column:outbox_fallback_link;type:text"`
	OutboxDeliveredAt    *time.Time     `gorm:"column:outbox_delivered_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (OutboxModel) TableName() string { return "notification_outbox" }

func DedupKey(registrationID string, kind Kind, channel Channel) string {
	return registrationID + ":" + string(kind) + ":" + string(channel)
}

// ===== payloads (rendered before insert, so dispatch never re-reads the registration)

type EmailPayload struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

type WhatsAppPayload struct {
	Body string `json:"body"`
}

type EventPayload struct {
	Type       string            `json:"type"`
	Key        string            `json:"key"`
	Data       datatypes.JSON    `json:"data"`
	Headers    map[string]string `json:"headers,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
