package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"workshop_backend/internals/configs"
	"workshop_backend/internals/features/notifications/events"
	"workshop_backend/internals/features/notifications/model"
	"workshop_backend/internals/features/notifications/templates"
)

type Phase int

const (
	PhaseCreated Phase = iota
	PhasePaymentConfirmed
)

type PlannerConfig struct {
	AdminEmail string
	// SkipAdmin drops the admin intent (development with the placeholder address).
	SkipAdmin  bool
	BackendURL string
	Events     bool
	// Lease delays the first worker pickup so inline dispatch gets the first go.
	Lease time.Duration
}

// Planner renders the notification intents for a phase transition.
type Planner struct {
	cfg PlannerConfig
	now func() time.Time
}

func NewPlanner(cfg PlannerConfig) *Planner {
	return &Planner{cfg: cfg, now: time.Now}
}

// InlineLease is how long a fresh intent stays reserved for the post-commit
// dispatch before the worker may claim it. One phase writes at most four intents.
func InlineLease(cfg configs.OutboxConfig) time.Duration {
	if !cfg.InlineDispatch {
		return 0
	}
	return 4*attemptBudget(cfg.SendTimeout) + time.Minute
}

func (p *Planner) ScreenshotURL(registrationID string) string {
	return strings.TrimRight(p.cfg.BackendURL, "/") + "/api/registrations/" + registrationID + "/screenshot"
}

// Plan returns the outbox rows for one phase of one registration.
func (p *Planner) Plan(phase Phase, r templates.Registration, hasScreenshot bool) ([]model.OutboxModel, error) {
	userKind, adminKind, eventType := model.KindRegistrationPending, model.KindAdminNotify, events.TypeRegistrationCreated
	if phase == PhasePaymentConfirmed {
		userKind, adminKind, eventType = model.KindPaymentConfirmed, model.KindPaymentConfirmedAdmin, events.TypeRegistrationPaymentConfirmed
	}
	if hasScreenshot {
		r.ScreenshotURL = p.ScreenshotURL(r.ID)
	}

	var rows []model.OutboxModel

	if !p.cfg.SkipAdmin && p.cfg.AdminEmail != "" {
		mail, err := templates.Email(adminKind, r)
		if err != nil {
			return nil, err
		}
		row, err := p.row(r.ID, adminKind, model.ChannelEmail, p.cfg.AdminEmail, mail)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	mail, err := templates.Email(userKind, r)
	if err != nil {
		return nil, err
	}
	row, err := p.row(r.ID, userKind, model.ChannelEmail, r.Email, mail)
	if err != nil {
		return nil, err
	}
	rows = append(rows, row)

	if strings.TrimSpace(r.Phone) != "" {
		msg, err := templates.WhatsApp(userKind, r)
		if err != nil {
			return nil, err
		}
		row, err := p.row(r.ID, userKind, model.ChannelWhatsApp, r.Phone, msg)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if p.cfg.Events {
		data, err := sonic.Marshal(eventData{
			ID:              r.ID,
			Name:            r.Name,
			Email:           r.Email,
			PaymentStatus:   r.PaymentStatus,
			PreferredDates:  r.PreferredDates,
			PreferredTiming: r.PreferredTiming,
			CreatedAt:       r.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("encode event data: %w", err)
		}
		row, err := p.row(r.ID, userKind, model.ChannelEvent, "kafka", model.EventPayload{
			Type:       eventType,
			Key:        r.ID,
			Data:       datatypes.JSON(data),
			OccurredAt: p.now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

type eventData struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PaymentStatus   string    `json:"paymentStatus"`
	PreferredDates  []string  `json:"preferredDates"`
	PreferredTiming string    `json:"preferredTiming"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (p *Planner) row(registrationID string, kind model.Kind, ch model.Channel, recipient string, payload any) (model.OutboxModel, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return model.OutboxModel{}, fmt.Errorf("encode %s/%s payload: %w", kind, ch, err)
	}
	return model.OutboxModel{
		OutboxID:             uuid.NewString(),
		OutboxRegistrationID: registrationID,
		OutboxDedupKey:       model.DedupKey(registrationID, kind, ch),
		OutboxChannel:        ch,
		OutboxKind:           kind,
		OutboxRecipient:      recipient,
		OutboxPayload:        datatypes.JSON(raw),
		OutboxStatus:         model.StatusPending,
		OutboxNextAttemptAt:  p.now().UTC().Add(p.cfg.Lease),
	}, nil
}
