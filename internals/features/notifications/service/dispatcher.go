package service

//go:generate mockgen -source=dispatcher.go -destination=mocks/mock_dispatcher.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"workshop_backend/internals/features/notifications/events"
	"workshop_backend/internals/features/notifications/mailer"
	"workshop_backend/internals/features/notifications/model"
	whatsappService "workshop_backend/internals/features/whatsapp/service"
	"workshop_backend/internals/metrics"
)

// WhatsAppSender is the part of the WhatsApp service the dispatcher uses.
type WhatsAppSender interface {
	Send(ctx context.Context, phone, message string) (whatsappService.SendResult, error)
}

// Store is the outbox persistence the dispatcher and worker need.
type Store interface {
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]model.OutboxModel, error)
	MarkDone(ctx context.Context, id string, status model.Status, attempts int, link, lastErr *string, at time.Time) error
	MarkFailed(ctx context.Context, id string, attempts int, nextAt time.Time, lastErr string, dead bool) error
	PurgeDelivered(ctx context.Context, cutoff time.Time) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

// errPermanent marks failures a retry cannot fix.
var errPermanent = errors.New("permanent failure")

type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	SendTimeout time.Duration
}

type Summary struct {
	Delivered int
	Queued    int
	Fallback  int
	Retrying  int
	Dead      int
}

func (s Summary) Total() int { return s.Delivered + s.Queued + s.Fallback + s.Retrying + s.Dead }

// Dispatcher delivers outbox rows. Each row is handled on its own: one failing
// channel never stops the others, and no error reaches the caller.
type Dispatcher struct {
	store     Store
	mailer    mailer.Mailer
	whatsapp  WhatsAppSender
	publisher events.Publisher
	opts      Options
	now       func() time.Time
}

func NewDispatcher(store Store, m mailer.Mailer, wa WhatsAppSender, pub events.Publisher, opts Options) *Dispatcher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 8
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 30 * time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = time.Hour
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 20 * time.Second
	}
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &Dispatcher{store: store, mailer: m, whatsapp: wa, publisher: pub, opts: opts, now: time.Now}
}

type outcome struct {
	status model.Status
	link   *string
	note   *string
}

// attemptBudget is the longest one delivery attempt can run. An email may spend
// sendTimeout dialling and then as long again finishing a session it started.
func attemptBudget(sendTimeout time.Duration) time.Duration {
	return 2 * sendTimeout
}

func (d *Dispatcher) Dispatch(ctx context.Context, rows []model.OutboxModel) Summary {
	var sum Summary
	for _, row := range rows {
		if ctx.Err() != nil {
			// rows left untouched stay pending and are picked up by the worker
			break
		}
		d.dispatchOne(ctx, row, &sum)
	}
	return sum
}

func (d *Dispatcher) dispatchOne(ctx context.Context, row model.OutboxModel, sum *Summary) {
	entry := log.WithFields(log.Fields{
		"outbox_id":       row.OutboxID,
		"registration_id": row.OutboxRegistrationID,
		"channel":         row.OutboxChannel,
		"kind":            row.OutboxKind,
	})
	attempts := row.OutboxAttempts + 1

	sendCtx, cancel := context.WithTimeout(ctx, d.opts.SendTimeout)
	out, err := d.deliver(sendCtx, row)
	cancel()

	// bookkeeping must survive a cancelled request context
	saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancelSave()

	if err != nil {
		dead := errors.Is(err, errPermanent) || attempts >= d.opts.MaxAttempts
		next := d.now().UTC().Add(Backoff(attempts, d.opts.BaseDelay, d.opts.MaxDelay))
		if saveErr := d.store.MarkFailed(saveCtx, row.OutboxID, attempts, next, err.Error(), dead); saveErr != nil {
			entry.WithError(saveErr).Error("outbox: could not record failed attempt")
		}
		if dead {
			sum.Dead++
			metrics.ObserveDispatch(string(row.OutboxChannel), string(row.OutboxKind), "dead")
			entry.WithError(err).WithField("attempts", attempts).Error("notification given up")
			return
		}
		sum.Retrying++
		metrics.ObserveDispatch(string(row.OutboxChannel), string(row.OutboxKind), "retry")
		entry.WithError(err).WithFields(log.Fields{"attempts": attempts, "next_attempt_at": next}).
			Warn("notification failed, will retry")
		return
	}

	if saveErr := d.store.MarkDone(saveCtx, row.OutboxID, out.status, attempts, out.link, out.note, d.now().UTC()); saveErr != nil {
		entry.WithError(saveErr).Error("outbox: could not record delivery")
	}
	switch out.status {
	case model.StatusQueued:
		sum.Queued++
	case model.StatusFallback:
		sum.Fallback++
	default:
		sum.Delivered++
	}
	metrics.ObserveDispatch(string(row.OutboxChannel), string(row.OutboxKind), string(out.status))
	entry.WithField("status", out.status).Info("notification dispatched")
}

func (d *Dispatcher) deliver(ctx context.Context, row model.OutboxModel) (outcome, error) {
	switch row.OutboxChannel {
	case model.ChannelEmail:
		var p model.EmailPayload
		if err := sonic.Unmarshal(row.OutboxPayload, &p); err != nil {
			return outcome{}, fmt.Errorf("%w: decode email payload: %v", errPermanent, err)
		}
		if err := d.mailer.Send(ctx, mailer.Message{
			To: row.OutboxRecipient, Subject: p.Subject, Text: p.Text, HTML: p.HTML,
		}); err != nil {
			if errors.Is(err, mailer.ErrNoRecipient) {
				return outcome{}, fmt.Errorf("%w: %v", errPermanent, err)
			}
			return outcome{}, err
		}
		return outcome{status: model.StatusDelivered}, nil

	case model.ChannelWhatsApp:
		if d.whatsapp == nil {
			return outcome{}, fmt.Errorf("%w: whatsapp sender not wired", errPermanent)
		}
		var p model.WhatsAppPayload
		if err := sonic.Unmarshal(row.OutboxPayload, &p); err != nil {
			return outcome{}, fmt.Errorf("%w: decode whatsapp payload: %v", errPermanent, err)
		}
		res, err := d.whatsapp.Send(ctx, row.OutboxRecipient, p.Body)
		if errors.Is(err, whatsappService.ErrInvalidPhone) {
			return outcome{}, fmt.Errorf("%w: %v", errPermanent, err)
		}
		if err != nil {
			return outcome{}, err
		}
		switch res.Status {
		case whatsappService.SendStatusQueued:
			return outcome{status: model.StatusQueued}, nil
		case whatsappService.SendStatusLink:
			o := outcome{status: model.StatusFallback, link: &res.Link}
			if res.Error != "" {
				o.note = &res.Error
			}
			return o, nil
		default:
			return outcome{status: model.StatusDelivered}, nil
		}

	case model.ChannelEvent:
		var p model.EventPayload
		if err := sonic.Unmarshal(row.OutboxPayload, &p); err != nil {
			return outcome{}, fmt.Errorf("%w: decode event payload: %v", errPermanent, err)
		}
		if err := d.publisher.Publish(ctx, events.Event{
			Type:    p.Type,
			Key:     p.Key,
			Payload: p.Data,
			Headers: map[string]string{"dedup-key": row.OutboxDedupKey},
		}); err != nil {
			return outcome{}, err
		}
		return outcome{status: model.StatusDelivered}, nil
	}

	return outcome{}, fmt.Errorf("%w: unknown channel %q", errPermanent, row.OutboxChannel)
}
