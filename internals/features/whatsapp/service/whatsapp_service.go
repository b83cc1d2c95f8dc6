package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"workshop_backend/internals/metrics"
)

type State string

const (
	StateUninitialized  State = "uninitialized"
	StateAuthenticating State = "authenticating"
	StateReady          State = "ready"
	StateDisconnected   State = "disconnected"
)

var allStates = []string{
	string(StateUninitialized), string(StateAuthenticating), string(StateReady), string(StateDisconnected),
}

var ErrInvalidPhone = errors.New("whatsapp: phone number has no digits")

type SendStatus string

const (
	SendStatusSent   SendStatus = "sent"
	SendStatusQueued SendStatus = "queued"
	SendStatusLink   SendStatus = "link"
)

// SendResult says what happened to a message. Link is set only for SendStatusLink.
type SendResult struct {
	Status    SendStatus `json:"status"`
	To        string     `json:"to"`
	MessageID string     `json:"message_id,omitempty"`
	Link      string     `json:"link,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type Options struct {
	CountryCode       string
	MaxAttempts       int
	ReconnectInterval time.Duration
	ConnectTimeout    time.Duration
}

// Service owns the client state machine and the pending queue.
// A nil transport means WhatsApp is not configured: every send becomes a link.
type Service struct {
	transport Transport
	queue     Queue
	opts      Options

	mu    sync.RWMutex
	state State

	drainMu sync.Mutex
	wake    chan struct{}
}

func NewService(transport Transport, queue Queue, opts Options) *Service {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = 30 * time.Second
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 60 * time.Second
	}
	if queue == nil {
		queue = NewMemoryQueue(0)
	}
	s := &Service{
		transport: transport,
		queue:     queue,
		opts:      opts,
		state:     StateUninitialized,
		wake:      make(chan struct{}, 1),
	}
	metrics.SetWhatsAppState(string(s.state), allStates)
	return s
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ConnectionStatus is the two-valued status exposed over HTTP.
func (s *Service) ConnectionStatus() string {
	if s.State() == StateReady {
		return "connected"
	}
	return "disconnected"
}

func (s *Service) Enabled() bool { return s.transport != nil }

func (s *Service) QueueDepth(ctx context.Context) int {
	n, err := s.queue.Len(ctx)
	if err != nil {
		log.WithError(err).Warn("whatsapp: queue length unavailable")
		return -1
	}
	return n
}

func (s *Service) CountryCode() string { return s.opts.CountryCode }

func (s *Service) LinkFor(phone, message string) string {
	return Link(phone, message, s.opts.CountryCode)
}

func (s *Service) setState(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()
	if prev != next {
		log.WithFields(log.Fields{"from": prev, "to": next}).Info("whatsapp: state changed")
		metrics.SetWhatsAppState(string(next), allStates)
	}
}

// =========================
// Sending
// =========================

// Send delivers now when ready, queues while not ready, and falls back to a
// click-to-chat link when the transport fails or the queue is full.
func (s *Service) Send(ctx context.Context, phone, message string) (SendResult, error) {
	to := NormalizePhone(phone, s.opts.CountryCode)
	if to == "" {
		return SendResult{}, ErrInvalidPhone
	}
	entry := log.WithField("to", to)

	if s.transport == nil {
		entry.Info("whatsapp: not configured, returning link")
		return s.linkResult(to, message, nil), nil
	}

	if s.State() != StateReady {
		err := s.queue.Push(ctx, QueuedMessage{
			ID:         uuid.NewString(),
			To:         to,
			Message:    message,
			EnqueuedAt: time.Now().UTC(),
		})
		s.observeDepth(ctx)
		if err != nil {
			entry.WithError(err).Warn("whatsapp: could not queue message, returning link")
			return s.linkResult(to, message, err), nil
		}
		entry.Info("whatsapp: client not ready, message queued")
		return SendResult{Status: SendStatusQueued, To: to}, nil
	}

	id, err := s.transport.Send(ctx, to, message)
	if err != nil {
		s.handleTransportError(err)
		entry.WithError(err).Warn("whatsapp: send failed, returning link")
		return s.linkResult(to, message, err), nil
	}
	entry.WithField("message_id", id).Info("whatsapp: message sent")
	return SendResult{Status: SendStatusSent, To: to, MessageID: id}, nil
}

func (s *Service) linkResult(to, message string, cause error) SendResult {
	res := SendResult{Status: SendStatusLink, To: to, Link: buildLink(to, message)}
	if cause != nil {
		res.Error = cause.Error()
	}
	return res
}

func (s *Service) handleTransportError(err error) {
	if errors.Is(err, ErrUnauthorized) {
		s.setState(StateDisconnected)
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

func (s *Service) observeDepth(ctx context.Context) {
	if n, err := s.queue.Len(ctx); err == nil {
		metrics.WhatsAppQueueDepth.Set(float64(n))
	}
}

// =========================
// Lifecycle
// =========================

// Run keeps the client connected until ctx is cancelled. While ready it
// periodically drains items that failed an earlier pass.
func (s *Service) Run(ctx context.Context) error {
	if s.transport == nil {
		log.Info("whatsapp: transport not configured, messages will be returned as links")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.opts.ReconnectInterval)
	defer ticker.Stop()

	for {
		if s.State() == StateReady {
			s.Drain(ctx)
		} else {
			s.Connect(ctx)
		}

		select {
		case <-ctx.Done():
			s.setState(StateDisconnected)
			if err := s.transport.Close(); err != nil {
				log.WithError(err).Warn("whatsapp: close transport")
			}
			return nil
		case <-ticker.C:
		case <-s.wake:
		}
	}
}

// Connect runs one authentication attempt and drains the queue on success.
func (s *Service) Connect(ctx context.Context) bool {
	s.setState(StateAuthenticating)

	cctx, cancel := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	defer cancel()
	if err := s.transport.Connect(cctx); err != nil {
		log.WithError(err).Warn("whatsapp: authentication failed")
		s.setState(StateDisconnected)
		return false
	}

	s.setState(StateReady)
	s.Drain(ctx)
	return true
}

// Drain sends queued messages in insertion order. Items that fail go back to
// the head with attempts+1, ahead of anything the pass did not reach, and are
// dropped once MaxAttempts is reached.
func (s *Service) Drain(ctx context.Context) int {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()
	defer s.observeDepth(ctx)

	n, err := s.queue.Len(ctx)
	if err != nil || n == 0 {
		return 0
	}
	log.WithField("pending", n).Info("whatsapp: draining queued messages")

	var retry []QueuedMessage
	sent := 0
	// Bound the pass to what was queued when it started.
	for i := 0; i < n && s.State() == StateReady; i++ {
		if ctx.Err() != nil {
			break
		}
		item, err := s.queue.Pop(ctx)
		if err != nil {
			log.WithError(err).Error("whatsapp: pop queued message")
			break
		}
		if item == nil {
			break
		}

		id, err := s.transport.Send(ctx, item.To, item.Message)
		if err != nil {
			s.handleTransportError(err)
			item.Attempts++
			item.LastError = err.Error()
			if item.Attempts >= s.opts.MaxAttempts {
				log.WithFields(log.Fields{"to": item.To, "attempts": item.Attempts}).
					WithError(err).Error("whatsapp: dropping queued message")
				continue
			}
			retry = append(retry, *item)
			continue
		}
		sent++
		log.WithFields(log.Fields{"to": item.To, "message_id": id}).Info("whatsapp: sent queued message")
	}

	if err := s.queue.Requeue(ctx, retry); err != nil {
		log.WithError(err).WithField("count", len(retry)).Error("whatsapp: re-queue failed")
	}
	return sent
}

func (s *Service) String() string {
	return fmt.Sprintf("whatsapp(%s)", s.State())
}
