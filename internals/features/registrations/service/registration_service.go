package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	notifModel "workshop_backend/internals/features/notifications/model"
	notifService "workshop_backend/internals/features/notifications/service"
	"workshop_backend/internals/features/notifications/templates"
	"workshop_backend/internals/features/registrations/dto"
	"workshop_backend/internals/features/registrations/model"
	"workshop_backend/internals/features/registrations/repository"
	"workshop_backend/internals/metrics"
)

var (
	ErrRegistrationNotFound    = errors.New("registration not found")
	ErrScreenshotNotFound      = errors.New("payment screenshot not found")
	ErrInvalidStatusTransition = errors.New("payment status can only move from pending to completed")
)

// Dispatcher delivers freshly committed outbox rows.
type Dispatcher interface {
	Dispatch(ctx context.Context, rows []notifModel.OutboxModel) notifService.Summary
}

type Options struct {
	// InlineDispatch sends right after commit; otherwise only the outbox worker sends.
	InlineDispatch bool
}

type RegistrationService struct {
	tx         RegistrationTx
	store      RegistrationStore
	outbox     OutboxReader
	planner    *notifService.Planner
	dispatcher Dispatcher
	opts       Options
	tracer     trace.Tracer
	now        func() time.Time
}

func NewRegistrationService(
	tx RegistrationTx,
	store RegistrationStore,
	outbox OutboxReader,
	planner *notifService.Planner,
	dispatcher Dispatcher,
	opts Options,
) *RegistrationService {
	return &RegistrationService{
		tx:         tx,
		store:      store,
		outbox:     outbox,
		planner:    planner,
		dispatcher: dispatcher,
		opts:       opts,
		tracer:     otel.Tracer("workshop_backend/registrations"),
		now:        time.Now,
	}
}

func (s *RegistrationService) ScreenshotURL(id string) string {
	return s.planner.ScreenshotURL(id)
}

func (s *RegistrationService) startSpan(ctx context.Context, name string, id string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "registrations."+name)
	if id != "" {
		span.SetAttributes(attribute.String("registration.id", id))
	}
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func templateView(m *model.RegistrationModel) templates.Registration {
	v := templates.Registration{
		ID:              m.RegistrationID,
		Name:            m.RegistrationName,
		Email:           m.RegistrationEmail,
		Phone:           m.RegistrationPhone,
		Age:             m.RegistrationAge,
		InterestArea:    m.RegistrationInterestArea,
		PreferredDates:  []string(m.RegistrationPreferredDates),
		PreferredTiming: m.RegistrationPreferredTiming,
		ReferralSource:  m.RegistrationReferralSource,
		PaymentStatus:   m.RegistrationPaymentStatus,
		CreatedAt:       m.CreatedAt,
	}
	if m.RegistrationExpectations != nil {
		v.Expectations = *m.RegistrationExpectations
	}
	return v
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// =========================
// Create (phase 1)
// =========================

// Create stores a pending registration and, in the same transaction, the
// registration-pending notification intents. They are dispatched after commit.
func (s *RegistrationService) Create(ctx context.Context, req dto.CreateRegistrationRequest, shot *Screenshot) (_ *model.RegistrationModel, err error) {
	ctx, span := s.startSpan(ctx, "Create", "")
	defer func() { endSpan(span, err) }()

	m := req.ToModel()
	m.RegistrationID = uuid.NewString()
	if shot != nil {
		m.RegistrationPaymentScreenshot = shot.Data
		m.RegistrationScreenshotContentType = &shot.ContentType
	}
	span.SetAttributes(attribute.String("registration.id", m.RegistrationID))

	var issued []notifModel.OutboxModel
	err = s.tx.RunInTx(ctx, func(st TxStores) error {
		if err := st.Registrations.Create(ctx, &m); err != nil {
			return fmt.Errorf("create registration: %w", err)
		}

		rows, err := s.planner.Plan(notifService.PhaseCreated, templateView(&m), m.HasScreenshot())
		if err != nil {
			return err
		}
		if issued, err = st.Outbox.Insert(ctx, rows); err != nil {
			return fmt.Errorf("insert notification intents: %w", err)
		}

		m.RegistrationEmailSent = true
		return st.Registrations.Update(ctx, &m, false)
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsCreated.Inc()
	log.WithFields(log.Fields{
		"registration_id": m.RegistrationID,
		"intents":         len(issued),
	}).Info("registration created")

	s.dispatch(ctx, issued)
	return &m, nil
}

// =========================
// Update (phase 2 + admin edits)
// =========================

// UpdatePayment applies the payment-confirmation submission. Once the row is
// completed with a screenshot, the confirmation intents are issued exactly once.
func (s *RegistrationService) UpdatePayment(ctx context.Context, id string, status *string, shot *Screenshot) (_ *model.RegistrationModel, err error) {
	ctx, span := s.startSpan(ctx, "UpdatePayment", id)
	defer func() { endSpan(span, err) }()

	return s.update(ctx, id, status, shot, nil)
}

// AdminUpdate edits profile fields and optionally the payment status / screenshot,
// under the same confirmation rule as UpdatePayment.
func (s *RegistrationService) AdminUpdate(ctx context.Context, id string, req dto.AdminUpdateRegistrationRequest, shot *Screenshot) (_ *model.RegistrationModel, err error) {
	ctx, span := s.startSpan(ctx, "AdminUpdate", id)
	defer func() { endSpan(span, err) }()

	return s.update(ctx, id, req.PaymentStatus, shot, req.ApplyProfile)
}

func (s *RegistrationService) update(
	ctx context.Context,
	id string,
	status *string,
	shot *Screenshot,
	mutate func(*model.RegistrationModel),
) (*model.RegistrationModel, error) {
	if !validID(id) {
		return nil, ErrRegistrationNotFound
	}

	var (
		out       *model.RegistrationModel
		issued    []notifModel.OutboxModel
		completed bool
	)
	err := s.tx.RunInTx(ctx, func(st TxStores) error {
		m, err := st.Registrations.LockByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		if err != nil {
			return fmt.Errorf("lock registration: %w", err)
		}

		if mutate != nil {
			mutate(m)
		}
		if status != nil {
			switch {
			case *status == model.PaymentStatusCompleted && !m.IsCompleted():
				m.RegistrationPaymentStatus = model.PaymentStatusCompleted
				completed = true
			case *status == model.PaymentStatusPending && m.IsCompleted():
				return ErrInvalidStatusTransition
			}
		}
		if shot != nil {
			m.RegistrationPaymentScreenshot = shot.Data
			m.RegistrationScreenshotContentType = &shot.ContentType
			m.RegistrationHasScreenshot = true
		}
		m.UpdatedAt = s.now().UTC()

		if m.ReadyForConfirmation() {
			rows, err := s.planner.Plan(notifService.PhasePaymentConfirmed, templateView(m), true)
			if err != nil {
				return err
			}
			if issued, err = st.Outbox.Insert(ctx, rows); err != nil {
				return fmt.Errorf("insert notification intents: %w", err)
			}
			m.RegistrationConfirmationEmailSent = true
		}

		if err := st.Registrations.Update(ctx, m, shot != nil); err != nil {
			return fmt.Errorf("update registration: %w", err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		metrics.PaymentsConfirmed.Inc()
	}
	log.WithFields(log.Fields{
		"registration_id": id,
		"status":          out.RegistrationPaymentStatus,
		"screenshot":      shot != nil,
		"intents":         len(issued),
	}).Info("registration updated")

	s.dispatch(ctx, issued)
	return out, nil
}

func (s *RegistrationService) dispatch(ctx context.Context, rows []notifModel.OutboxModel) {
	if !s.opts.InlineDispatch || len(rows) == 0 || s.dispatcher == nil {
		return
	}
	// notification failures are recorded on the outbox rows, never returned
	s.dispatcher.Dispatch(ctx, rows)
}

// =========================
// Reads / delete
// =========================

func (s *RegistrationService) List(ctx context.Context, f repository.ListFilter, offset, limit int) (_ []model.RegistrationModel, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "List", "")
	defer func() { endSpan(span, err) }()

	total, err := s.store.Count(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	rows, err := s.store.FindAll(ctx, f, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return rows, total, nil
}

func (s *RegistrationService) Get(ctx context.Context, id string) (_ *model.RegistrationModel, err error) {
	ctx, span := s.startSpan(ctx, "Get", id)
	defer func() { endSpan(span, err) }()

	if !validID(id) {
		return nil, ErrRegistrationNotFound
	}
	m, err := s.store.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	return m, err
}

func (s *RegistrationService) Remove(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "Remove", id)
	defer func() { endSpan(span, err) }()

	if !validID(id) {
		return ErrRegistrationNotFound
	}
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	log.WithField("registration_id", id).Info("registration deleted")
	return nil
}

func (s *RegistrationService) Screenshot(ctx context.Context, id string) (_ *Screenshot, err error) {
	ctx, span := s.startSpan(ctx, "Screenshot", id)
	defer func() { endSpan(span, err) }()

	if !validID(id) {
		return nil, ErrRegistrationNotFound
	}
	data, ct, err := s.store.FindScreenshot(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrScreenshotNotFound
	}
	if ct == "" {
		ct = mimetype.Detect(data).String()
	}
	return &Screenshot{Data: data, ContentType: ct}, nil
}

// Notifications lists the outbox rows issued for a registration.
func (s *RegistrationService) Notifications(ctx context.Context, id string) ([]notifModel.OutboxModel, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.outbox.ListByRegistration(ctx, id)
}
