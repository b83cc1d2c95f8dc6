package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"

	"workshop_backend/internals/features/notifications/events"
	eventMocks "workshop_backend/internals/features/notifications/events/mocks"
	"workshop_backend/internals/features/notifications/mailer"
	mailerMocks "workshop_backend/internals/features/notifications/mailer/mocks"
	"workshop_backend/internals/features/notifications/model"
	"workshop_backend/internals/features/notifications/service/mocks"
	whatsappService "workshop_backend/internals/features/whatsapp/service"
)

type DispatcherSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	mailer    *mailerMocks.MockMailer
	whatsapp  *mocks.MockWhatsAppSender
	publisher *eventMocks.MockPublisher
	d         *Dispatcher
	now       time.Time
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.mailer = mailerMocks.NewMockMailer(s.ctrl)
	s.whatsapp = mocks.NewMockWhatsAppSender(s.ctrl)
	s.publisher = eventMocks.NewMockPublisher(s.ctrl)
	s.d = NewDispatcher(s.store, s.mailer, s.whatsapp, s.publisher, Options{
		MaxAttempts: 3,
		BaseDelay:   time.Minute,
		MaxDelay:    time.Hour,
		SendTimeout: time.Second,
	})
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.d.now = func() time.Time { return s.now }
}

func (s *DispatcherSuite) row(id string, ch model.Channel, kind model.Kind, recipient string, payload any) model.OutboxModel {
	raw, err := sonic.Marshal(payload)
	s.Require().NoError(err)
	return model.OutboxModel{
		OutboxID:             id,
		OutboxRegistrationID: "reg-1",
		OutboxDedupKey:       model.DedupKey("reg-1", kind, ch),
		OutboxChannel:        ch,
		OutboxKind:           kind,
		OutboxRecipient:      recipient,
		OutboxPayload:        datatypes.JSON(raw),
		OutboxStatus:         model.StatusPending,
	}
}

func (s *DispatcherSuite) emailRow(id string) model.OutboxModel {
	return s.row(id, model.ChannelEmail, model.KindRegistrationPending, "a@example.com",
		model.EmailPayload{Subject: "subj", Text: "text", HTML: "<p>html</p>"})
}

func (s *DispatcherSuite) TestEmailDelivered() {
	s.mailer.EXPECT().
		Send(gomock.Any(), mailer.Message{To: "a@example.com", Subject: "subj", Text: "text", HTML: "<p>html</p>"}).
		Return(nil)
	s.store.EXPECT().MarkDone(gomock.Any(), "o1", model.StatusDelivered, 1, gomock.Nil(), gomock.Nil(), s.now).Return(nil)

	sum := s.d.Dispatch(context.Background(), []model.OutboxModel{s.emailRow("o1")})
	s.Equal(1, sum.Delivered)
}

func (s *DispatcherSuite) TestEmailFailureSchedulesRetry() {
	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
	s.store.EXPECT().
		MarkFailed(gomock.Any(), "o1", 1, s.now.Add(time.Minute), "smtp down", false).
		Return(nil)

	sum := s.d.Dispatch(context.Background(), []model.OutboxModel{s.emailRow("o1")})
	s.Equal(1, sum.Retrying)
}

func (s *DispatcherSuite) TestLastAttemptGoesDead() {
	row := s.emailRow("o1")
	row.OutboxAttempts = 2

	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
	s.store.EXPECT().
		MarkFailed(gomock.Any(), "o1", 3, s.now.Add(4*time.Minute), "smtp down", true).
		Return(nil)

	sum := s.d.Dispatch(context.Background(), []model.OutboxModel{row})
	s.Equal(1, sum.Dead)
}

func (s *DispatcherSuite) TestUndecodablePayloadIsDead() {
	row := s.emailRow("o1")
	row.OutboxPayload = datatypes.JSON(`"not an object"`)

	s.store.EXPECT().MarkFailed(gomock.Any(), "o1", 1, gomock.Any(), gomock.Any(), true).Return(nil)

	sum := s.d.Dispatch(context.Background(), []model.OutboxModel{row})
	s.Equal(1, sum.Dead)
}

func (s *DispatcherSuite) TestWhatsAppOutcomes() {
	body := model.WhatsAppPayload{Body: "hello"}
	sent := s.row("w1", model.ChannelWhatsApp, model.KindRegistrationPending, "9876543210", body)
	queued := s.row("w2", model.ChannelWhatsApp, model.KindPaymentConfirmed, "9876543210", body)
	link := s.row("w3", model.ChannelWhatsApp, model.KindRegistrationPending, "9876543211", body)
	invalid := s.row("w4", model.ChannelWhatsApp, model.KindRegistrationPending, "abc", body)

	wa := "https://wa.me/919876543211?text=hello"
	cause := "transport down"

	gomock.InOrder(
		s.whatsapp.EXPECT().Send(gomock.Any(), "9876543210", "hello").
			Return(whatsappService.SendResult{Status: whatsappService.SendStatusSent, MessageID: "m1"}, nil),
		s.whatsapp.EXPECT().Send(gomock.Any(), "9876543210", "hello").
			Return(whatsappService.SendResult{Status: whatsappService.SendStatusQueued}, nil),
		s.whatsapp.EXPECT().Send(gomock.Any(), "9876543211", "hello").
			Return(whatsappService.SendResult{Status: whatsappService.SendStatusLink, Link: wa, Error: cause}, nil),
		s.whatsapp.EXPECT().Send(gomock.Any(), "abc", "hello").
			Return(whatsappService.SendResult{}, whatsappService.ErrInvalidPhone),
	)
	s.store.EXPECT().MarkDone(gomock.Any(), "w1", model.StatusDelivered, 1, gomock.Nil(), gomock.Nil(), s.now).Return(nil)
	s.store.EXPECT().MarkDone(gomock.Any(), "w2", model.StatusQueued, 1, gomock.Nil(), gomock.Nil(), s.now).Return(nil)
	s.store.EXPECT().MarkDone(gomock.Any(), "w3", model.StatusFallback, 1, &wa, &cause, s.now).Return(nil)
	s.store.EXPECT().MarkFailed(gomock.Any(), "w4", 1, gomock.Any(), gomock.Any(), true).Return(nil)

	sum := s.d.Dispatch(context.Background(), []model.OutboxModel{sent, queued, link, invalid})
	s.Equal(Summary{Delivered: 1, Queued: 1, Fallback: 1, Dead: 1}, sum)
}

func (s *DispatcherSuite) TestEventPublished() {
	row := s.row("e1", model.ChannelEvent, model.KindPaymentConfirmed, "kafka", model.EventPayload{
		Type: events.TypeRegistrationPaymentConfirmed,
		Key:  "reg-1",
		Data: datatypes.JSON(`{"id":"reg-1"}`),
	})

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev events.Event) error {
		s.Equal(events.TypeRegistrationPaymentConfirmed, ev.Type)
		s.Equal("reg-1", ev.Key)
		s.JSONEq(`{"id":"reg-1"}`, string(ev.Payload))
		s.Equal("reg-1:payment_confirmed:event", ev.Headers["dedup-key"])
		return nil
	})
	s.store.EXPECT().MarkDone(gomock.Any(), "e1", model.StatusDelivered, 1, gomock.Nil(), gomock.Nil(), s.now).Return(nil)

	s.Equal(1, s.d.Dispatch(context.Background(), []model.OutboxModel{row}).Delivered)
}

func (s *DispatcherSuite) TestOneFailingChannelDoesNotStopOthers() {
	email := s.emailRow("o1")
	wa := s.row("w1", model.ChannelWhatsApp, model.KindRegistrationPending, "9876543210", model.WhatsAppPayload{Body: "hi"})

	s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
	s.store.EXPECT().MarkFailed(gomock.Any(), "o1", 1, gomock.Any(), "smtp down", false).Return(nil)
	s.whatsapp.EXPECT().Send(gomock.Any(), "9876543210", "hi").
		Return(whatsappService.SendResult{Status: whatsappService.SendStatusSent}, nil)
	s.store.EXPECT().MarkDone(gomock.Any(), "w1", model.StatusDelivered, 1, gomock.Nil(), gomock.Nil(), s.now).Return(nil)

	sum := s.d.Dispatch(context.Background(), []model.OutboxModel{email, wa})
	s.Equal(Summary{Delivered: 1, Retrying: 1}, sum)
}

func (s *DispatcherSuite) TestCancelledContextLeavesRowsPending() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := s.d.Dispatch(ctx, []model.OutboxModel{s.emailRow("o1")})
	s.Equal(0, sum.Total())
}
