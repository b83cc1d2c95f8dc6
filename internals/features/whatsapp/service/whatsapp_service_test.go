package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"workshop_backend/internals/features/whatsapp/service/mocks"
)

type WhatsAppServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	transport *mocks.MockTransport
	queue     *MemoryQueue
	service   *Service
}

func TestWhatsAppServiceSuite(t *testing.T) {
	suite.Run(t, new(WhatsAppServiceSuite))
}

func (s *WhatsAppServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.transport = mocks.NewMockTransport(s.ctrl)
	s.queue = NewMemoryQueue(3)
	s.service = NewService(s.transport, s.queue, Options{CountryCode: "91", MaxAttempts: 2})
}

func (s *WhatsAppServiceSuite) TestSendWhileNotReady() {
	ctx := context.Background()

	s.Run("queues while uninitialized", func() {
		res, err := s.service.Send(ctx, "9876543210", "hi")
		s.Require().NoError(err)
		s.Equal(SendStatusQueued, res.Status)
		s.Equal("919876543210", res.To)
		s.Equal(1, s.service.QueueDepth(ctx))
	})

	s.Run("full queue falls back to link", func() {
		_, _ = s.service.Send(ctx, "9876543210", "two")
		_, _ = s.service.Send(ctx, "9876543210", "three")

		res, err := s.service.Send(ctx, "9876543210", "four")
		s.Require().NoError(err)
		s.Equal(SendStatusLink, res.Status)
		s.Equal("https://wa.me/919876543210?text=four", res.Link)
		s.Equal(3, s.service.QueueDepth(ctx))
	})
}

func (s *WhatsAppServiceSuite) TestInvalidPhone() {
	_, err := s.service.Send(context.Background(), "n/a", "hi")
	s.ErrorIs(err, ErrInvalidPhone)
}

func (s *WhatsAppServiceSuite) TestConnectDrainsInInsertionOrder() {
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_, err := s.service.Send(ctx, "9876543210", fmt.Sprintf("m%d", i))
		s.Require().NoError(err)
	}

	s.transport.EXPECT().Connect(gomock.Any()).Return(nil)
	gomock.InOrder(
		s.transport.EXPECT().Send(gomock.Any(), "919876543210", "m1").Return("id1", nil),
		s.transport.EXPECT().Send(gomock.Any(), "919876543210", "m2").Return("id2", nil),
		s.transport.EXPECT().Send(gomock.Any(), "919876543210", "m3").Return("id3", nil),
	)

	s.True(s.service.Connect(ctx))
	s.Equal(StateReady, s.service.State())
	s.Equal("connected", s.service.ConnectionStatus())
	s.Equal(0, s.service.QueueDepth(ctx))
}

func (s *WhatsAppServiceSuite) TestDrainRetriesThenDrops() {
	ctx := context.Background()
	_, _ = s.service.Send(ctx, "9876543210", "flaky")

	s.transport.EXPECT().Connect(gomock.Any()).Return(nil)
	s.transport.EXPECT().Send(gomock.Any(), "919876543210", "flaky").Return("", errors.New("timeout")).Times(2)

	s.True(s.service.Connect(ctx))
	s.Equal(1, s.service.QueueDepth(ctx), "first failure is re-queued")

	item, _ := s.queue.Pop(ctx)
	s.Require().NotNil(item)
	s.Equal(1, item.Attempts)
	s.Require().NoError(s.queue.Push(ctx, *item))

	s.Equal(0, s.service.Drain(ctx))
	s.Equal(0, s.service.QueueDepth(ctx), "dropped after max attempts")
}

func (s *WhatsAppServiceSuite) TestDrainKeepsOrderWhenSessionDrops() {
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_, err := s.service.Send(ctx, "9876543210", fmt.Sprintf("m%d", i))
		s.Require().NoError(err)
	}

	s.transport.EXPECT().Connect(gomock.Any()).Return(nil)
	gomock.InOrder(
		s.transport.EXPECT().Send(gomock.Any(), "919876543210", "m1").Return("", errors.New("timeout")),
		s.transport.EXPECT().Send(gomock.Any(), "919876543210", "m2").
			Return("", fmt.Errorf("%w: token expired", ErrUnauthorized)),
	)

	s.True(s.service.Connect(ctx))
	s.Equal(StateDisconnected, s.service.State())

	var order []string
	for {
		item, err := s.queue.Pop(ctx)
		s.Require().NoError(err)
		if item == nil {
			break
		}
		order = append(order, item.Message)
	}
	s.Equal([]string{"m1", "m2", "m3"}, order)
}

func (s *WhatsAppServiceSuite) TestFailedConnectLeavesDisconnected() {
	s.transport.EXPECT().Connect(gomock.Any()).Return(errors.New("bad token"))

	s.False(s.service.Connect(context.Background()))
	s.Equal(StateDisconnected, s.service.State())
	s.Equal("disconnected", s.service.ConnectionStatus())
}

func (s *WhatsAppServiceSuite) TestSendWhenReady() {
	ctx := context.Background()
	s.transport.EXPECT().Connect(gomock.Any()).Return(nil)
	s.Require().True(s.service.Connect(ctx))

	s.Run("direct send", func() {
		s.transport.EXPECT().Send(gomock.Any(), "919876543210", "hello").Return("wamid.1", nil)
		res, err := s.service.Send(ctx, "09876543210", "hello")
		s.Require().NoError(err)
		s.Equal(SendStatusSent, res.Status)
		s.Equal("wamid.1", res.MessageID)
	})

	s.Run("transport error returns link", func() {
		s.transport.EXPECT().Send(gomock.Any(), "919876543210", "hello again").Return("", errors.New("503"))
		res, err := s.service.Send(ctx, "9876543210", "hello again")
		s.Require().NoError(err)
		s.Equal(SendStatusLink, res.Status)
		s.Equal("https://wa.me/919876543210?text=hello%20again", res.Link)
		s.Equal("503", res.Error)
		s.Equal(StateReady, s.service.State())
	})

	s.Run("unauthorized disconnects", func() {
		s.transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", fmt.Errorf("%w: token expired", ErrUnauthorized))
		res, err := s.service.Send(ctx, "9876543210", "x")
		s.Require().NoError(err)
		s.Equal(SendStatusLink, res.Status)
		s.Equal(StateDisconnected, s.service.State())
	})
}

func TestService_NotConfiguredReturnsLinks(t *testing.T) {
	svc := NewService(nil, nil, Options{CountryCode: "91"})

	res, err := svc.Send(context.Background(), "9876543210", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != SendStatusLink || res.Link != "https://wa.me/919876543210?text=hi" {
		t.Fatalf("unexpected result %+v", res)
	}
	if svc.Enabled() {
		t.Fatal("service without transport reports enabled")
	}
}
