package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"workshop_backend/internals/configs"
	mailerMocks "workshop_backend/internals/features/notifications/mailer/mocks"
	"workshop_backend/internals/features/notifications/model"
	"workshop_backend/internals/features/notifications/service/mocks"
)

func outboxConfig() configs.OutboxConfig {
	return configs.OutboxConfig{
		Schedule:      "@every 30s",
		PurgeSchedule: "15 3 * * *",
		BatchSize:     10,
		MaxAttempts:   3,
		BaseDelay:     time.Second,
		MaxDelay:      time.Minute,
		Retention:     24 * time.Hour,
		SendTimeout:   time.Second,
	}
}

func TestBackoff(t *testing.T) {
	base, max := 30*time.Second, 10*time.Minute
	assert.Equal(t, 30*time.Second, Backoff(0, base, max))
	assert.Equal(t, 30*time.Second, Backoff(1, base, max))
	assert.Equal(t, time.Minute, Backoff(2, base, max))
	assert.Equal(t, 8*time.Minute, Backoff(5, base, max))
	assert.Equal(t, max, Backoff(6, base, max))
	assert.Equal(t, max, Backoff(500, base, max))
}

func TestNewWorker_RejectsBadSchedule(t *testing.T) {
	cfg := outboxConfig()
	cfg.Schedule = "every now and then"
	_, err := NewWorker(nil, NewDispatcher(nil, nil, nil, nil, Options{}), cfg)
	assert.Error(t, err)
}

func TestWorker_Tick(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	m := mailerMocks.NewMockMailer(ctrl)

	cfg := outboxConfig()
	d := NewDispatcher(store, m, nil, nil, Options{MaxAttempts: cfg.MaxAttempts, SendTimeout: cfg.SendTimeout})
	w, err := NewWorker(store, d, cfg)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }
	d.now = w.now

	row := model.OutboxModel{
		OutboxID:        "o1",
		OutboxChannel:   model.ChannelEmail,
		OutboxKind:      model.KindAdminNotify,
		OutboxRecipient: "owner@example.com",
		OutboxPayload:   []byte(`{"subject":"s","text":"t"}`),
		OutboxAttempts:  1,
	}

	store.EXPECT().ClaimDue(gomock.Any(), now, w.lease(), 10).Return([]model.OutboxModel{row}, nil)
	m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().MarkDone(gomock.Any(), "o1", model.StatusDelivered, 2, gomock.Nil(), gomock.Nil(), now).Return(nil)
	store.EXPECT().CountPending(gomock.Any()).Return(int64(0), nil)

	sum := w.Tick(context.Background())
	assert.Equal(t, 1, sum.Delivered)
}

func TestWorker_TickClaimError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	w, err := NewWorker(store, NewDispatcher(store, nil, nil, nil, Options{}), outboxConfig())
	require.NoError(t, err)

	store.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db gone"))
	assert.Equal(t, 0, w.Tick(context.Background()).Total())
}

func TestWorker_Purge(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	w, err := NewWorker(store, NewDispatcher(store, nil, nil, nil, Options{}), outboxConfig())
	require.NoError(t, err)

	now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	store.EXPECT().PurgeDelivered(gomock.Any(), now.Add(-24*time.Hour)).Return(int64(7), nil)
	assert.Equal(t, int64(7), w.Purge(context.Background()))
}
