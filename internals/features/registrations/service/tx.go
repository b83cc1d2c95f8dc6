package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	notifModel "workshop_backend/internals/features/notifications/model"
	notifRepo "workshop_backend/internals/features/notifications/repository"
	"workshop_backend/internals/features/registrations/model"
	"workshop_backend/internals/features/registrations/repository"
)

// RegistrationStore is the registration persistence the service needs.
type RegistrationStore interface {
	Create(ctx context.Context, m *model.RegistrationModel) error
	FindAll(ctx context.Context, f repository.ListFilter, offset, limit int) ([]model.RegistrationModel, error)
	Count(ctx context.Context, f repository.ListFilter) (int64, error)
	FindByID(ctx context.Context, id string) (*model.RegistrationModel, error)
	LockByID(ctx context.Context, id string) (*model.RegistrationModel, error)
	FindScreenshot(ctx context.Context, id string) ([]byte, string, error)
	Update(ctx context.Context, m *model.RegistrationModel, withScreenshot bool) error
	Delete(ctx context.Context, id string) (int64, error)
}

type OutboxWriter interface {
	Insert(ctx context.Context, rows []notifModel.OutboxModel) ([]notifModel.OutboxModel, error)
}

type OutboxReader interface {
	ListByRegistration(ctx context.Context, registrationID string) ([]notifModel.OutboxModel, error)
}

// TxStores are the stores bound to one transaction.
type TxStores struct {
	Registrations RegistrationStore
	Outbox        OutboxWriter
}

// RegistrationTx runs fn atomically: the state change, its flag and its
// notification intents commit together or not at all.
type RegistrationTx interface {
	RunInTx(ctx context.Context, fn func(stores TxStores) error) error
}

const defaultTxTimeout = 10 * time.Second

type gormRegistrationTx struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormRegistrationTx(db *gorm.DB) RegistrationTx {
	return &gormRegistrationTx{db: db, timeout: defaultTxTimeout}
}

func (t *gormRegistrationTx) RunInTx(ctx context.Context, fn func(stores TxStores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxStores{
			Registrations: repository.NewRegistrationRepository(tx),
			Outbox:        notifRepo.NewOutboxRepository(tx),
		})
	})
}
