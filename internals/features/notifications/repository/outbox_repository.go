package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workshop_backend/internals/features/notifications/model"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// WithTx binds the repository to an open transaction.
func (r *OutboxRepository) WithTx(tx *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: tx}
}

// Insert writes intents one by one and returns only the rows actually inserted;
// an intent whose dedup key already exists is skipped.
func (r *OutboxRepository) Insert(ctx context.Context, rows []model.OutboxModel) ([]model.OutboxModel, error) {
	inserted := make([]model.OutboxModel, 0, len(rows))
	for i := range rows {
		row := rows[i]
		res := r.DB.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "outbox_dedup_key"}},
				DoNothing: true,
			}).
			Create(&row)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			inserted = append(inserted, row)
		}
	}
	return inserted, nil
}

// ClaimDue locks up to limit due pending rows (skipping rows another worker holds),
// pushes their next_attempt_at out by lease and returns them.
func (r *OutboxRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]model.OutboxModel, error) {
	var rows []model.OutboxModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("outbox_status = ? AND outbox_next_attempt_at <= ?", model.StatusPending, now).
			Order("outbox_next_attempt_at ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.OutboxID)
		}
		return tx.Model(&model.OutboxModel{}).
			Where("outbox_id IN ?", ids).
			Update("outbox_next_attempt_at", now.Add(lease)).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkDone records a terminal outcome (delivered, queued or fallback).
func (r *OutboxRepository) MarkDone(ctx context.Context, id string, status model.Status, attempts int, link, lastErr *string, at time.Time) error {
	updates := map[string]any{
		"outbox_status":        status,
		"outbox_attempts":      attempts,
		"outbox_fallback_link": link,
		"outbox_last_error":    lastErr,
	}
	if status == model.StatusDelivered {
		updates["outbox_delivered_at"] = at
	}
	return r.DB.WithContext(ctx).
		Model(&model.OutboxModel{}).
		Where("outbox_id = ?", id).
		Updates(updates).Error
}

// MarkDelivered is MarkDone for the plain success case.
func (r *OutboxRepository) MarkDelivered(ctx context.Context, id string, attempts int, at time.Time) error {
	return r.MarkDone(ctx, id, model.StatusDelivered, attempts, nil, nil, at)
}

// MarkFailed records a failed attempt: back to pending at nextAt, or dead.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, attempts int, nextAt time.Time, lastErr string, dead bool) error {
	status := model.StatusPending
	if dead {
		status = model.StatusDead
	}
	return r.DB.WithContext(ctx).
		Model(&model.OutboxModel{}).
		Where("outbox_id = ?", id).
		Updates(map[string]any{
			"outbox_status":          status,
			"outbox_attempts":        attempts,
			"outbox_next_attempt_at": nextAt,
			"outbox_last_error":      lastErr,
		}).Error
}

// PurgeDelivered removes finished rows last touched before cutoff. Dead rows stay
// for inspection.
func (r *OutboxRepository) PurgeDelivered(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("outbox_status IN ? AND updated_at < ?",
			[]model.Status{model.StatusDelivered, model.StatusQueued, model.StatusFallback}, cutoff).
		Delete(&model.OutboxModel{})
	return res.RowsAffected, res.Error
}

func (r *OutboxRepository) ListByRegistration(ctx context.Context, registrationID string) ([]model.OutboxModel, error) {
	var rows []model.OutboxModel
	err := r.DB.WithContext(ctx).
		Where("outbox_registration_id = ?", registrationID).
		Order("created_at ASC, outbox_kind ASC, outbox_channel ASC").
		Find(&rows).Error
	return rows, err
}

func (r *OutboxRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.OutboxModel{}).
		Where("outbox_status = ?", model.StatusPending).
		Count(&n).Error
	return n, err
}
