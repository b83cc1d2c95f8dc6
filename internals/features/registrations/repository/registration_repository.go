package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workshop_backend/internals/features/registrations/model"
)

// columns without the screenshot blob, plus a flag saying whether one is stored
const summaryColumns = `registration_id, registration_name, registration_email, registration_phone,
registration_age, registration_interest_area, registration_preferred_dates, registration_preferred_timing,
registration_expectations, registration_referral_source, registration_payment_status,
registration_screenshot_content_type, registration_email_sent, registration_confirmation_email_sent,
created_at, updated_at,
(registration_payment_screenshot IS NOT NULL) AS registration_has_screenshot`

// mutable columns written by Update; the blob is added only when it changed
var updatableColumns = []string{
	"registration_name", "registration_email", "registration_phone", "registration_age",
	"registration_interest_area", "registration_preferred_dates", "registration_preferred_timing",
	"registration_expectations", "registration_referral_source", "registration_payment_status",
	"registration_email_sent", "registration_confirmation_email_sent", "updated_at",
}

type ListFilter struct {
	PaymentStatus string
	Search        string
}

type RegistrationRepository struct {
	DB *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

func (r *RegistrationRepository) WithTx(tx *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{DB: tx}
}

func (r *RegistrationRepository) Create(ctx context.Context, m *model.RegistrationModel) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *RegistrationRepository) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.RegistrationModel{})
	if f.PaymentStatus != "" {
		q = q.Where("registration_payment_status = ?", f.PaymentStatus)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(registration_name) LIKE ? OR LOWER(registration_email) LIKE ? OR registration_phone LIKE ?)",
			like, like, "%"+s+"%")
	}
	return q
}

// FindAll returns a page of registrations, newest first, without screenshot bytes.
func (r *RegistrationRepository) FindAll(ctx context.Context, f ListFilter, offset, limit int) ([]model.RegistrationModel, error) {
	var rows []model.RegistrationModel
	err := r.filtered(ctx, f).
		Select(summaryColumns).
		Order("created_at DESC, registration_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *RegistrationRepository) Count(ctx context.Context, f ListFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, f).Count(&n).Error
	return n, err
}

// FindByID loads one registration without screenshot bytes.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*model.RegistrationModel, error) {
	var row model.RegistrationModel
	if err := r.DB.WithContext(ctx).
		Select(summaryColumns).
		Where("registration_id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LockByID is FindByID under SELECT ... FOR UPDATE; call it inside a transaction.
func (r *RegistrationRepository) LockByID(ctx context.Context, id string) (*model.RegistrationModel, error) {
	var row model.RegistrationModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select(summaryColumns).
		Where("registration_id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *RegistrationRepository) FindScreenshot(ctx context.Context, id string) ([]byte, string, error) {
	var row model.RegistrationModel
	if err := r.DB.WithContext(ctx).
		Select("registration_id, registration_payment_screenshot, registration_screenshot_content_type").
		Where("registration_id = ?", id).
		First(&row).Error; err != nil {
		return nil, "", err
	}
	ct := ""
	if row.RegistrationScreenshotContentType != nil {
		ct = *row.RegistrationScreenshotContentType
	}
	return row.RegistrationPaymentScreenshot, ct, nil
}

// Update writes every mutable column of m; the screenshot only when withScreenshot.
func (r *RegistrationRepository) Update(ctx context.Context, m *model.RegistrationModel, withScreenshot bool) error {
	cols := updatableColumns
	if withScreenshot {
		cols = append(append([]string{}, updatableColumns...),
			"registration_payment_screenshot", "registration_screenshot_content_type")
	}
	return r.DB.WithContext(ctx).
		Model(m).
		Select(cols).
		Updates(m).Error
}

func (r *RegistrationRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("registration_id = ?", id).
		Delete(&model.RegistrationModel{})
	return res.RowsAffected, res.Error
}
