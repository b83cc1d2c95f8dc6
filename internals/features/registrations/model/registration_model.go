package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

var PreferredTimings = []string{"morning", "afternoon", "evening"}

/* ===========================
   REGISTRATIONS
   =========================== */
type RegistrationModel struct {
	RegistrationID              string         `gorm:"column:registration_id;primaryKey;type:uuid;default:gen_random_uuid()"`
	RegistrationName            string         `gorm:"column:registration_name;type:varchar(100);not null"`
	RegistrationEmail           string         `gorm:"column:registration_email;type:varchar(100);not null"`
	RegistrationPhone           string         `gorm:"column:registration_phone;type:varchar(20);not null"`
	RegistrationAge             int            `gorm:"column:registration_age;not null"`
	RegistrationInterestArea    string         `gorm:"column:registration_interest_area;type:varchar(50);not null"`
	RegistrationPreferredDates  pq.StringArray `gorm:"column:registration_preferred_dates;type:text[];not null"`
	RegistrationPreferredTiming string         `gorm:"column:registration_preferred_timing;type:varchar(20);not null"`
	RegistrationExpectations    *string        `gorm:"column:registration_expectations;type:text"`
	RegistrationReferralSource  string         `gorm:"column:registration_referral_source;type:varchar(50);not null"`

	// 💳 Payment
	RegistrationPaymentStatus         string  `gorm:"column:registration_payment_status;type:varchar(20);not null;default:pending"`
	RegistrationPaymentScreenshot     []byte  `gorm:"column:registration_payment_screenshot;type:bytea"`
	RegistrationScreenshotContentType *string `gorm:"column:registration_screenshot_content_type;type:varchar(50)"`
	// filled by list/lock queries that skip the blob
	RegistrationHasScreenshot bool `gorm:"column:registration_has_screenshot;->;-:migration"`

	// 🔔 Fan-out issued (set once, never unset)
	RegistrationEmailSent             bool `gorm:"column:registration_email_sent;not null;default:false"`
	RegistrationConfirmationEmailSent bool `gorm:"column:registration_confirmation_email_sent;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (RegistrationModel) TableName() string { return "registrations" }

func (m *RegistrationModel) IsCompleted() bool {
	return m.RegistrationPaymentStatus == PaymentStatusCompleted
}

func (m *RegistrationModel) HasScreenshot() bool {
	return m.RegistrationHasScreenshot || len(m.RegistrationPaymentScreenshot) > 0
}

// ReadyForConfirmation: completed, proof attached, and the confirmation fan-out not yet issued.
func (m *RegistrationModel) ReadyForConfirmation() bool {
	return m.IsCompleted() && m.HasScreenshot() && !m.RegistrationConfirmationEmailSent
}
