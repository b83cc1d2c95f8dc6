package dto

import (
	"strings"
	"time"

	"workshop_backend/internals/features/registrations/model"
	helper "workshop_backend/internals/helpers"
)

// ====================
// Request DTO
// ====================

// CreateRegistrationRequest is the public form. paymentStatus is accepted for
// compatibility with the form but a new registration always starts pending.
type CreateRegistrationRequest struct {
	Name            string   `json:"name" form:"name" validate:"required,min=3,max=100"`
	Email           string   `json:"email" form:"email" validate:"required,email,max=100"`
	Phone           string   `json:"phone" form:"phone" validate:"required,min=7,max=20"`
	Age             int      `json:"age" form:"age" validate:"required,gte=18,lte=100"`
	InterestArea    string   `json:"interestArea" form:"interestArea" validate:"required,max=50"`
	PreferredDates  []string `json:"preferredDates" form:"preferredDates" validate:"len=2,dive,required,datetime=2006-01-02"`
	PreferredTiming string   `json:"preferredTiming" form:"preferredTiming" validate:"required,oneof=morning afternoon evening"`
	Expectations    *string  `json:"expectations" form:"expectations" validate:"omitempty,max=2000"`
	ReferralSource  string   `json:"referralSource" form:"referralSource" validate:"required,max=50"`
	PaymentStatus   string   `json:"paymentStatus" form:"paymentStatus" validate:"omitempty,oneof=pending completed"`
}

// UpdateRegistrationRequest is the payment-confirmation submission. ID is only
// read on the legacy /update-registration route.
type UpdateRegistrationRequest struct {
	ID            string  `json:"id" form:"id" validate:"omitempty,uuid"`
	PaymentStatus *string `json:"paymentStatus" form:"paymentStatus" validate:"omitempty,oneof=pending completed"`
}

type AdminUpdateRegistrationRequest struct {
	Name            *string  `json:"name" form:"name" validate:"omitempty,min=3,max=100"`
	Email           *string  `json:"email" form:"email" validate:"omitempty,email,max=100"`
	Phone           *string  `json:"phone" form:"phone" validate:"omitempty,min=7,max=20"`
	Age             *int     `json:"age" form:"age" validate:"omitempty,gte=18,lte=100"`
	InterestArea    *string  `json:"interestArea" form:"interestArea" validate:"omitempty,min=1,max=50"`
	PreferredDates  []string `json:"preferredDates" form:"preferredDates" validate:"omitempty,len=2,dive,required,datetime=2006-01-02"`
	PreferredTiming *string  `json:"preferredTiming" form:"preferredTiming" validate:"omitempty,oneof=morning afternoon evening"`
	Expectations    *string  `json:"expectations" form:"expectations" validate:"omitempty,max=2000"`
	ReferralSource  *string  `json:"referralSource" form:"referralSource" validate:"omitempty,min=1,max=50"`
	PaymentStatus   *string  `json:"paymentStatus" form:"paymentStatus" validate:"omitempty,oneof=pending completed"`
}

// ListQuery is parsed from the admin list query string.
type ListQuery struct {
	PaymentStatus string `query:"paymentStatus" validate:"omitempty,oneof=pending completed"`
	Search        string `query:"q" validate:"omitempty,max=100"`
}

// ====================
// Response DTO
// ====================

type RegistrationDTO struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	Age                   int       `json:"age"`
	InterestArea          string    `json:"interestArea"`
	PreferredDates        []string  `json:"preferredDates"`
	PreferredTiming       string    `json:"preferredTiming"`
	Expectations          *string   `json:"expectations"`
	ReferralSource        string    `json:"referralSource"`
	PaymentStatus         string    `json:"paymentStatus"`
	HasPaymentScreenshot  bool      `json:"hasPaymentScreenshot"`
	PaymentScreenshotURL  *string   `json:"paymentScreenshotUrl"`
	EmailSent             bool      `json:"emailSent"`
	ConfirmationEmailSent bool      `json:"confirmationEmailSent"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ====================
// Normalizers
// ====================

func normalizeDates(in []string) []string {
	// multipart forms may send both dates as one comma separated value
	if len(in) == 1 && strings.Contains(in[0], ",") {
		in = strings.Split(in[0], ",")
	}
	out := make([]string, 0, len(in))
	for _, d := range in {
		out = append(out, strings.TrimSpace(d))
	}
	return out
}

func (r *CreateRegistrationRequest) Normalize() {
	r.Name = helper.NormalizeText(r.Name)
	r.Email = helper.NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.InterestArea = helper.NormalizeText(r.InterestArea)
	r.PreferredDates = normalizeDates(r.PreferredDates)
	r.PreferredTiming = strings.ToLower(strings.TrimSpace(r.PreferredTiming))
	r.Expectations = helper.NormalizeTextPtr(r.Expectations)
	r.ReferralSource = helper.NormalizeText(r.ReferralSource)
	r.PaymentStatus = strings.ToLower(strings.TrimSpace(r.PaymentStatus))
}

func (r *UpdateRegistrationRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	if r.PaymentStatus != nil {
		s := strings.ToLower(strings.TrimSpace(*r.PaymentStatus))
		if s == "" {
			r.PaymentStatus = nil
		} else {
			r.PaymentStatus = &s
		}
	}
}

func (r *AdminUpdateRegistrationRequest) Normalize() {
	r.Name = helper.NormalizeTextPtr(r.Name)
	if r.Email != nil {
		e := helper.NormalizeEmail(*r.Email)
		r.Email = &e
	}
	if r.Phone != nil {
		p := strings.TrimSpace(*r.Phone)
		r.Phone = &p
	}
	r.InterestArea = helper.NormalizeTextPtr(r.InterestArea)
	if r.PreferredDates != nil {
		r.PreferredDates = normalizeDates(r.PreferredDates)
	}
	if r.PreferredTiming != nil {
		t := strings.ToLower(strings.TrimSpace(*r.PreferredTiming))
		r.PreferredTiming = &t
	}
	r.Expectations = helper.NormalizeTextPtr(r.Expectations)
	r.ReferralSource = helper.NormalizeTextPtr(r.ReferralSource)
	if r.PaymentStatus != nil {
		s := strings.ToLower(strings.TrimSpace(*r.PaymentStatus))
		r.PaymentStatus = &s
	}
}

// ====================
// Converters
// ====================

// ToModel always yields a pending registration.
func (r CreateRegistrationRequest) ToModel() model.RegistrationModel {
	return model.RegistrationModel{
		RegistrationName:            r.Name,
		RegistrationEmail:           r.Email,
		RegistrationPhone:           r.Phone,
		RegistrationAge:             r.Age,
		RegistrationInterestArea:    r.InterestArea,
		RegistrationPreferredDates:  r.PreferredDates,
		RegistrationPreferredTiming: r.PreferredTiming,
		RegistrationExpectations:    r.Expectations,
		RegistrationReferralSource:  r.ReferralSource,
		RegistrationPaymentStatus:   model.PaymentStatusPending,
	}
}

// ApplyProfile copies the provided profile fields; payment status is handled by the service.
func (r AdminUpdateRegistrationRequest) ApplyProfile(m *model.RegistrationModel) {
	if r.Name != nil {
		m.RegistrationName = *r.Name
	}
	if r.Email != nil {
		m.RegistrationEmail = *r.Email
	}
	if r.Phone != nil {
		m.RegistrationPhone = *r.Phone
	}
	if r.Age != nil {
		m.RegistrationAge = *r.Age
	}
	if r.InterestArea != nil {
		m.RegistrationInterestArea = *r.InterestArea
	}
	if r.PreferredDates != nil {
		m.RegistrationPreferredDates = r.PreferredDates
	}
	if r.PreferredTiming != nil {
		m.RegistrationPreferredTiming = *r.PreferredTiming
	}
	if r.Expectations != nil {
		m.RegistrationExpectations = r.Expectations
	}
	if r.ReferralSource != nil {
		m.RegistrationReferralSource = *r.ReferralSource
	}
}

// ToRegistrationDTO renders a row; screenshotURL builds the link when a screenshot is stored.
func ToRegistrationDTO(m model.RegistrationModel, screenshotURL func(id string) string) RegistrationDTO {
	out := RegistrationDTO{
		ID:                    m.RegistrationID,
		Name:                  m.RegistrationName,
		Email:                 m.RegistrationEmail,
		Phone:                 m.RegistrationPhone,
		Age:                   m.RegistrationAge,
		InterestArea:          m.RegistrationInterestArea,
		PreferredDates:        []string(m.RegistrationPreferredDates),
		PreferredTiming:       m.RegistrationPreferredTiming,
		Expectations:          m.RegistrationExpectations,
		ReferralSource:        m.RegistrationReferralSource,
		PaymentStatus:         m.RegistrationPaymentStatus,
		HasPaymentScreenshot:  m.HasScreenshot(),
		EmailSent:             m.RegistrationEmailSent,
		ConfirmationEmailSent: m.RegistrationConfirmationEmailSent,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	if out.PreferredDates == nil {
		out.PreferredDates = []string{}
	}
	if out.HasPaymentScreenshot && screenshotURL != nil {
		u := screenshotURL(m.RegistrationID)
		out.PaymentScreenshotURL = &u
	}
	return out
}

func ToRegistrationDTOs(rows []model.RegistrationModel, screenshotURL func(id string) string) []RegistrationDTO {
	out := make([]RegistrationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToRegistrationDTO(r, screenshotURL))
	}
	return out
}
