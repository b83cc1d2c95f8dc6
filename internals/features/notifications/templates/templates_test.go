package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_backend/internals/features/notifications/model"
)

func sample() Registration {
	return Registration{
		ID:              "3f1c9a7e-0000-4000-8000-000000000001",
		Name:            "Asha <Rao>",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		Age:             29,
		InterestArea:    "clinical",
		PreferredDates:  []string{"2025-06-01", "2025-06-02"},
		PreferredTiming: "morning",
		ReferralSource:  "instagram",
		PaymentStatus:   "pending",
		CreatedAt:       time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestEmail_RegistrationPending(t *testing.T) {
	out, err := Email(model.KindRegistrationPending, sample())
	require.NoError(t, err)

	assert.Equal(t, SubjectRegistrationPending, out.Subject)
	assert.Contains(t, out.Text, "Hello Asha <Rao>,")
	assert.Contains(t, out.Text, "Dates: 2025-06-01 - 2025-06-02")
	assert.Contains(t, out.Text, "Payment Status: Pending")
	assert.Contains(t, out.Text, "Please complete your payment")

	// html escapes user input
	assert.Contains(t, out.HTML, "Hello Asha &lt;Rao&gt;,")
	assert.NotContains(t, out.HTML, "<Rao>")
}

func TestEmail_AdminNotify(t *testing.T) {
	out, err := Email(model.KindAdminNotify, sample())
	require.NoError(t, err)

	assert.Equal(t, SubjectAdminNotify, out.Subject)
	assert.Contains(t, out.Text, "- Expectations: None provided")
	assert.Contains(t, out.Text, "- Age: 29")
}

func TestEmail_PaymentConfirmedAdminLinksScreenshot(t *testing.T) {
	r := sample()
	r.PaymentStatus = "completed"
	r.ScreenshotURL = "https://api.example.com/api/registrations/" + r.ID + "/screenshot"

	out, err := Email(model.KindPaymentConfirmedAdmin, r)
	require.NoError(t, err)
	assert.Equal(t, SubjectPaymentConfirmedAdmin, out.Subject)
	assert.Contains(t, out.Text, "Payment Screenshot: "+r.ScreenshotURL)
	assert.Contains(t, out.HTML, `href="`+r.ScreenshotURL+`"`)
}

func TestWhatsApp(t *testing.T) {
	pending, err := WhatsApp(model.KindRegistrationPending, sample())
	require.NoError(t, err)
	assert.Contains(t, pending.Body, "Pending ⏳")
	assert.Contains(t, pending.Body, "Please complete your payment")

	r := sample()
	r.PaymentStatus = "completed"
	confirmed, err := WhatsApp(model.KindPaymentConfirmed, r)
	require.NoError(t, err)
	assert.Contains(t, confirmed.Body, "Thank you for your payment confirmation!")

	_, err = WhatsApp(model.KindAdminNotify, r)
	assert.Error(t, err)
}
