// Package templates renders the email and WhatsApp bodies sent on each
// registration phase transition.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltpl "html/template"
	"strings"
	texttpl "text/template"
	"time"

	"workshop_backend/internals/features/notifications/model"
)

//go:embed files/*.tmpl
var files embed.FS

const (
	SubjectRegistrationPending   = "Workshop Registration Confirmation"
	SubjectAdminNotify           = "New Workshop Registration"
	SubjectPaymentConfirmed      = "Workshop Payment Confirmation"
	SubjectPaymentConfirmedAdmin = "Workshop Payment Completed"
)

// Registration is the view of a registration the templates see.
type Registration struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	Age             int
	InterestArea    string
	PreferredDates  []string
	PreferredTiming string
	Expectations    string
	ReferralSource  string
	PaymentStatus   string
	CreatedAt       time.Time
	ScreenshotURL   string
}

func (r Registration) Completed() bool { return r.PaymentStatus == "completed" }

var funcs = map[string]any{
	"dates": func(d []string) string { return strings.Join(d, " - ") },
	"stamp": func(t time.Time) string { return t.UTC().Format(time.RFC1123) },
}

type page struct {
	Registration
	Year int
}

var (
	textSet = texttpl.Must(texttpl.New("text").Funcs(funcs).ParseFS(files, "files/*.txt.tmpl"))
	htmlSet = map[model.Kind]*htmltpl.Template{}
)

func init() {
	for _, k := range []model.Kind{
		model.KindRegistrationPending, model.KindAdminNotify,
		model.KindPaymentConfirmed, model.KindPaymentConfirmedAdmin,
	} {
		htmlSet[k] = htmltpl.Must(htmltpl.New(string(k)).Funcs(funcs).
			ParseFS(files, "files/layout.html.tmpl", "files/"+string(k)+".html.tmpl"))
	}
}

var subjects = map[model.Kind]string{
	model.KindRegistrationPending:   SubjectRegistrationPending,
	model.KindAdminNotify:           SubjectAdminNotify,
	model.KindPaymentConfirmed:      SubjectPaymentConfirmed,
	model.KindPaymentConfirmedAdmin: SubjectPaymentConfirmedAdmin,
}

// Email renders the subject, plain-text and HTML parts for an email kind.
func Email(kind model.Kind, r Registration) (model.EmailPayload, error) {
	subject, ok := subjects[kind]
	if !ok {
		return model.EmailPayload{}, fmt.Errorf("templates: no email template for %q", kind)
	}

	var text bytes.Buffer
	if err := textSet.ExecuteTemplate(&text, string(kind)+".txt.tmpl", r); err != nil {
		return model.EmailPayload{}, fmt.Errorf("templates: render %s text: %w", kind, err)
	}

	var html bytes.Buffer
	if err := htmlSet[kind].ExecuteTemplate(&html, "layout", page{Registration: r, Year: time.Now().Year()}); err != nil {
		return model.EmailPayload{}, fmt.Errorf("templates: render %s html: %w", kind, err)
	}

	return model.EmailPayload{
		Subject: subject,
		Text:    strings.TrimSpace(text.String()),
		HTML:    html.String(),
	}, nil
}

// WhatsApp renders the chat message for the registrant; only the registrant-facing
// kinds have one.
func WhatsApp(kind model.Kind, r Registration) (model.WhatsAppPayload, error) {
	var name string
	switch kind {
	case model.KindRegistrationPending:
		name = "whatsapp_registration_pending.txt.tmpl"
	case model.KindPaymentConfirmed:
		name = "whatsapp_payment_confirmed.txt.tmpl"
	default:
		return model.WhatsAppPayload{}, fmt.Errorf("templates: no whatsapp template for %q", kind)
	}

	var buf bytes.Buffer
	if err := textSet.ExecuteTemplate(&buf, name, r); err != nil {
		return model.WhatsAppPayload{}, fmt.Errorf("templates: render %s: %w", name, err)
	}
	return model.WhatsAppPayload{Body: strings.TrimSpace(buf.String())}, nil
}
