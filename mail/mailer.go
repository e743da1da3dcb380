package mail

//go:generate mockgen -destination=mock/mailer.go -package=mock food-delivery-graphql/mail Mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Mailer delivers verification codes. Implementations must not block the
// caller and must not report delivery failures back to it.
type Mailer interface {
	SendVerificationEmail(email, code string)
}

// MailgunMailer sends templated mail through the Mailgun HTTP API
type MailgunMailer struct {
	apiKey   string
	domain   string
	from     string
	template string
	client   *http.Client
	baseURL  string
}

func NewMailgunMailer(apiKey, domain, from string) *MailgunMailer {
	return &MailgunMailer{
		apiKey:   apiKey,
		domain:   domain,
		from:     from,
		template: "verify-email",
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  "https://api.mailgun.net/v3",
	}
}

// SendVerificationEmail fires the request in the background; errors are only logged
func (m *MailgunMailer) SendVerificationEmail(email, code string) {
	vars := map[string]string{"code": code, "username": email}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := m.send(ctx, "Verify Your Email", email, vars); err != nil {
			log.Error().Err(err).Str("to", email).Msg("failed to send verification email")
		}
	}()
}

func (m *MailgunMailer) send(ctx context.Context, subject, to string, vars map[string]string) error {
	form := url.Values{}
	form.Set("from", m.from)
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("template", m.template)
	for k, v := range vars {
		form.Set("v:"+k, v)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", m.baseURL, m.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", m.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailgun responded %s", resp.Status)
	}
	log.Debug().Str("to", to).Str("template", m.template).Msg("verification email sent")
	return nil
}

// LogMailer writes codes to the log instead of sending mail; used in development
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(email, code string) {
	log.Info().Str("to", email).Str("code", code).Msg("📧 verification email (not sent)")
}
