package mailer

import (
	"context"
	"fmt"

	"experience-market/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is an outbound email. It is also the body of queued
// notification messages, so it is validated on both ends.
type Message struct {
	Kind    string   `json:"kind" validate:"required,max=64"`
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject" validate:"required,max=200"`
	Text    string   `json:"text" validate:"required"`
	HTML    string   `json:"html,omitempty"`
}

func (m Message) Validate() error {
	if errs := utils.ValidateStruct(m); len(errs) > 0 {
		return fmt.Errorf("invalid email message: %s", utils.FormatValidationErrors(errs))
	}
	return nil
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   config.From,
		log:    log.With(zap.String("mailer", "smtp")),
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("kind", msg.Kind),
			zap.Strings("to", msg.To),
		)
		return fmt.Errorf("send %s email: %w", msg.Kind, err)
	}

	m.log.Info("Email sent", zap.String("kind", msg.Kind), zap.Strings("to", msg.To))
	return nil
}
