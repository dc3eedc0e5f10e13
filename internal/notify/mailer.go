package notify

import (
	"context"
	"log/slog"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer sends one message.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// WelcomeMessage builds the greeting sent to a new user.
func WelcomeMessage(from string, ev UserCreatedEvent) Message {
	return Message{
		From:    from,
		To:      ev.Email,
		Subject: "Welcome aboard",
		Body:    "Hi " + ev.Name + ", thanks for signing up...",
	}
}

// LogMailer writes messages to the structured log instead of an SMTP server.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.InfoContext(ctx, "sending email",
		slog.String("from", msg.From),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

// Handler turns registration events into welcome emails.
type Handler struct {
	mailer Mailer
	from   string
}

func NewHandler(mailer Mailer, from string) *Handler {
	return &Handler{mailer: mailer, from: from}
}

// HandleUserCreated sends the welcome email for ev.
func (h *Handler) HandleUserCreated(ctx context.Context, ev UserCreatedEvent) error {
	if err := h.mailer.Send(ctx, WelcomeMessage(h.from, ev)); err != nil {
		return err
	}
	slog.Info("welcome email sent", slog.Int64("user_id", ev.UserID))
	return nil
}
