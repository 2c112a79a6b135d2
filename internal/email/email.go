// Package email notifies officers about new contact form submissions.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"chapterSite/internal/models"

	"github.com/resend/resend-go/v2"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Sender
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Notifier struct {
	log    *slog.Logger
	sender Sender
	from   string
	to     string
}

var contactTmpl = template.Must(template.New("contact").Parse(`<h2>New contact form submission</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p>{{.Message}}</p>
<p style="color:#888">Submission {{.ID}} received {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
`))

// New returns nil when apiKey or recipient is empty, which disables
// notifications.
func New(log *slog.Logger, apiKey, from, to string) *Notifier {
	if apiKey == "" || to == "" {
		return nil
	}

	return NewWithSender(log, resend.NewClient(apiKey).Emails, from, to)
}

func NewWithSender(log *slog.Logger, sender Sender, from, to string) *Notifier {
	return &Notifier{
		log:    log.With(slog.String("component", "email")),
		sender: sender,
		from:   from,
		to:     to,
	}
}

func (n *Notifier) NotifyContactSubmission(ctx context.Context, sub *models.ContactSubmission) error {
	const op = "email.NotifyContactSubmission"

	var body bytes.Buffer
	if err := contactTmpl.Execute(&body, sub); err != nil {
		return fmt.Errorf("%s: render: %w", op, err)
	}

	sent, err := n.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		ReplyTo: sub.Email,
		Subject: "[Contact] " + sub.Subject,
		Html:    body.String(),
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			return fmt.Errorf("%s: rate limit exceeded (resets in %s seconds): %w", op, rateLimitErr.Reset, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	n.log.Info("contact notification sent",
		slog.String("email_id", sent.Id),
		slog.String("submission_id", sub.ID),
	)

	return nil
}
