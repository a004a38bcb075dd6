// Package mail delivers account emails through Mailjet.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mailjet/mailjet-apiv3-go/v4"
)

type Notifier struct {
	send        func(*mailjet.MessagesV31) error
	senderEmail string
	senderName  string
	appName     string
}

func NewNotifier(apiKey, apiSecret, senderEmail, senderName, appName string) *Notifier {
	client := mailjet.NewMailjetClient(apiKey, apiSecret)

	return &Notifier{
		send: func(m *mailjet.MessagesV31) error {
			_, err := client.SendMailV31(m)
			return err
		},
		senderEmail: senderEmail,
		senderName:  senderName,
		appName:     appName,
	}
}

func (n *Notifier) SendPasswordReset(ctx context.Context, email string, link string) error {
	body := fmt.Sprintf("Hello,\n\nAn administrator requested a password reset for your %s account.\n"+
		"Use the link below to choose a new password:\n\n%s\n\n"+
		"If you did not expect this email you can ignore it.\n\nThe %s Team",
		n.appName, link, n.appName)

	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: n.senderEmail,
				Name:  n.senderName,
			},
			To: &mailjet.RecipientsV31{
				{
					Email: email,
				},
			},
			Subject:  fmt.Sprintf("Reset your %s password", n.appName),
			TextPart: body,
		},
	}}

	if err := n.send(&messages); err != nil {
		return fmt.Errorf("sending reset email via mailjet: %w", err)
	}

	slog.InfoContext(ctx, "sent password reset email")

	return nil
}
