package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendService struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSendService(apiKey, fromEmail, fromName string) *MailerSendService {
	client := mailersend.NewMailersend(apiKey)

	from := mailersend.From{
		Name:  fromName,
		Email: fromEmail,
	}

	return &MailerSendService{
		client: client,
		from:   from,
	}
}

func (ms *MailerSendService) SendRenewalReminder(ctx context.Context, data ReminderEmailData) error {
	subject := fmt.Sprintf("Your %s subscription needs attention", data.GroupName)

	body := reminderLine(data)
	html := fmt.Sprintf(`
	<p>Hi <strong>%s</strong>,</p>
	<p>%s</p>
	<p>Renew from the group page to keep your access without interruption.</p>
	<p>-- CommuniShare Team</p>
	`, data.Name, body)

	text := fmt.Sprintf(`Hi %s,

%s

Renew from the group page to keep your access without interruption.

--
CommuniShare Team
`, data.Name, body)

	recipients := []mailersend.Recipient{
		{
			Name:  data.Name,
			Email: data.Email,
		},
	}

	message := ms.client.Email.NewMessage()
	message.SetFrom(ms.from)
	message.SetRecipients(recipients)
	message.SetSubject(subject)
	message.SetHTML(html)
	message.SetText(text)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := ms.client.Email.Send(ctx, message)
	if err != nil {
		log.Printf("Error sending reminder email to %s: %v", data.Email, err)
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	log.Printf("Reminder email sent to %s. Message ID: %s", data.Email, res.Header.Get("X-Message-Id"))
	return nil
}

func (ms *MailerSendService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	subject := "Welcome to CommuniShare!"

	html := fmt.Sprintf(`
	<p>Hi <strong>%s</strong>,</p>
	<p>Your CommuniShare account is ready. Browse free and premium groups, share
	subscriptions with other members, and chat in every group you join.</p>
	<p>-- CommuniShare Team</p>
	`, name)

	text := fmt.Sprintf(`Hi %s,

Your CommuniShare account is ready. Browse free and premium groups, share
subscriptions with other members, and chat in every group you join.

--
CommuniShare Team
`, name)

	recipients := []mailersend.Recipient{
		{
			Name:  name,
			Email: email,
		},
	}

	message := ms.client.Email.NewMessage()
	message.SetFrom(ms.from)
	message.SetRecipients(recipients)
	message.SetSubject(subject)
	message.SetHTML(html)
	message.SetText(text)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := ms.client.Email.Send(ctx, message)
	if err != nil {
		log.Printf("Error sending welcome email to %s: %v", email, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	log.Printf("Welcome email sent to %s. Message ID: %s", email, res.Header.Get("X-Message-Id"))
	return nil
}
