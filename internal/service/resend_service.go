package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

type ResendService struct {
	client *resend.Client
	from   string
}

func NewResendService(apiKey, fromEmail string) *ResendService {
	client := resend.NewClient(apiKey)

	return &ResendService{
		client: client,
		from:   fromEmail,
	}
}

func (rs *ResendService) SendRenewalReminder(ctx context.Context, data ReminderEmailData) error {
	subject := fmt.Sprintf("Your %s subscription needs attention", data.GroupName)

	html := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Subscription Reminder</title>
		<style>
			body {
				font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
				line-height: 1.6;
				color: #333;
				max-width: 600px;
				margin: 0 auto;
				padding: 20px;
				background-color: #f8f9fa;
			}
			.container {
				background-color: white;
				border-radius: 10px;
				padding: 30px;
				box-shadow: 0 2px 10px rgba(0,0,0,0.1);
			}
			.header {
				text-align: center;
				margin-bottom: 30px;
			}
			.logo {
				font-size: 28px;
				font-weight: bold;
				color: #3b82f6;
				margin-bottom: 10px;
			}
			.warning {
				background-color: #fef3c7;
				border-left: 4px solid #f59e0b;
				padding: 15px;
				margin: 20px 0;
				border-radius: 4px;
			}
			.footer {
				text-align: center;
				margin-top: 30px;
				padding-top: 20px;
				border-top: 1px solid #e5e7eb;
				color: #6b7280;
				font-size: 14px;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<div class="logo">COMMUNISHARE</div>
				<h1>Subscription Reminder</h1>
			</div>

			<p>Hi <strong>%s</strong>,</p>

			<div class="warning">%s</div>

			<p>Renew from the group page to keep your access without interruption.</p>

			<div class="footer">
				<p>This email was sent automatically, please do not reply.</p>
				<p>&copy; 2024 CommuniShare. All rights reserved.</p>
			</div>
		</div>
	</body>
	</html>
	`, data.Name, reminderLine(data))

	text := fmt.Sprintf(`
CommuniShare - Subscription Reminder

Hi %s,

%s

Renew from the group page to keep your access without interruption.

--
CommuniShare Team
	`, data.Name, reminderLine(data))

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "CommuniShare", rs.from),
		To:      []string{data.Email},
		Subject: subject,
		Html:    html,
		Text:    text,
	}

	res, err := rs.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("ResendService: Error sending reminder email to %s: %v", data.Email, err)
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	log.Printf("ResendService: Reminder email sent to %s. Message ID: %s", data.Email, res.Id)
	return nil
}

func (rs *ResendService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	subject := "Welcome to CommuniShare!"

	html := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Welcome to CommuniShare</title>
		<style>
			body {
				font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
				line-height: 1.6;
				color: #333;
				max-width: 600px;
				margin: 0 auto;
				padding: 20px;
				background-color: #f8f9fa;
			}
			.container {
				background-color: white;
				border-radius: 10px;
				padding: 30px;
				box-shadow: 0 2px 10px rgba(0,0,0,0.1);
			}
			.header {
				text-align: center;
				margin-bottom: 30px;
			}
			.logo {
				font-size: 28px;
				font-weight: bold;
				color: #3b82f6;
				margin-bottom: 10px;
			}
			.feature {
				background-color: #f8fafc;
				padding: 15px;
				margin: 10px 0;
				border-radius: 8px;
				border-left: 4px solid #3b82f6;
			}
			.footer {
				text-align: center;
				margin-top: 30px;
				padding-top: 20px;
				border-top: 1px solid #e5e7eb;
				color: #6b7280;
				font-size: 14px;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<div class="logo">COMMUNISHARE</div>
				<h1>Welcome!</h1>
			</div>

			<p>Hi <strong>%s</strong>,</p>

			<p>Your CommuniShare account is ready. Here is what you can do:</p>

			<div class="feature">
				<strong>Join communities</strong><br>
				Browse free and premium groups across every category.
			</div>

			<div class="feature">
				<strong>Share subscriptions</strong><br>
				Premium groups give a full month of access per payment.
			</div>

			<div class="feature">
				<strong>Chat with members</strong><br>
				Every group has its own chat room for active members.
			</div>

			<div class="footer">
				<p>Thanks for joining CommuniShare!</p>
				<p>&copy; 2024 CommuniShare. All rights reserved.</p>
			</div>
		</div>
	</body>
	</html>
	`, name)

	text := fmt.Sprintf(`
CommuniShare - Welcome!

Hi %s,

Your CommuniShare account is ready.

- Join communities: browse free and premium groups across every category
- Share subscriptions: premium groups give a full month of access per payment
- Chat with members: every group has its own chat room for active members

Thanks for joining CommuniShare!

--
CommuniShare Team
	`, name)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "CommuniShare", rs.from),
		To:      []string{email},
		Subject: subject,
		Html:    html,
		Text:    text,
	}

	res, err := rs.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("ResendService: Error sending welcome email to %s: %v", email, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	log.Printf("ResendService: Welcome email sent to %s. Message ID: %s", email, res.Id)
	return nil
}

func reminderLine(data ReminderEmailData) string {
	if data.InGracePeriod {
		return fmt.Sprintf("Your subscription to %s has ended and is in its grace period. Renew now to keep your access.", data.GroupName)
	}
	if data.DaysUntilEnd == 1 {
		return fmt.Sprintf("Your subscription to %s expires tomorrow.", data.GroupName)
	}
	return fmt.Sprintf("Your subscription to %s expires in %d days.", data.GroupName, data.DaysUntilEnd)
}
