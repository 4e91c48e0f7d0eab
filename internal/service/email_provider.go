package service

import (
	"context"
	"fmt"
	"log"
)

// EmailProvider interface for different email services
type EmailProvider interface {
	SendRenewalReminder(ctx context.Context, data ReminderEmailData) error
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

// ReminderEmailData carries everything a renewal reminder template needs.
type ReminderEmailData struct {
	Email         string
	Name          string
	GroupName     string
	DaysUntilEnd  int
	InGracePeriod bool
}

// MultiProviderEmailService handles multiple email providers with fallback
type MultiProviderEmailService struct {
	providers []EmailProvider
	primary   EmailProvider
}

// NewMultiProviderEmailService creates a new multi-provider email service
func NewMultiProviderEmailService(providers []EmailProvider) *MultiProviderEmailService {
	if len(providers) == 0 {
		return &MultiProviderEmailService{}
	}

	return &MultiProviderEmailService{
		providers: providers,
		primary:   providers[0], // First provider is primary
	}
}

// SendRenewalReminder tries each provider in order until one succeeds.
func (m *MultiProviderEmailService) SendRenewalReminder(ctx context.Context, data ReminderEmailData) error {
	if len(m.providers) == 0 {
		return fmt.Errorf("no email providers configured")
	}

	var lastErr error
	for i, provider := range m.providers {
		err := provider.SendRenewalReminder(ctx, data)
		if err == nil {
			log.Printf("Renewal reminder sent successfully via provider %d", i+1)
			return nil
		}

		log.Printf("Provider %d failed: %v", i+1, err)
		lastErr = err
	}

	return fmt.Errorf("all email providers failed. Last error: %w", lastErr)
}

// SendWelcomeEmail tries to send welcome email using available providers
func (m *MultiProviderEmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	if len(m.providers) == 0 {
		return fmt.Errorf("no email providers configured")
	}

	var lastErr error
	for i, provider := range m.providers {
		err := provider.SendWelcomeEmail(ctx, email, name)
		if err == nil {
			log.Printf("Welcome email sent successfully via provider %d", i+1)
			return nil
		}

		log.Printf("Provider %d failed: %v", i+1, err)
		lastErr = err
	}

	return fmt.Errorf("all email providers failed. Last error: %w", lastErr)
}

// GetProviderCount returns the number of configured providers
func (m *MultiProviderEmailService) GetProviderCount() int {
	return len(m.providers)
}

// GetPrimaryProvider returns the primary provider
func (m *MultiProviderEmailService) GetPrimaryProvider() EmailProvider {
	return m.primary
}
