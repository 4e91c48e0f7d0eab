package models

import "time"

// Payment is simulated end to end. The log models subscription time windows
// only; no real money is processed.
const (
	PaymentTypeSubscription = "subscription"
	PaymentTypeRenewal      = "renewal"

	PaymentStatusCompleted = "completed"

	PaymentMethodMock = "mock_payment"
)

type PaymentLog struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"userId"`
	UserEmail             string    `json:"userEmail"`
	UserName              string    `json:"userName"`
	GroupID               string    `json:"groupId"`
	GroupName             string    `json:"groupName"`
	Amount                string    `json:"amount"`
	PaymentType           string    `json:"paymentType"`
	PaymentStatus         string    `json:"paymentStatus"`
	PaymentMethod         string    `json:"paymentMethod"`
	SubscriptionStartDate time.Time `json:"subscriptionStartDate"`
	SubscriptionEndDate   time.Time `json:"subscriptionEndDate"`
	CreatedAt             time.Time `json:"createdAt"`
}

type PaymentCreateRequest struct {
	GroupID       string `json:"group_id" binding:"required"`
	PaymentType   string `json:"payment_type" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}
