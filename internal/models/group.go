package models

import "time"

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon" binding:"required"`
}

type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	IsPremium    bool      `json:"isPremium"`
	Price        string    `json:"price"`
	MemberCount  int       `json:"memberCount"`
	AdminID      string    `json:"adminId"`
	AdminName    string    `json:"adminName"`
	CreatedBy    string    `json:"createdBy"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type GroupCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id" binding:"required"`
	IsPremium   bool   `json:"is_premium"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

type GroupUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPremium   *bool   `json:"is_premium"`
	Price       *string `json:"price"`
	ImageURL    *string `json:"image_url"`
}

// GroupMember is the join record linking a user to a group. The document id
// is the composite <groupId>/<userId>, which enforces the one-record-per-pair
// invariant at the storage layer.
type GroupMember struct {
	ID                    string    `json:"id"`
	GroupID               string    `json:"groupId"`
	UserID                string    `json:"userId"`
	UserEmail             string    `json:"userEmail"`
	UserName              string    `json:"userName"`
	SubscriptionStartDate time.Time `json:"subscriptionStartDate"`
	SubscriptionEndDate   time.Time `json:"subscriptionEndDate"`
	IsActive              bool      `json:"isActive"`
	JoinedAt              time.Time `json:"joinedAt"`
}
