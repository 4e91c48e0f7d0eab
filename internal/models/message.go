package models

import "time"

const (
	MessageTypeText = "text"
	MessageTypeLink = "link"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageSendRequest struct {
	Content string `json:"content" binding:"required"`
}
