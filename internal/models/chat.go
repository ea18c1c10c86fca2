package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageView is the rendered form of a Message handed to clients.
type MessageView struct {
	ID          uuid.UUID      `json:"id"`
	Author      Author         `json:"author"`
	Kind        Kind           `json:"kind"`
	Body        string         `json:"body"`
	DisplayBody string         `json:"display_body"`
	Long        bool           `json:"long"`
	Truncated   bool           `json:"truncated"`
	Expanded    bool           `json:"expanded"`
	Attachment  *AttachmentRef `json:"attachment,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ChatRequest is the payload sent to the messages endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ImageRequest is the payload sent to the image endpoint.
type ImageRequest struct {
	Description string `json:"description"`
}

// ChatResponse carries the messages appended by one send.
type ChatResponse struct {
	Messages []MessageView `json:"messages"`
	State    RequestState  `json:"state"`
}

type SessionResponse struct {
	SessionID  uuid.UUID      `json:"session_id"`
	Messages   []MessageView  `json:"messages"`
	State      RequestState   `json:"state"`
	Attachment *AttachmentRef `json:"attachment,omitempty"`
}

type AttachmentResponse struct {
	Attachment AttachmentRef `json:"attachment"`
	SizeHuman  string        `json:"size_human"`
}

type QuickAction struct {
	Label    string `json:"label"`
	Question string `json:"question"`
}
