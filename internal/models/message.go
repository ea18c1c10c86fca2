package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// LongMessageLimit is the body length, in characters, above which a message
// renders truncated until it is expanded.
const LongMessageLimit = 400

type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

type Kind string

const (
	KindPlainText           Kind = "plain-text"
	KindImageAttachment     Kind = "image-attachment"
	KindImageAnalysisResult Kind = "image-analysis-result"
)

// AttachmentRef is what a message keeps of an uploaded image. The preview it
// points at is revoked once the attachment is released.
type AttachmentRef struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	MIMEType   string    `json:"mime_type"`
	Size       int       `json:"size"`
	PreviewURL string    `json:"preview_url"`
}

// Message is a single transcript entry. Everything except Expanded is
// write-once.
type Message struct {
	ID         uuid.UUID      `json:"id"`
	Author     Author         `json:"author"`
	Body       string         `json:"body"`
	Kind       Kind           `json:"kind"`
	Attachment *AttachmentRef `json:"attachment,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Expanded   bool           `json:"expanded"`
}

// NewMessageID returns a time-ordered (v7) id, so ids sort in creation order.
func NewMessageID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewMessage builds a message with a fresh id. Short bodies start expanded,
// long ones start collapsed.
func NewMessage(author Author, kind Kind, body string, at time.Time) Message {
	return Message{
		ID:        NewMessageID(),
		Author:    author,
		Body:      body,
		Kind:      kind,
		CreatedAt: at,
		Expanded:  !IsLong(body),
	}
}

func IsLong(body string) bool {
	return utf8.RuneCountInString(body) > LongMessageLimit
}

type PendingKind string

const (
	PendingNone     PendingKind = "none"
	PendingText     PendingKind = "text"
	PendingImage    PendingKind = "image"
	// PendingGuidance holds the slot while canned guidance is appended.
	PendingGuidance PendingKind = "guidance"
)

// RequestState describes the single in-flight request slot of a session.
type RequestState struct {
	Pending bool        `json:"pending"`
	Kind    PendingKind `json:"pending_kind"`
}
