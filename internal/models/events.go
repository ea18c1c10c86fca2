package models

// WebSocket message types
const (
	EventMessageAppended = "message_appended"
	EventMessageUpdated  = "message_updated"
	EventRequestState    = "request_state"
	EventAttachmentState = "attachment_state"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type AttachmentState struct {
	Attached   bool           `json:"attached"`
	Attachment *AttachmentRef `json:"attachment,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
