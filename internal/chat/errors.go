package chat

import "errors"

var (
	ErrEmptyInput      = errors.New("chat: message is empty")
	ErrNoAttachment    = errors.New("chat: no image attached")
	ErrBusy            = errors.New("chat: a request is already pending")
	ErrSessionNotFound = errors.New("chat: session not found")
)
