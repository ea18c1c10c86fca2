package chat

import (
	"sync/atomic"

	"github.com/google/uuid"

	"healthguard-backend/internal/models"
)

// Attachment is an uploaded image waiting to be analyzed. The coordinator
// owns it from Attach until it is released.
type Attachment struct {
	ID         uuid.UUID
	Filename   string
	MIMEType   string
	Data       []byte
	PreviewURL string

	onRelease func()
	released  atomic.Bool
}

// NewAttachment wraps an upload. onRelease revokes the preview and may be nil.
func NewAttachment(id uuid.UUID, filename, mimeType string, data []byte, previewURL string, onRelease func()) *Attachment {
	return &Attachment{
		ID:         id,
		Filename:   filename,
		MIMEType:   mimeType,
		Data:       data,
		PreviewURL: previewURL,
		onRelease:  onRelease,
	}
}

// Release revokes the preview. Only the first call does anything; it reports
// whether this call was the one that released.
func (a *Attachment) Release() bool {
	if !a.released.CompareAndSwap(false, true) {
		return false
	}
	if a.onRelease != nil {
		a.onRelease()
	}
	return true
}

func (a *Attachment) Released() bool {
	return a.released.Load()
}

func (a *Attachment) Ref() models.AttachmentRef {
	return models.AttachmentRef{
		ID:         a.ID,
		Filename:   a.Filename,
		MIMEType:   a.MIMEType,
		Size:       len(a.Data),
		PreviewURL: a.PreviewURL,
	}
}
