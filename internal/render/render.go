// Package render turns transcript messages into their display form. It never
// changes the stored message.
package render

import (
	"iter"

	"healthguard-backend/internal/models"
)

const Ellipsis = "..."

// View renders one message. A long message that is not expanded shows its
// first LongMessageLimit characters followed by Ellipsis.
func View(m models.Message) models.MessageView {
	v := models.MessageView{
		ID:          m.ID,
		Author:      m.Author,
		Kind:        m.Kind,
		Body:        m.Body,
		DisplayBody: m.Body,
		Long:        models.IsLong(m.Body),
		Expanded:    m.Expanded,
		Attachment:  m.Attachment,
		CreatedAt:   m.CreatedAt,
	}
	if v.Long && !m.Expanded {
		v.DisplayBody = truncate(m.Body, models.LongMessageLimit) + Ellipsis
		v.Truncated = true
	}
	return v
}

func ViewAll(msgs iter.Seq[models.Message]) []models.MessageView {
	out := []models.MessageView{}
	for m := range msgs {
		out = append(out, View(m))
	}
	return out
}

func truncate(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
