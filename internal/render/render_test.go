package render

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"healthguard-backend/internal/models"
	"healthguard-backend/internal/transcript"
)

func TestView_ShortMessageUntouched(t *testing.T) {
	m := models.NewMessage(models.AuthorAssistant, models.KindPlainText, "Drink water.", time.Now())

	v := View(m)
	if v.DisplayBody != "Drink water." || v.Truncated || v.Long {
		t.Fatalf("unexpected view for short message: %+v", v)
	}
	if !v.Expanded {
		t.Fatalf("short messages default to expanded")
	}
}

func TestView_TruncationFollowsToggle(t *testing.T) {
	body := strings.Repeat("x", 500)
	store := transcript.NewStore()
	m := models.NewMessage(models.AuthorAssistant, models.KindPlainText, body, time.Now())
	if err := store.Append(m); err != nil {
		t.Fatalf("append: %v", err)
	}

	v := View(m)
	if !v.Truncated {
		t.Fatalf("expected initial render to be truncated")
	}
	if n := utf8.RuneCountInString(v.DisplayBody); n > 403 {
		t.Fatalf("expected at most 403 characters, got %d", n)
	}
	if !strings.HasSuffix(v.DisplayBody, Ellipsis) {
		t.Fatalf("expected ellipsis marker, got %q", v.DisplayBody[len(v.DisplayBody)-5:])
	}

	expanded, _ := store.ToggleExpanded(m.ID)
	v = View(expanded)
	if v.Truncated || v.DisplayBody != body {
		t.Fatalf("expected full body after toggle, got %d chars", len(v.DisplayBody))
	}

	collapsed, _ := store.ToggleExpanded(m.ID)
	v = View(collapsed)
	if !v.Truncated || utf8.RuneCountInString(v.DisplayBody) != 403 {
		t.Fatalf("expected truncation restored after second toggle")
	}

	stored, _ := store.Get(m.ID)
	if stored.Body != body {
		t.Fatalf("rendering must never alter the stored body")
	}
}

func TestView_TruncatesOnCharacterBoundary(t *testing.T) {
	body := strings.Repeat("é", 450)
	m := models.NewMessage(models.AuthorAssistant, models.KindPlainText, body, time.Now())

	v := View(m)
	if !utf8.ValidString(v.DisplayBody) {
		t.Fatalf("truncation split a multi-byte character")
	}
	if got := utf8.RuneCountInString(v.DisplayBody); got != 403 {
		t.Fatalf("expected 403 characters, got %d", got)
	}
}

func TestView_ExactlyAtLimitIsNotLong(t *testing.T) {
	m := models.NewMessage(models.AuthorUser, models.KindPlainText, strings.Repeat("y", 400), time.Now())
	if v := View(m); v.Long || v.Truncated {
		t.Fatalf("a 400 character body must not be treated as long")
	}
}

func TestViewAll_EmptyTranscript(t *testing.T) {
	views := ViewAll(transcript.NewStore().All())
	if views == nil || len(views) != 0 {
		t.Fatalf("expected empty, non-nil slice")
	}
}
