package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthguard-backend/internal/models"
	"healthguard-backend/internal/render"
	"healthguard-backend/internal/services"
	"healthguard-backend/internal/transcript"
)

// Publisher receives every transcript and state change of a session.
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage)
}

// Recorder observes provider requests.
type Recorder interface {
	RequestStarted(kind string)
	RequestSettled(kind, outcome string, latency time.Duration)
}

const (
	OutcomeSuccess            = "success"
	OutcomeCredentialFallback = "credential_fallback"
	OutcomeTransientFallback  = "transient_fallback"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, uuid.UUID, models.WSMessage) {}

type nopRecorder struct{}

func (nopRecorder) RequestStarted(string)                       {}
func (nopRecorder) RequestSettled(string, string, time.Duration) {}

type Option func(*Coordinator)

func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithSessionID(id uuid.UUID) Option {
	return func(c *Coordinator) { c.sessionID = id }
}

// Exchange is the pair of messages one send appends.
type Exchange struct {
	User      models.Message
	Assistant models.Message
	Outcome   string
}

// Coordinator runs at most one provider request at a time for a session and
// turns every outcome into transcript messages.
type Coordinator struct {
	sessionID uuid.UUID
	store     *transcript.Store
	provider  services.ResponseProvider
	logger    *zap.SugaredLogger
	publisher Publisher
	recorder  Recorder
	now       func() time.Time

	// mu guards pending and attachment. pending is the request gate.
	mu         sync.Mutex
	pending    models.PendingKind
	attachment *Attachment

	// appendMu keeps id generation and Append in one step so ids reach the
	// store in order.
	appendMu sync.Mutex
}

func NewCoordinator(store *transcript.Store, provider services.ResponseProvider, logger *zap.SugaredLogger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		provider:  provider,
		logger:    logger,
		publisher: nopPublisher{},
		recorder:  nopRecorder{},
		now:       time.Now,
		pending:   models.PendingNone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Store() *transcript.Store { return c.store }

func (c *Coordinator) IsBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != models.PendingNone
}

func (c *Coordinator) State() models.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.RequestState{Pending: c.pending != models.PendingNone, Kind: c.pending}
}

// Send is the single send action: it analyzes the pending attachment when
// there is one and otherwise sends text.
func (c *Coordinator) Send(ctx context.Context, input string) (Exchange, error) {
	if c.pendingAttachment() != nil {
		ex, err := c.SendPendingImage(ctx, input)
		if !errors.Is(err, ErrNoAttachment) {
			return ex, err
		}
	}
	return c.SendText(ctx, input)
}

// SendText appends the user message, asks the provider and appends the
// answer or a fallback. Provider failures never surface as errors.
func (c *Coordinator) SendText(ctx context.Context, input string) (Exchange, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		if c.pendingAttachment() != nil {
			return c.SendPendingImage(ctx, "")
		}
		return Exchange{}, ErrEmptyInput
	}

	if !c.acquire(models.PendingText) {
		return Exchange{}, ErrBusy
	}
	defer c.release()

	user, err := c.appendMessage(models.AuthorUser, models.KindPlainText, input, nil)
	if err != nil {
		return Exchange{}, fmt.Errorf("append user message: %w", err)
	}

	text, latency, err := c.call(ctx, models.PendingText, func(ctx context.Context) (string, error) {
		return c.provider.TextQuery(ctx, input)
	})
	body, outcome := c.settle(models.PendingText, text, latency, err)

	assistant, err := c.appendMessage(models.AuthorAssistant, models.KindPlainText, body, nil)
	if err != nil {
		return Exchange{}, fmt.Errorf("append assistant message: %w", err)
	}
	return Exchange{User: user, Assistant: assistant, Outcome: outcome}, nil
}

// SendImage sends att for analysis. Once the request settles att is released,
// whatever the outcome, and cleared from the pending slot. An attachment that
// was already released is never sent.
func (c *Coordinator) SendImage(ctx context.Context, att *Attachment, description string) (Exchange, error) {
	if att == nil {
		return Exchange{}, ErrNoAttachment
	}
	if !c.acquire(models.PendingImage) {
		return Exchange{}, ErrBusy
	}
	defer c.release()

	if att.Released() {
		return Exchange{}, ErrNoAttachment
	}
	return c.analyze(ctx, att, description)
}

// SendPendingImage analyzes the pending attachment. The attachment is taken
// in the same step that closes the gate, so a concurrent RemoveAttachment
// either wins and the call fails with ErrNoAttachment, or loses with ErrBusy.
func (c *Coordinator) SendPendingImage(ctx context.Context, description string) (Exchange, error) {
	att, err := c.acquirePending()
	if err != nil {
		return Exchange{}, err
	}
	defer c.release()

	return c.analyze(ctx, att, description)
}

func (c *Coordinator) analyze(ctx context.Context, att *Attachment, description string) (Exchange, error) {
	defer c.finishAttachment(att)

	description = strings.TrimSpace(description)
	body := description
	if body == "" {
		body = DefaultImagePrompt
	}

	ref := att.Ref()
	user, err := c.appendMessage(models.AuthorUser, models.KindImageAttachment, body, &ref)
	if err != nil {
		return Exchange{}, fmt.Errorf("append user message: %w", err)
	}

	text, latency, err := c.call(ctx, models.PendingImage, func(ctx context.Context) (string, error) {
		return c.provider.ImageQuery(ctx, att.Data, att.MIMEType, description)
	})
	body, outcome := c.settle(models.PendingImage, text, latency, err)

	assistant, err := c.appendMessage(models.AuthorAssistant, models.KindImageAnalysisResult, body, nil)
	if err != nil {
		return Exchange{}, fmt.Errorf("append assistant message: %w", err)
	}
	return Exchange{User: user, Assistant: assistant, Outcome: outcome}, nil
}

// Attach makes att the pending attachment, releasing any previous one.
func (c *Coordinator) Attach(att *Attachment) error {
	if att == nil {
		return ErrNoAttachment
	}

	c.mu.Lock()
	if c.pending != models.PendingNone {
		c.mu.Unlock()
		return ErrBusy
	}
	prev := c.attachment
	c.attachment = att
	c.mu.Unlock()

	if prev != nil && prev != att {
		prev.Release()
	}
	c.publishAttachment(att)
	return nil
}

// RemoveAttachment releases the pending attachment.
func (c *Coordinator) RemoveAttachment() error {
	c.mu.Lock()
	if c.pending != models.PendingNone {
		c.mu.Unlock()
		return ErrBusy
	}
	att := c.attachment
	c.attachment = nil
	c.mu.Unlock()

	if att == nil {
		return ErrNoAttachment
	}
	att.Release()
	c.publishAttachment(nil)
	return nil
}

func (c *Coordinator) PendingAttachment() (models.AttachmentRef, bool) {
	if att := c.pendingAttachment(); att != nil {
		return att.Ref(), true
	}
	return models.AttachmentRef{}, false
}

func (c *Coordinator) pendingAttachment() *Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attachment
}

// Close releases the pending attachment. An in-flight image request still
// releases its own attachment when it settles.
func (c *Coordinator) Close() {
	c.mu.Lock()
	att := c.attachment
	c.attachment = nil
	c.mu.Unlock()

	if att != nil {
		att.Release()
	}
}

func (c *Coordinator) SeedWelcome() (models.Message, error) {
	return c.appendMessage(models.AuthorAssistant, models.KindPlainText, WelcomeMessage, nil)
}

// AppendEmergencyGuidance appends the emergency copy without a provider
// call. It is refused while a request is pending so it cannot land between a
// question and its answer, and holds the slot while it appends.
func (c *Coordinator) AppendEmergencyGuidance() (models.Message, error) {
	c.mu.Lock()
	if c.pending != models.PendingNone {
		c.mu.Unlock()
		return models.Message{}, ErrBusy
	}
	c.pending = models.PendingGuidance
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.pending = models.PendingNone
		c.mu.Unlock()
	}()
	return c.appendMessage(models.AuthorAssistant, models.KindPlainText, EmergencyGuidance, nil)
}

func (c *Coordinator) ToggleExpanded(id uuid.UUID) (models.Message, error) {
	msg, err := c.store.ToggleExpanded(id)
	if err != nil {
		return models.Message{}, err
	}
	c.publish(models.EventMessageUpdated, render.View(msg))
	return msg, nil
}

func (c *Coordinator) acquire(kind models.PendingKind) bool {
	c.mu.Lock()
	if c.pending != models.PendingNone {
		c.mu.Unlock()
		return false
	}
	c.pending = kind
	state := models.RequestState{Pending: true, Kind: kind}
	c.mu.Unlock()

	c.publish(models.EventRequestState, state)
	return true
}

// acquirePending closes the gate for an image request on the pending
// attachment.
func (c *Coordinator) acquirePending() (*Attachment, error) {
	c.mu.Lock()
	if c.pending != models.PendingNone {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	att := c.attachment
	if att == nil {
		c.mu.Unlock()
		return nil, ErrNoAttachment
	}
	c.pending = models.PendingImage
	c.mu.Unlock()

	c.publish(models.EventRequestState, models.RequestState{Pending: true, Kind: models.PendingImage})
	return att, nil
}

func (c *Coordinator) release() {
	c.mu.Lock()
	c.pending = models.PendingNone
	c.mu.Unlock()

	c.publish(models.EventRequestState, models.RequestState{Kind: models.PendingNone})
}

func (c *Coordinator) finishAttachment(att *Attachment) {
	c.mu.Lock()
	wasPending := c.attachment == att
	if wasPending {
		c.attachment = nil
	}
	c.mu.Unlock()

	att.Release()
	if wasPending {
		c.publishAttachment(nil)
	}
}

// call runs one provider request detached from the caller's cancellation. A
// panic in the provider is reported as an error.
func (c *Coordinator) call(ctx context.Context, kind models.PendingKind, fn func(context.Context) (string, error)) (text string, latency time.Duration, err error) {
	c.recorder.RequestStarted(string(kind))
	start := c.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
		latency = c.now().Sub(start)
	}()
	text, err = fn(context.WithoutCancel(ctx))
	return text, 0, err
}

// settle maps a provider result to the assistant message body and records
// the outcome.
func (c *Coordinator) settle(kind models.PendingKind, text string, latency time.Duration, err error) (string, string) {
	if err == nil {
		if cleaned := services.Clean(text); cleaned != "" {
			c.recorder.RequestSettled(string(kind), OutcomeSuccess, latency)
			return cleaned, OutcomeSuccess
		}
		err = services.ErrEmptyResponse
	}

	outcome := outcomeOf(err)
	c.recorder.RequestSettled(string(kind), outcome, latency)
	c.logger.Warnw("Provider request failed",
		"session", c.sessionID,
		"kind", kind,
		"outcome", outcome,
		"latency", latency,
		"error", err,
	)

	switch {
	case outcome == OutcomeCredentialFallback:
		return CredentialFallback, outcome
	case kind == models.PendingImage:
		return ImageFallback, outcome
	default:
		return TransientFallback, outcome
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case services.IsCredentialError(err):
		return OutcomeCredentialFallback
	default:
		return OutcomeTransientFallback
	}
}

func (c *Coordinator) appendMessage(author models.Author, kind models.Kind, body string, att *models.AttachmentRef) (models.Message, error) {
	c.appendMu.Lock()
	msg := models.NewMessage(author, kind, body, c.now())
	msg.Attachment = att
	err := c.store.Append(msg)
	c.appendMu.Unlock()

	if err != nil {
		c.logger.Errorw("Transcript rejected message", "session", c.sessionID, "id", msg.ID, "error", err)
		return models.Message{}, err
	}
	c.publish(models.EventMessageAppended, render.View(msg))
	return msg, nil
}

func (c *Coordinator) publishAttachment(att *Attachment) {
	state := models.AttachmentState{}
	if att != nil {
		ref := att.Ref()
		state = models.AttachmentState{Attached: true, Attachment: &ref}
	}
	c.publish(models.EventAttachmentState, state)
}

func (c *Coordinator) publish(eventType string, payload interface{}) {
	c.publisher.Publish(context.Background(), c.sessionID, models.WSMessage{Type: eventType, Payload: payload})
}
