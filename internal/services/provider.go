package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ResponseProvider is the boundary to the hosted generative model.
type ResponseProvider interface {
	TextQuery(ctx context.Context, prompt string) (string, error)
	ImageQuery(ctx context.Context, data []byte, mimeType, description string) (string, error)
}

type ProviderErrorKind int

const (
	// ProviderTransient covers network, quota, policy and empty-response
	// failures. Retrying later may help.
	ProviderTransient ProviderErrorKind = iota
	// ProviderCredential means the credential is missing or was rejected.
	ProviderCredential
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderCredential:
		return "credential"
	default:
		return "transient"
	}
}

var (
	ErrMissingCredential = errors.New("provider credential is not configured")
	ErrEmptyResponse     = errors.New("provider returned an empty response")
)

type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func credentialError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ProviderCredential, Err: err}
}

func transientError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ProviderTransient, Err: err}
}

// IsCredentialError reports whether err is a ProviderError caused by the
// credential.
func IsCredentialError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ProviderCredential
}

type timeoutProvider struct {
	next    ResponseProvider
	timeout time.Duration
}

// WithTimeout bounds every call to next. A call that runs out of time fails
// with a transient ProviderError.
func WithTimeout(next ResponseProvider, timeout time.Duration) ResponseProvider {
	if timeout <= 0 {
		return next
	}
	return &timeoutProvider{next: next, timeout: timeout}
}

func (p *timeoutProvider) TextQuery(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text, err := p.next.TextQuery(ctx, prompt)
	return text, p.wrap(ctx, err)
}

func (p *timeoutProvider) ImageQuery(ctx context.Context, data []byte, mimeType, description string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text, err := p.next.ImageQuery(ctx, data, mimeType, description)
	return text, p.wrap(ctx, err)
}

func (p *timeoutProvider) wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return transientError("timeout", fmt.Errorf("no response within %s: %w", p.timeout, err))
	}
	return transientError("unknown", err)
}
