// Package errclass turns raw failure messages from the research service into
// the small set of categories the UI knows how to show.
//
// The upstream service only reports failures as free text, so classification
// is substring matching. Rules are evaluated in order and the first match wins:
//
//  1. "Requested entity was not found"        -> NoCredential (authorization)
//  2. "403" or "permission" (any case)         -> AuthorizationDenied (authorization)
//  3. "500" or "Rpc failed"                    -> UpstreamTimeout
//  4. anything else                            -> UpstreamUnknown
package errclass

import (
	"errors"
	"fmt"
	"strings"

	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/models"
)

// Kind is a user-facing error category.
type Kind int

const (
	KindUpstreamUnknown Kind = iota
	KindNoCredential
	KindAuthorizationDenied
	KindUpstreamTimeout
	KindExportFailure
)

func (k Kind) String() string {
	switch k {
	case KindNoCredential:
		return "no_credential"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindUpstreamTimeout:
		return "upstream_timeout"
	case KindExportFailure:
		return "export_failure"
	default:
		return "upstream_unknown"
	}
}

// RequiresAuthorization reports whether errors of this kind route to the
// credential selection screen instead of the dismissible error panel.
func (k Kind) RequiresAuthorization() bool {
	return k == KindNoCredential || k == KindAuthorizationDenied
}

// Classification is the outcome of Classify.
type Classification struct {
	Kind                  Kind
	Message               string // localized, ready for display
	RequiresAuthorization bool
}

// Classify maps a raw upstream error message onto a Classification.
func Classify(raw string, lang models.Language) Classification {
	t := locale.For(lang)

	var c Classification
	switch {
	case strings.Contains(raw, "Requested entity was not found"):
		c = Classification{Kind: KindNoCredential, Message: t.ErrEntityNotFound}
	case strings.Contains(raw, "403") || strings.Contains(strings.ToLower(raw), "permission"):
		c = Classification{Kind: KindAuthorizationDenied, Message: t.ErrPermission}
	case strings.Contains(raw, "500") || strings.Contains(raw, "Rpc failed"):
		c = Classification{Kind: KindUpstreamTimeout, Message: t.ErrTimeout}
	default:
		c = Classification{Kind: KindUpstreamUnknown, Message: t.ErrUnknown}
	}
	c.RequiresAuthorization = c.Kind.RequiresAuthorization()
	return c
}

// Error is a classified failure. Message is what the user sees; Cause keeps
// the raw upstream error for logs.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// FromCause classifies cause and wraps it.
func FromCause(cause error, lang models.Language) *Error {
	raw := ""
	if cause != nil {
		raw = cause.Error()
	}
	c := Classify(raw, lang)
	return &Error{Kind: c.Kind, Message: c.Message, Cause: cause}
}

// NoCredential is returned when no API key is available at all.
func NoCredential(lang models.Language) *Error {
	return &Error{Kind: KindNoCredential, Message: locale.For(lang).ErrNoKey}
}

// ExportFailed wraps a capture or assembly failure with the localized alert text.
func ExportFailed(cause error, lang models.Language) *Error {
	return &Error{Kind: KindExportFailure, Message: locale.For(lang).ErrPDF, Cause: cause}
}

// As extracts an *Error from err. Unclassified errors are classified on the fly
// so callers always get something displayable.
func As(err error, lang models.Language) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return FromCause(err, lang)
}
