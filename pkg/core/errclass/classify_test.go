package errclass

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grant_finder/pkg/core/locale"
	"grant_finder/pkg/models"
)

func TestClassify(t *testing.T) {
	en := locale.For(models.LangEnglish)

	tests := []struct {
		name     string
		raw      string
		kind     Kind
		auth     bool
		expected string
	}{
		{"entity not found", "rpc error: Requested entity was not found.", KindNoCredential, true, en.ErrEntityNotFound},
		{"status 403", "googleapi: Error 403: forbidden", KindAuthorizationDenied, true, en.ErrPermission},
		{"permission lower", "caller does not have permission", KindAuthorizationDenied, true, en.ErrPermission},
		{"permission mixed case", "PERMISSION_DENIED", KindAuthorizationDenied, true, en.ErrPermission},
		{"status 500", "Error 500: internal", KindUpstreamTimeout, false, en.ErrTimeout},
		{"rpc failed", "Rpc failed due to xhr error", KindUpstreamTimeout, false, en.ErrTimeout},
		{"fallback", "connection reset by peer", KindUpstreamUnknown, false, en.ErrUnknown},
		{"empty", "", KindUpstreamUnknown, false, en.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.raw, models.LangEnglish)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.auth, c.RequiresAuthorization)
			assert.Equal(t, tt.expected, c.Message)
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// Entity-not-found outranks a 500 in the same message.
	c := Classify("500 Requested entity was not found", models.LangEnglish)
	assert.Equal(t, KindNoCredential, c.Kind)

	// 403 outranks 500.
	c = Classify("upstream 500 after 403", models.LangEnglish)
	assert.Equal(t, KindAuthorizationDenied, c.Kind)

	// "Permission Denied 403" is an authorization problem, not a generic error.
	c = Classify("Permission Denied 403", models.LangEnglish)
	assert.True(t, c.RequiresAuthorization)
}

func TestClassify_Localized(t *testing.T) {
	ar := locale.For(models.LangArabic)
	assert.Equal(t, ar.ErrTimeout, Classify("Rpc failed", models.LangArabic).Message)
	assert.Equal(t, ar.ErrUnknown, Classify("boom", models.LangArabic).Message)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("Error 403: denied")
	wrapped := fmt.Errorf("search: %w", FromCause(cause, models.LangEnglish))

	ce := As(wrapped, models.LangEnglish)
	require.NotNil(t, ce)
	assert.Equal(t, KindAuthorizationDenied, ce.Kind)
	assert.ErrorIs(t, wrapped, cause)
}

func TestAs_ClassifiesPlainErrors(t *testing.T) {
	ce := As(errors.New("Rpc failed"), models.LangEnglish)
	assert.Equal(t, KindUpstreamTimeout, ce.Kind)
	assert.False(t, ce.Kind.RequiresAuthorization())
}

func TestNoCredential(t *testing.T) {
	ce := NoCredential(models.LangArabic)
	assert.True(t, ce.Kind.RequiresAuthorization())
	assert.Equal(t, locale.For(models.LangArabic).ErrNoKey, ce.Message)
}
