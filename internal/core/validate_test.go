package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		reason  string
		message string
	}{
		{"empty", "", ReasonMissingURL, "Please enter a URL"},
		{"no scheme", "example.com", ReasonMalformedURL, "Please enter a valid URL starting with http:// or https://"},
		{"ftp", "ftp://example.com", ReasonMalformedURL, "Please enter a valid URL starting with http:// or https://"},
		{"scheme only", "https://", ReasonMalformedURL, "Please enter a valid URL starting with http:// or https://"},
		{"uppercase scheme", "HTTP://example.com", ReasonMalformedURL, "Please enter a valid URL starting with http:// or https://"},
		{"http", "http://example.com", "", ""},
		{"https with path", "https://example.com/login?next=/", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(URLCheckRequest{URL: tt.url})
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.reason, verr.Reason)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, tt.message, UserMessage(err, "fallback"))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	err := ValidateEmail(EmailCheckRequest{Subject: "Hello", Sender: "a@b.c"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ReasonMissingBody, verr.Reason)
	assert.Equal(t, "Email body is required", verr.Message)

	assert.NoError(t, ValidateEmail(EmailCheckRequest{Body: "Click here"}))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "rate limited", UserMessage(&TransportError{Op: "check-url", Status: 429, ServiceMessage: "rate limited"}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(&TransportError{Op: "check-url", Err: errors.New("refused")}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("boom"), "fallback"))
}

func TestTransportError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TransportError{Op: "stats", Err: inner}
	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, "stats: connection refused", err.Error())

	err = &TransportError{Op: "stats", Status: 502}
	assert.Equal(t, "stats: status 502", err.Error())
}
