package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilterCheck(t *testing.T) {
	filter := NewContentFilter()

	tests := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{"empty text passes", "", true, ""},
		{"clean text passes", "Great supplier, fast shipping and fair prices.", true, ""},
		{"banned word", "this is a scam", false, "inappropriate_language"},
		{"banned word case insensitive", "SCAM alert", false, "inappropriate_language"},
		{"banned word inside another word passes", "scampi was delicious", true, ""},
		{"http url", "visit http://spam.example for deals", false, "url_not_allowed"},
		{"www url", "check www.example.com now", false, "url_not_allowed"},
		{"email address", "contact me at buyer@example.com", false, "contact_info_not_allowed"},
		{"phone number", "call 050-123-4567 anytime", false, "contact_info_not_allowed"},
		{"repeated characters", "soooooo bad", false, "spam_detected"},
		{"repeated punctuation", "never again!!!!", false, "spam_detected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := filter.Check(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestContentFilterMessage(t *testing.T) {
	filter := NewContentFilter()
	assert.Equal(t, "URLs and web links are not allowed.", filter.Message("url_not_allowed"))
	assert.Equal(t, "Text does not meet our content guidelines.", filter.Message("unknown_reason"))
}
