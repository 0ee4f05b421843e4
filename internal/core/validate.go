package core

import (
	"regexp"
)

var urlPattern = regexp.MustCompile(`^https?://.+`)

// ValidateURL checks a URL submission before any network call
func ValidateURL(req URLCheckRequest) error {
	if req.URL == "" {
		return &ValidationError{Reason: ReasonMissingURL, Message: "Please enter a URL"}
	}
	if !urlPattern.MatchString(req.URL) {
		return &ValidationError{
			Reason:  ReasonMalformedURL,
			Message: "Please enter a valid URL starting with http:// or https://",
		}
	}
	return nil
}

// ValidateEmail checks an email submission; subject and sender are optional
func ValidateEmail(req EmailCheckRequest) error {
	if req.Body == "" {
		return &ValidationError{Reason: ReasonMissingBody, Message: "Email body is required"}
	}
	return nil
}
