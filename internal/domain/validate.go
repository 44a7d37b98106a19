package domain

import (
	"net/url"
	"strings"
)

// ValidateNewBookmark checks user input for a create operation.
//
// The title must be non-empty after trimming. The URL must parse as an
// absolute http or https URL; the canonicalized form (as re-serialized by
// net/url) is returned and is the value that gets stored, not the raw text.
// Both checks happen before any network call.
func ValidateNewBookmark(title, rawURL string) (cleanTitle, canonicalURL string, err error) {
	cleanTitle = strings.TrimSpace(title)
	if cleanTitle == "" {
		return "", "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	canonicalURL, err = CanonicalizeURL(rawURL)
	if err != nil {
		return "", "", err
	}

	return cleanTitle, canonicalURL, nil
}

// CanonicalizeURL parses raw as an absolute http/https URL and returns its
// normalized string form. Returns a ValidationError otherwise.
func CanonicalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &ValidationError{Field: "url", Reason: "must not be empty"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &ValidationError{Field: "url", Reason: "not a parsable URL"}
	}
	if !u.IsAbs() {
		return "", &ValidationError{Field: "url", Reason: "must be absolute (missing scheme)"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &ValidationError{Field: "url", Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return "", &ValidationError{Field: "url", Reason: "missing host"}
	}

	return u.String(), nil
}
