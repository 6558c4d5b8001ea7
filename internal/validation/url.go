// Package validation checks operator-supplied settings that the config
// loader cannot express as simple ranges.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// URLError describes why a configured URL was rejected.
type URLError struct {
	Field   string
	Message string
	URL     string
}

func (e URLError) Error() string {
	return fmt.Sprintf("%s: %s (url: %s)", e.Field, e.Message, e.URL)
}

// ValidateBaseURL checks the origin used to build Location headers. It must be
// an absolute http(s) URL with no query or fragment; a path prefix is allowed
// for deployments behind a proxy. Empty is accepted.
func ValidateBaseURL(raw, field string, requireHTTPS bool) error {
	if raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return URLError{Field: field, Message: "invalid URL format", URL: raw}
	}
	if parsed.Scheme == "" {
		return URLError{Field: field, Message: "URL must include a scheme (http:// or https://)", URL: raw}
	}
	if parsed.Host == "" {
		return URLError{Field: field, Message: "URL must include a host", URL: raw}
	}

	switch scheme := strings.ToLower(parsed.Scheme); {
	case scheme != "http" && scheme != "https":
		return URLError{Field: field, Message: "URL scheme must be http or https", URL: raw}
	case requireHTTPS && scheme != "https":
		return URLError{Field: field, Message: "URL must use HTTPS in production", URL: raw}
	}

	if parsed.RawQuery != "" {
		return URLError{Field: field, Message: "base URL must not contain query parameters", URL: raw}
	}
	if parsed.Fragment != "" {
		return URLError{Field: field, Message: "base URL must not contain a fragment", URL: raw}
	}
	return nil
}
