// Package validation checks URLs that end up in generated pages or are
// handed to the operating system.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateLink checks an absolute http(s) URL from the configuration.
func ValidateLink(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (only http/https allowed)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// ValidateURL validates a URL before it is passed to the browser opener.
// Shell metacharacters and whitespace are rejected.
func ValidateURL(rawURL string) error {
	if err := ValidateLink(rawURL); err != nil {
		return err
	}

	dangerous := []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r", "\t", " "}
	for _, char := range dangerous {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	return nil
}
