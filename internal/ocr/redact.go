package ocr

import (
	"fmt"
	"regexp"
	"strings"
)

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bearer\s+)([a-zA-Z0-9_\-\.]{8,})`),
	regexp.MustCompile(`(?i)([?&]key=)([a-zA-Z0-9_\-\.]{8,})`),
	regexp.MustCompile(`(?i)(api[_\-]?key[^a-zA-Z0-9]*)([a-zA-Z0-9_\-\.]{8,})`),
	regexp.MustCompile(`(?i)(access[_\-]?token[^a-zA-Z0-9]*)([a-zA-Z0-9_\-\.]{8,})`),
}

// RedactSecrets masks API keys and bearer tokens in s for safe logging
func RedactSecrets(s string) string {
	for _, pattern := range secretPatterns {
		s = pattern.ReplaceAllStringFunc(s, func(match string) string {
			sub := pattern.FindStringSubmatch(match)
			return sub[1] + MaskKey(sub[2])
		})
	}
	return s
}

// MaskKey hides all but the edges of a secret
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}

	visible := 4
	if len(key) < 12 {
		visible = 2
	}
	return key[:visible] + strings.Repeat("*", len(key)-2*visible) + key[len(key)-visible:]
}

// SafeError prefixes err with operation after stripping secrets from it
func SafeError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %s", operation, RedactSecrets(err.Error()))
}
