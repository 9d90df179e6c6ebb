package merge

import (
	"fmt"
	"regexp"
	"strings"
)

// reToken matches KEY or KEY:TEXT. Everything after the first colon is the
// translation text, newlines included.
var reToken = regexp.MustCompile(`(?s)^([A-Za-z0-9._-]+)(?::(.*))?$`)

// DefaultPrefix marks placeholder targets that still need a translation.
const DefaultPrefix = "__"

// Token is one parsed KEY[:TEXT] argument.
type Token struct {
	Key  string
	Text string
	// Translated is true when the token carried its own non-placeholder
	// text. Tokens without text get prefix+key and are untranslated.
	Translated bool
}

// TokenFormatError is returned for an argument that is not KEY[:TEXT].
type TokenFormatError struct {
	Token string
}

func (e *TokenFormatError) Error() string {
	return fmt.Sprintf("invalid translation %q: expected KEY or KEY:TEXT with KEY made of letters, digits, '.', '_' or '-'", e.Token)
}

// ParseToken parses a KEY[:TEXT] argument. Without text (or with an empty
// text) the target becomes prefix+key.
func ParseToken(token, prefix string) (Token, error) {
	m := reToken.FindStringSubmatch(token)
	if m == nil {
		return Token{}, &TokenFormatError{Token: token}
	}
	key, text := m[1], m[2]
	if text == "" {
		return Token{Key: key, Text: prefix + key}, nil
	}
	return Token{Key: key, Text: text, Translated: !IsPlaceholder(text, prefix)}, nil
}

// IsPlaceholder reports whether a target still needs a translation: it is
// empty, or it starts with a non-empty prefix.
func IsPlaceholder(text, prefix string) bool {
	if text == "" {
		return true
	}
	return prefix != "" && strings.HasPrefix(text, prefix)
}

// StripPrefix removes the placeholder prefix from a target.
func StripPrefix(text, prefix string) string {
	if prefix == "" {
		return text
	}
	return strings.TrimPrefix(text, prefix)
}
