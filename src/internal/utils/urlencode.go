package utils

import "strings"

const lowerHex = "0123456789abcdef"

// URLEncode percent-encodes every byte except A-Z a-z 0-9 and "-_.~".
// Unlike url.QueryEscape, spaces become %20 and hex digits are lowercase,
// matching what the auth server expects in redirect parameters.
func URLEncode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(lowerHex[c>>4])
		sb.WriteByte(lowerHex[c&15])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
