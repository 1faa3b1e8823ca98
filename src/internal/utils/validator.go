package utils

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var rxDNSName = regexp.MustCompile(`^([a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62}){1}(\.[a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62})*[\._]?$`)

// IsDNSName will validate the given string as a DNS name.
// Credits: https://github.com/asaskevich/govalidator
func IsDNSName(str string) bool {
	if str == "" || len(str) > 253 {
		return false
	}
	return !IsIPv4Literal(str) && rxDNSName.MatchString(str)
}

// ParseIPv4Literal parses four dot-separated decimal octets (0-255 each).
// Leading zeros are tolerated ("010.0.0.1" is 10.0.0.1), anything else
// (hex, fewer parts, signs, IPv6) is rejected.
func ParseIPv4Literal(str string) (netip.Addr, bool) {
	parts := strings.Split(str, ".")
	if len(parts) != 4 {
		return netip.Addr{}, false
	}

	var octets [4]byte
	for i, part := range parts {
		if part == "" || len(part) > 3 {
			return netip.Addr{}, false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return netip.Addr{}, false
			}
		}
		v, err := strconv.Atoi(part)
		if err != nil || v > 255 {
			return netip.Addr{}, false
		}
		octets[i] = byte(v)
	}
	return netip.AddrFrom4(octets), true
}

// IsIPv4Literal reports whether str is a dotted-quad IPv4 address.
func IsIPv4Literal(str string) bool {
	_, ok := ParseIPv4Literal(str)
	return ok
}

// IsValidPort checks if the given string is a valid port number (1-65535)
func IsValidPort(str string) bool {
	port, err := strconv.Atoi(str)
	return err == nil && port >= 1 && port <= 65535
}

// IsLineSafe reports whether s can be embedded in a single control line:
// no whitespace and no control characters.
func IsLineSafe(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
