package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MAC is a 6-byte hardware address. It is the single in-process
// representation; conversion to text happens only at the boundaries.
type MAC [6]byte

// ParseMAC accepts "aa:bb:cc:dd:ee:ff", "aa-bb-cc-dd-ee-ff" and bare
// "aabbccddeeff" in any letter case.
func ParseMAC(s string) (MAC, error) {
	var m MAC

	raw := s
	if len(s) == 17 {
		sep := s[2]
		if sep != ':' && sep != '-' {
			return m, fmt.Errorf("invalid MAC address: %q", s)
		}
		for i := 2; i < 17; i += 3 {
			if s[i] != sep {
				return m, fmt.Errorf("invalid MAC address: %q", s)
			}
		}
		raw = strings.ReplaceAll(s, string(sep), "")
	}

	if len(raw) != 12 {
		return m, fmt.Errorf("invalid MAC address: %q", s)
	}
	if _, err := hex.Decode(m[:], []byte(raw)); err != nil {
		return m, fmt.Errorf("invalid MAC address: %q", s)
	}
	return m, nil
}

// MACFromBytes converts a net.HardwareAddr-like slice. Only 6-byte
// addresses are accepted.
func MACFromBytes(b []byte) (MAC, error) {
	var m MAC
	if len(b) != len(m) {
		return m, fmt.Errorf("invalid hardware address length %d", len(b))
	}
	copy(m[:], b)
	return m, nil
}

// String returns 12 uppercase hex digits, the terminal channel encoding.
func (m MAC) String() string {
	return strings.ToUpper(hex.EncodeToString(m[:]))
}

// Colon returns the colon-separated uppercase form used on read paths.
func (m MAC) Colon() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", m[0], m[1], m[2], m[3], m[4], m[5])
}

// IsZero reports whether all bytes are zero (incomplete ARP entries).
func (m MAC) IsZero() bool {
	return m == MAC{}
}
