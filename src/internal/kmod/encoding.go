package kmod

import (
	"net/netip"
	"strings"

	"github.com/captivegate/captivegate/src/internal/utils"
)

// Action is the first byte of a terminal command.
type Action byte

const (
	ActionAdmit     Action = '+'
	ActionTempAdmit Action = '?'
	ActionDeny      Action = '-'
	ActionWhitelist Action = '!'
)

func (a Action) String() string {
	switch a {
	case ActionAdmit:
		return "admit"
	case ActionTempAdmit:
		return "temporary admit"
	case ActionDeny:
		return "deny"
	case ActionWhitelist:
		return "whitelist"
	default:
		return "unknown(" + string(a) + ")"
	}
}

// EncodeModule returns the module control payload. The interface line is
// emitted only when enabling.
func EncodeModule(iface string, enable bool) []byte {
	var sb strings.Builder
	if enable {
		sb.WriteString("interface=")
		sb.WriteString(iface)
		sb.WriteByte('\n')
	}
	if enable {
		sb.WriteString("enabled=1\n")
	} else {
		sb.WriteString("enabled=0\n")
	}
	return []byte(sb.String())
}

// EncodeDestination returns "+<ip>\n" or "-<ip>\n".
func EncodeDestination(ip netip.Addr, allow bool) []byte {
	sign := byte('-')
	if allow {
		sign = '+'
	}
	s := ip.String()
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, sign)
	buf = append(buf, s...)
	return append(buf, '\n')
}

// EncodeTerminal returns "<action><MAC> <token>\n". The space is always
// present, also for an empty token.
func EncodeTerminal(action Action, mac utils.MAC, token string) []byte {
	m := mac.String()
	buf := make([]byte, 0, len(m)+len(token)+3)
	buf = append(buf, byte(action))
	buf = append(buf, m...)
	buf = append(buf, ' ')
	buf = append(buf, token...)
	return append(buf, '\n')
}
