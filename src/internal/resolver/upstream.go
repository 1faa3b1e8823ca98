package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/captivegate/captivegate/src/internal/log"
)

const defaultDNSPort = "53"

// UDPUpstream is a plain UDP DNS server.
type UDPUpstream struct {
	address string
	client  *dns.Client
}

// ParseUpstream accepts "udp://ip[:port]" or a bare "ip[:port]".
func ParseUpstream(upstream string, timeout time.Duration) (*UDPUpstream, error) {
	addr := upstream
	if strings.Contains(upstream, "://") {
		if !strings.HasPrefix(upstream, "udp://") {
			return nil, fmt.Errorf("unsupported upstream scheme: %s", upstream)
		}
		addr = strings.TrimPrefix(upstream, "udp://")
	}
	if addr == "" {
		return nil, fmt.Errorf("empty upstream address")
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	} else {
		addr = net.JoinHostPort(strings.Trim(addr, "[]"), defaultDNSPort)
		host = strings.Trim(host, "[]")
	}
	if net.ParseIP(host) == nil {
		return nil, fmt.Errorf("upstream host must be an IP address: %s", host)
	}

	return &UDPUpstream{
		address: addr,
		client: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
	}, nil
}

// Query sends req to the upstream.
func (u *UDPUpstream) Query(ctx context.Context, req *dns.Msg) (*dns.Msg, error) {
	queryInfo := "unknown"
	if len(req.Question) > 0 {
		q := req.Question[0]
		queryInfo = fmt.Sprintf("%s %s", q.Name, dns.TypeToString[q.Qtype])
	}
	log.Debugf("[%04x] Querying upstream %s for %s", req.Id, u, queryInfo)

	resp, _, err := u.client.ExchangeContext(ctx, req, u.address)
	if err != nil {
		var netErr net.Error
		if ctx.Err() == context.DeadlineExceeded || (errors.As(err, &netErr) && netErr.Timeout()) {
			log.Debugf("[%04x] Upstream %s timed out for %s", req.Id, u, queryInfo)
		} else {
			log.Debugf("[%04x] Upstream %s failed for %s: %v", req.Id, u, queryInfo, err)
		}
		return nil, err
	}
	return resp, nil
}

// Address returns host:port.
func (u *UDPUpstream) Address() string {
	return u.address
}

func (u *UDPUpstream) String() string {
	return "udp://" + u.address
}
