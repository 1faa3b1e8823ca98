package resolver

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/log"
)

// maxCNAMEHops bounds how far a CNAME chain inside one answer is followed.
const maxCNAMEHops = 8

// Lookuper resolves a host name to IPv4 addresses.
type Lookuper interface {
	LookupIPv4(ctx context.Context, name string) ([]netip.Addr, error)
}

// DNSLookuper sends A queries to a list of upstreams. The first upstream
// that answers decides the result; unreachable upstreams are skipped.
type DNSLookuper struct {
	upstreams []*UDPUpstream
	timeout   time.Duration
}

// NewDNSLookuper parses upstreams (see ParseUpstream). timeout bounds each
// query.
func NewDNSLookuper(upstreams []string, timeout time.Duration) (*DNSLookuper, error) {
	if len(upstreams) == 0 {
		return nil, errors.NewConfigError("no DNS upstreams configured", nil)
	}
	l := &DNSLookuper{timeout: timeout}
	for _, s := range upstreams {
		u, err := ParseUpstream(s, timeout)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid DNS upstream %q", s), err)
		}
		l.upstreams = append(l.upstreams, u)
	}
	return l, nil
}

// LookupIPv4 returns the A records of name in answer order.
func (l *DNSLookuper) LookupIPv4(ctx context.Context, name string) ([]netip.Addr, error) {
	fqdn := dns.Fqdn(name)
	req := new(dns.Msg)
	req.SetQuestion(fqdn, dns.TypeA)
	req.RecursionDesired = true

	var lastErr error
	for _, u := range l.upstreams {
		resp, err := l.query(ctx, u, req)
		if err != nil {
			lastErr = err
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			return nil, errors.NewResolutionError(fmt.Sprintf("%s: no such domain", name), nil)
		default:
			lastErr = fmt.Errorf("upstream %s answered %s", u, dns.RcodeToString[resp.Rcode])
			continue
		}

		addrs := extractIPv4(fqdn, resp.Answer)
		if len(addrs) == 0 {
			return nil, errors.NewResolutionError(fmt.Sprintf("%s: no A records", name), nil)
		}
		return addrs, nil
	}

	return nil, errors.NewResolutionError(fmt.Sprintf("%s: all upstreams failed", name), lastErr)
}

func (l *DNSLookuper) query(ctx context.Context, u *UDPUpstream, req *dns.Msg) (*dns.Msg, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	// Each attempt gets a fresh id.
	m := req.Copy()
	m.Id = dns.Id()
	return u.Query(ctx, m)
}

// Upstreams returns the configured upstream addresses.
func (l *DNSLookuper) Upstreams() []string {
	out := make([]string, 0, len(l.upstreams))
	for _, u := range l.upstreams {
		out = append(out, u.String())
	}
	return out
}

// extractIPv4 collects the A records reachable from fqdn through CNAMEs in
// the same answer section, keeping answer order.
func extractIPv4(fqdn string, answer []dns.RR) []netip.Addr {
	names := map[string]bool{strings.ToLower(fqdn): true}
	for hop := 0; hop < maxCNAMEHops; hop++ {
		grew := false
		for _, rr := range answer {
			cname, ok := rr.(*dns.CNAME)
			if !ok || !names[strings.ToLower(cname.Hdr.Name)] {
				continue
			}
			target := strings.ToLower(cname.Target)
			if !names[target] {
				names[target] = true
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	var addrs []netip.Addr
	for _, rr := range answer {
		a, ok := rr.(*dns.A)
		if !ok || !names[strings.ToLower(a.Hdr.Name)] {
			continue
		}
		addr, ok := netip.AddrFromSlice(a.A.To4())
		if !ok {
			log.Debugf("Skipping malformed A record %s", a)
			continue
		}
		addrs = append(addrs, addr)
	}
	return addrs
}
