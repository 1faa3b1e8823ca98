package resolver

import (
	"context"
	"net/netip"
	"sync"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/metrics"
	"github.com/captivegate/captivegate/src/internal/utils"
)

// Intent is the action a domain rule applies to every address it yields.
type Intent bool

const (
	IntentDeny  Intent = false
	IntentAllow Intent = true
)

func (i Intent) String() string {
	if i == IntentAllow {
		return "allow"
	}
	return "deny"
}

// DestinationWriter applies one destination command.
type DestinationWriter interface {
	SetDestination(ctx context.Context, ip netip.Addr, allow bool) error
}

// Pending tracks one domain rule.
type Pending struct {
	domain  string
	intent  Intent
	literal bool
	done    chan struct{}

	// Set before done is closed.
	addrs []netip.Addr
	err   error
}

func newPending(domain string, intent Intent) *Pending {
	return &Pending{domain: domain, intent: intent, done: make(chan struct{})}
}

// Done is closed once the rule has been fully applied or has failed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the rule is complete or ctx ends.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Domain returns the rule's domain as submitted.
func (p *Pending) Domain() string {
	return p.domain
}

// Intent returns the intent captured when the rule was submitted.
func (p *Pending) Intent() Intent {
	return p.intent
}

// Literal reports whether the domain was an IPv4 literal.
func (p *Pending) Literal() bool {
	return p.literal
}

// Addresses returns the addresses the rule was applied to. It is only
// meaningful after Done is closed.
func (p *Pending) Addresses() []netip.Addr {
	select {
	case <-p.done:
		return p.addrs
	default:
		return nil
	}
}

// Err returns the write error of a literal rule. Background lookups never
// report errors here.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Options configures an Adapter.
type Options struct {
	Metrics *metrics.Metrics
}

// Adapter resolves domain rules and applies them through a DestinationWriter.
type Adapter struct {
	lookuper Lookuper
	writer   DestinationWriter
	metrics  *metrics.Metrics

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewAdapter creates an adapter.
func NewAdapter(lookuper Lookuper, writer DestinationWriter, opts Options) *Adapter {
	return &Adapter{
		lookuper: lookuper,
		writer:   writer,
		metrics:  opts.Metrics,
	}
}

// Resolve applies intent to domain. A literal IPv4 is written before
// Resolve returns; anything else is looked up in the background and the
// returned Pending completes later. Cancelling ctx after Resolve returns
// does not cancel a background lookup.
func (a *Adapter) Resolve(ctx context.Context, domain string, intent Intent) *Pending {
	p := newPending(domain, intent)

	if ip, ok := utils.ParseIPv4Literal(domain); ok {
		p.literal = true
		p.err = a.writer.SetDestination(ctx, ip, bool(intent))
		if p.err == nil {
			p.addrs = []netip.Addr{ip}
		}
		a.metrics.ResolutionFinished(intent.String(), metrics.ResolutionLiteral, len(p.addrs))
		close(p.done)
		return p
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		p.err = errors.NewInternalError("resolver is shut down", nil)
		close(p.done)
		return p
	}
	a.inflight.Add(1)
	a.mu.Unlock()

	a.metrics.ResolutionStarted()
	go a.resolve(context.WithoutCancel(ctx), p)
	return p
}

func (a *Adapter) resolve(ctx context.Context, p *Pending) {
	defer a.inflight.Done()
	defer close(p.done)

	addrs, err := a.lookuper.LookupIPv4(ctx, p.domain)
	if err != nil {
		log.Warnf("Failed to resolve %s: %v", p.domain, err)
		a.metrics.ResolutionFinished(p.intent.String(), metrics.ResolutionFailed, 0)
		return
	}

	applied := make([]netip.Addr, 0, len(addrs))
	for _, ip := range addrs {
		if err := a.writer.SetDestination(ctx, ip, bool(p.intent)); err != nil {
			log.Errorf("Failed to %s %s (%s): %v", p.intent, ip, p.domain, err)
			continue
		}
		applied = append(applied, ip)
	}
	p.addrs = applied

	log.Debugf("Resolved %s to %d address(es)", p.domain, len(addrs))
	a.metrics.ResolutionFinished(p.intent.String(), metrics.ResolutionResolved, len(applied))
}

// Close stops accepting new lookups and waits for in-flight ones until ctx
// ends.
func (a *Adapter) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.NewTimeoutError("resolutions still in flight", ctx.Err())
	}
}
