package resolver

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/metrics"
)

func init() {
	log.DisableLogs()
}

func waitPending(t *testing.T, p *Pending) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("Resolution of %s did not complete: %v", p.Domain(), err)
	}
}

func TestResolveLiteralIsSynchronous(t *testing.T) {
	lookuper := newFakeLookuper()
	writer := &recordingWriter{}
	a := NewAdapter(lookuper, writer, Options{})

	p := a.Resolve(context.Background(), "203.0.113.7", IntentAllow)

	select {
	case <-p.Done():
	default:
		t.Fatal("Literal rule should be complete when Resolve returns")
	}
	if !p.Literal() {
		t.Error("Expected Literal() to be true")
	}
	if p.Err() != nil {
		t.Errorf("Unexpected error: %v", p.Err())
	}

	calls := writer.Calls()
	if len(calls) != 1 || calls[0].IP != netip.MustParseAddr("203.0.113.7") || !calls[0].Allow {
		t.Errorf("Expected one +203.0.113.7 command, got %+v", calls)
	}
	if q := lookuper.Queries(); len(q) != 0 {
		t.Errorf("Literal must not hit DNS, got queries %v", q)
	}
}

func TestResolveLiteralWriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.NewChannelUnavailableError("no module", nil)}
	a := NewAdapter(newFakeLookuper(), writer, Options{})

	p := a.Resolve(context.Background(), "10.1.2.3", IntentDeny)
	if !stderrors.Is(p.Err(), errors.ErrChannelUnavailable) {
		t.Errorf("Expected CHANNEL_UNAVAILABLE, got %v", p.Err())
	}
	if len(p.Addresses()) != 0 {
		t.Errorf("Expected no applied addresses, got %v", p.Addresses())
	}
}

func TestResolveNonLiteralIsAsynchronous(t *testing.T) {
	lookuper := newFakeLookuper()
	lookuper.set("example.com", nil, "93.184.216.34")
	gate := lookuper.hold("example.com")
	writer := &recordingWriter{}
	a := NewAdapter(lookuper, writer, Options{})

	p := a.Resolve(context.Background(), "example.com", IntentAllow)

	select {
	case <-p.Done():
		t.Fatal("Resolve must return before the lookup completes")
	default:
	}
	if len(writer.Calls()) != 0 {
		t.Fatal("No command may be written before the lookup completes")
	}

	close(gate)
	waitPending(t, p)

	if p.Literal() {
		t.Error("Expected Literal() to be false")
	}
	if calls := writer.Calls(); len(calls) != 1 || calls[0].IP.String() != "93.184.216.34" {
		t.Errorf("Unexpected commands %+v", calls)
	}
}

func TestResolveFanOutKeepsOrder(t *testing.T) {
	lookuper := newFakeLookuper()
	lookuper.set("cdn.example", nil, "192.0.2.3", "192.0.2.1", "192.0.2.2")
	writer := &recordingWriter{}
	a := NewAdapter(lookuper, writer, Options{})

	p := a.Resolve(context.Background(), "cdn.example", IntentDeny)
	waitPending(t, p)

	want := []string{"192.0.2.3", "192.0.2.1", "192.0.2.2"}
	calls := writer.Calls()
	if len(calls) != len(want) {
		t.Fatalf("Expected %d commands, got %+v", len(want), calls)
	}
	for i, c := range calls {
		if c.IP.String() != want[i] || c.Allow {
			t.Errorf("command %d = %+v, want -%s", i, c, want[i])
		}
	}
	if got := p.Addresses(); len(got) != 3 {
		t.Errorf("Expected 3 applied addresses, got %v", got)
	}
}

func TestResolveFailureWritesNothing(t *testing.T) {
	lookuper := newFakeLookuper()
	lookuper.set("nx.example", errors.NewResolutionError("nx.example: no such domain", nil))
	writer := &recordingWriter{}
	m := metrics.New()
	a := NewAdapter(lookuper, writer, Options{Metrics: m})

	p := a.Resolve(context.Background(), "nx.example", IntentAllow)
	waitPending(t, p)

	if calls := writer.Calls(); len(calls) != 0 {
		t.Errorf("Expected no commands, got %+v", calls)
	}
	if p.Err() != nil {
		t.Errorf("Lookup failures are not reported to the caller, got %v", p.Err())
	}

	expected := fmt.Sprintf(`
# HELP captivegate_resolver_resolutions_total Domain rule resolutions by intent and outcome.
# TYPE captivegate_resolver_resolutions_total counter
captivegate_resolver_resolutions_total{intent="allow",outcome="%s"} 1
`, metrics.ResolutionFailed)
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "captivegate_resolver_resolutions_total"); err != nil {
		t.Error(err)
	}
}

func TestResolveIntentCapturedAtSubmission(t *testing.T) {
	lookuper := newFakeLookuper()
	lookuper.set("a.example", nil, "198.51.100.1")
	lookuper.set("b.example", nil, "198.51.100.2")
	gateA := lookuper.hold("a.example")
	writer := &recordingWriter{}
	a := NewAdapter(lookuper, writer, Options{})

	pa := a.Resolve(context.Background(), "a.example", IntentAllow)
	pb := a.Resolve(context.Background(), "b.example", IntentDeny)

	// b completes first; a keeps its own intent.
	waitPending(t, pb)
	close(gateA)
	waitPending(t, pa)

	calls := writer.Calls()
	if len(calls) != 2 {
		t.Fatalf("Expected 2 commands, got %+v", calls)
	}
	if calls[0].IP.String() != "198.51.100.2" || calls[0].Allow {
		t.Errorf("first command = %+v, want -198.51.100.2", calls[0])
	}
	if calls[1].IP.String() != "198.51.100.1" || !calls[1].Allow {
		t.Errorf("second command = %+v, want +198.51.100.1", calls[1])
	}
}

func TestResolveIgnoresCallerCancellation(t *testing.T) {
	lookuper := newFakeLookuper()
	lookuper.set("late.example", nil, "192.0.2.10")
	gate := lookuper.hold("late.example")
	writer := &recordingWriter{}
	a := NewAdapter(lookuper, writer, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	p := a.Resolve(ctx, "late.example", IntentAllow)
	cancel()
	close(gate)
	waitPending(t, p)

	if len(writer.Calls()) != 1 {
		t.Errorf("Expected the lookup to complete after caller cancellation, got %+v", writer.Calls())
	}
}

func TestCloseWaitsForInflight(t *testing.T) {
	lookuper := newFakeLookuper()
	lookuper.set("slow.example", nil, "192.0.2.20")
	gate := lookuper.hold("slow.example")
	writer := &recordingWriter{}
	a := NewAdapter(lookuper, writer, Options{})

	p := a.Resolve(context.Background(), "slow.example", IntentAllow)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	err := a.Close(ctx)
	cancel()
	if !stderrors.Is(err, errors.ErrTimeout) {
		t.Fatalf("Expected TIMEOUT while a lookup is in flight, got %v", err)
	}

	close(gate)
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	waitPending(t, p)

	late := a.Resolve(context.Background(), "other.example", IntentAllow)
	if !stderrors.Is(late.Err(), errors.ErrInternal) {
		t.Errorf("Expected INTERNAL_ERROR after Close, got %v", late.Err())
	}
}

func TestIntentString(t *testing.T) {
	if IntentAllow.String() != "allow" || IntentDeny.String() != "deny" {
		t.Errorf("unexpected intent names %s/%s", IntentAllow, IntentDeny)
	}
}
