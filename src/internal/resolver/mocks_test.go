package resolver

import (
	"context"
	"net/netip"
	"sync"
)

type destinationCall struct {
	IP    netip.Addr
	Allow bool
}

// recordingWriter records destination commands in order.
type recordingWriter struct {
	mu    sync.Mutex
	calls []destinationCall
	err   error
}

func (w *recordingWriter) SetDestination(_ context.Context, ip netip.Addr, allow bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.calls = append(w.calls, destinationCall{IP: ip, Allow: allow})
	return nil
}

func (w *recordingWriter) Calls() []destinationCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]destinationCall(nil), w.calls...)
}

type lookupResult struct {
	addrs []netip.Addr
	err   error
}

// fakeLookuper answers from a table. Names listed in gates block until
// their channel is closed.
type fakeLookuper struct {
	mu      sync.Mutex
	results map[string]lookupResult
	gates   map[string]chan struct{}
	queries []string
}

func newFakeLookuper() *fakeLookuper {
	return &fakeLookuper{
		results: make(map[string]lookupResult),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeLookuper) set(name string, err error, addrs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := lookupResult{err: err}
	for _, a := range addrs {
		res.addrs = append(res.addrs, netip.MustParseAddr(a))
	}
	f.results[name] = res
}

func (f *fakeLookuper) hold(name string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[name] = ch
	return ch
}

func (f *fakeLookuper) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeLookuper) LookupIPv4(ctx context.Context, name string) ([]netip.Addr, error) {
	f.mu.Lock()
	f.queries = append(f.queries, name)
	gate := f.gates[name]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.results[name]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return res.addrs, res.err
}
