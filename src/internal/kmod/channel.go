package kmod

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sys/unix"

	"github.com/captivegate/captivegate/src/internal/errors"
	"github.com/captivegate/captivegate/src/internal/log"
	"github.com/captivegate/captivegate/src/internal/metrics"
)

const openFlags = unix.O_WRONLY | unix.O_APPEND | unix.O_CLOEXEC | unix.O_NOCTTY

// Channel is one kernel control file.
type Channel struct {
	name    string
	path    string
	timeout time.Duration
	lock    *semaphore.Weighted
	metrics *metrics.Metrics
}

func newChannel(name, path string, timeout time.Duration, m *metrics.Metrics) *Channel {
	return &Channel{
		name:    name,
		path:    path,
		timeout: timeout,
		lock:    semaphore.NewWeighted(1),
		metrics: m,
	}
}

// Name returns the channel name ("config", "ip" or "term").
func (c *Channel) Name() string {
	return c.name
}

// Path returns the control file path.
func (c *Channel) Path() string {
	return c.path
}

// Write delivers payload with a single open/write/close cycle.
func (c *Channel) Write(ctx context.Context, payload []byte) (err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = string(errors.CodeOf(err))
		}
		c.metrics.ObserveKmodWrite(c.name, result, time.Since(start))
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.lock.Acquire(ctx, 1); err != nil {
		return errors.NewTimeoutError(fmt.Sprintf("gave up waiting for %s", c.path), err)
	}

	done := make(chan error, 1)
	go func() {
		defer c.lock.Release(1)
		done <- c.writeOnce(payload)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		log.Warnf("Write to %s did not finish in time: %v", c.path, ctx.Err())
		return errors.NewTimeoutError(fmt.Sprintf("write to %s did not finish", c.path), ctx.Err())
	}
}

func (c *Channel) writeOnce(payload []byte) error {
	f, err := os.OpenFile(c.path, openFlags, 0)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			log.Errorf("Kernel module is not loaded (%s is missing)", c.path)
		}
		return errors.NewChannelUnavailableError(fmt.Sprintf("failed to open %s", c.path), err)
	}

	n, werr := f.Write(payload)
	if werr == nil && n != len(payload) {
		werr = io.ErrShortWrite
	}
	cerr := f.Close()

	if werr != nil {
		return errors.NewTransportError(fmt.Sprintf("failed to write %s (%d of %d bytes)", c.path, n, len(payload)), werr)
	}
	if cerr != nil {
		return errors.NewTransportError(fmt.Sprintf("failed to close %s", c.path), cerr)
	}

	log.Debugf("Wrote %q to %s", payload, c.path)
	return nil
}
