// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siemens/hostsweep/resolver"
	"github.com/siemens/hostsweep/types"

	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrUnreachable signals that an address didn't reply in time.
var ErrUnreachable = errors.New("no reply in time")

// ProbeFunc checks the reachability of a single address within the specified
// timeout. It returns nil when the address is reachable, an error wrapping
// [ErrUnreachable] when the address didn't reply in time, and any other error
// when the address couldn't be probed at all.
type ProbeFunc func(ctx context.Context, addr string, timeout time.Duration) error

// Pinger probes the addresses of hosts file entries by pinging them. Pingers
// use a goroutine-limited worker pool when probing many entries.
type Pinger struct {
	size         int                 // maximum number of concurrent probes.
	timeout      time.Duration       // maximum time to wait for a reply.
	unprivileged bool                // if true, uses UDP-based pings instead of privileged ICMPs.
	netns        relations.Relation  // network namespace to ping from, or nil.
	resolver     *resolver.Pool      // optional resolver for non-literal addresses.
	probe        ProbeFunc           // how to probe an address.
	notify       func(types.Verdict) // optional verdict notification.
}

// PingerOption can be passed to New when creating new Pinger objects.
type PingerOption func(*Pinger)

// New returns a new [Pinger] with a maximum worker pool of the specified size,
// waiting at most the specified timeout for each probe's reply.
//
// The pinger can be configured during creation using several options:
//   - [AsUnprivileged]
//   - [InNetworkNamespace]
//   - [WithResolver]
//   - [WithProbe]
//   - [WithVerdicts]
func New(size int, timeout time.Duration, options ...PingerOption) *Pinger {
	if size < 1 {
		size = 1
	}
	p := &Pinger{
		size:    size,
		timeout: timeout,
	}
	p.probe = p.icmp
	for _, opt := range options {
		opt(p)
	}
	return p
}

// AsUnprivileged tells the Pinger to carry out unprivileged pings using UDP
// instead of ICMP packets.
func AsUnprivileged() PingerOption {
	return func(p *Pinger) {
		p.unprivileged = true
	}
}

// InNetworkNamespace optionally runs the probes of a [Pinger] inside the
// network namespace referenced by the specified filesystem path, such as
// "/proc/666/ns/net". An empty path keeps the current network namespace.
func InNetworkNamespace(netnsref string) PingerOption {
	return func(p *Pinger) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithResolver looks up addresses using the specified resolver pool before
// probing them, instead of leaving this to the system's resolver.
func WithResolver(pool *resolver.Pool) PingerOption {
	return func(p *Pinger) {
		p.resolver = pool
	}
}

// WithProbe replaces pinging with the specified probe function.
func WithProbe(probe ProbeFunc) PingerOption {
	return func(p *Pinger) {
		p.probe = probe
	}
}

// WithVerdicts passes each entry to the specified function when it gets
// submitted for probing (with quality Verifying), as well as its final
// verdict. The function gets called from multiple goroutines concurrently.
func WithVerdicts(fn func(types.Verdict)) PingerOption {
	return func(p *Pinger) {
		p.notify = fn
	}
}

// Check probes the specified address once, returning the elapsed time until
// the address was found to be reachable. Otherwise, it returns an error that
// wraps [ErrUnreachable] if the address didn't reply in time, or any other
// error if the address couldn't be probed, such as when it doesn't resolve.
func (p *Pinger) Check(ctx context.Context, addr string) (time.Duration, error) {
	if p.resolver != nil {
		addrs, err := p.resolver.Lookup(ctx, addr)
		if err != nil {
			return 0, err
		}
		addr = addrs[0]
	}
	start := time.Now()
	probe := func() interface{} {
		return p.probe(ctx, addr, p.timeout)
	}
	// Run the probe in the requested network namespace, if necessary.
	var err error
	if p.netns != nil {
		// lxkns' ops.Execute differentiates between a namespace switching
		// error and the function result, which here is the probe error.
		var probeerr interface{}
		probeerr, err = ops.Execute(probe, p.netns)
		if err == nil && probeerr != nil {
			err = probeerr.(error)
		}
	} else if res := probe(); res != nil {
		err = res.(error)
	}
	if err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// icmp sends a single ping to the specified address and waits for its reply
// until the timeout or until the context is done.
func (p *Pinger) icmp(ctx context.Context, addr string, timeout time.Duration) error {
	// A quick and non-blocking check to see if the context has been
	// cancelled before we start our work...
	if err := ctx.Err(); err != nil {
		return err
	}
	pinger, err := ping.NewPinger(addr)
	if err != nil {
		return fmt.Errorf("cannot ping %s: %w", addr, err)
	}
	pinger.SetPrivileged(!p.unprivileged)
	pinger.Count = 1
	pinger.Timeout = timeout
	// While the ping will be running, we need to monitor the context in case
	// it becomes "done". The done channel here terminates the concurrent
	// context monitoring.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()
	if err := pinger.Run(); err != nil {
		return fmt.Errorf("cannot ping %s: %w", addr, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("%s: %w", addr, ErrUnreachable)
	}
	return nil
}
