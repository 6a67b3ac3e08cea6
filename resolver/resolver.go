// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// Pool is a (size-limited) pool of DNS client connections talking with the
// same DNS server.
type Pool struct {
	netns   relations.Relation // network namespace to dial from, or nil.
	client  *dns.Client
	workers *workerpool.WorkerPool
	mu      sync.Mutex // protects the pool of DNS connections
	free    []*dns.Conn
}

// Option can be passed to New when creating new [Pool] objects.
type Option func(*Pool)

// lookup is the outcome of a single name lookup task.
type lookup struct {
	addrs []string
	err   error
}

// New returns a pool of the specified size of DNS client connections, with
// each connection talking to the same DNS server address.
//
// The passed context is used for creating (dialing) the DNS client
// connections only.
//
// To dial the connections in a network namespace different to that of the
// OS-level thread of the caller specify the [InNetworkNamespace] option and
// pass it a filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net").
func New(ctx context.Context, size int, dnsclnt *dns.Client, server string, options ...Option) (*Pool, error) {
	pool := &Pool{
		client: dnsclnt,
	}
	for _, opt := range options {
		opt(pool)
	}
	free := make([]*dns.Conn, 0, size)
	dial := func() interface{} {
		for i := 0; i < size; i++ {
			conn, err := dnsclnt.DialContext(ctx, server)
			if err != nil {
				// Immediately release all connections created so far.
				for _, conn := range free {
					conn.Close()
				}
				free = nil
				return err
			}
			free = append(free, conn)
		}
		return nil
	}
	var err error
	var dialerr interface{}
	if pool.netns != nil {
		dialerr, err = ops.Execute(dial, pool.netns)
	} else {
		dialerr = dial()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot switch into network namespace: %w", err)
	}
	if dialerr != nil {
		return nil, fmt.Errorf("cannot dial DNS server %s: %w", server, dialerr.(error))
	}
	pool.free = free
	pool.workers = workerpool.New(size)
	return pool, nil
}

// InNetworkNamespace optionally dials the connections of a Pool inside the
// network namespace referenced by the specified filesystem path.
func InNetworkNamespace(netnsref string) Option {
	return func(p *Pool) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// Lookup returns the IPv4 and IPv6 addresses of the specified name, in this
// order. IP address literals are returned as is, without consulting the DNS
// server. Lookup blocks until the lookup has finished or the context is done.
//
// If the name resolves neither into IPv4 nor IPv6 addresses, Lookup returns
// an error.
func (p *Pool) Lookup(ctx context.Context, name string) ([]string, error) {
	if ip := net.ParseIP(name); ip != nil {
		return []string{name}, nil
	}
	result := make(chan lookup, 1) // never block the worker.
	p.workers.Submit(func() {
		p.withConn(func(conn *dns.Conn) {
			addrs, err := p.query(ctx, conn, name)
			result <- lookup{addrs: addrs, err: err}
		})
	})
	select {
	case res := <-result:
		return res.addrs, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// query asks for the A and then AAAA records of the specified name.
func (p *Pool) query(ctx context.Context, conn *dns.Conn, name string) ([]string, error) {
	var addrs []string
	fqdn := dns.Fqdn(name)
	for _, addrType := range []uint16{dns.TypeA, dns.TypeAAAA} {
		// don't try to resolve the name if the context has been cancelled.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(deadline)
		} else {
			_ = conn.SetDeadline(time.Time{})
		}
		msg := dns.Msg{
			MsgHdr: dns.MsgHdr{Id: dns.Id()},
		}
		msg.SetQuestion(fqdn, addrType)
		r, _, err := p.client.ExchangeWithConn(&msg, conn)
		if err != nil {
			return nil, fmt.Errorf("cannot look up %s: %w", name, err)
		}
		for _, rr := range r.Answer {
			switch addrRR := rr.(type) {
			case *dns.A:
				addrs = append(addrs, addrRR.A.String())
			case *dns.AAAA:
				addrs = append(addrs, addrRR.AAAA.String())
			}
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("query for %q yields no answers", name)
	}
	log.Debugf("resolved %s into %v", name, addrs)
	return addrs, nil
}

// withConn grabs the next free DNS client connection and passes it to the
// specified function. After the function returns, the connection is put back
// into the free list.
func (p *Pool) withConn(fn func(conn *dns.Conn)) {
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		panic("no free DNS client connection available")
	}
	last := len(p.free) - 1
	conn := p.free[last]
	p.free = p.free[:last]
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.free = append(p.free, conn)
		p.mu.Unlock()
	}()
	fn(conn)
}

// StopWait waits for all enqueued lookups to finish, and then shuts down the
// pool.
func (p *Pool) StopWait() {
	p.workers.StopWait()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range p.free {
		conn.Close()
	}
	p.free = nil
}
