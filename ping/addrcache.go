// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"errors"
	"sync"
	"time"
)

var errProbeAborted = errors.New("probe aborted")

// addressCache caches probe results per address so that multiple entries with
// the same address get probed only once. Entries waiting for an address
// already being probed share its result when it becomes available.
type addressCache struct {
	mu sync.Mutex
	m  map[string]*probeResult // address -> (pending) result
}

// probeResult is the result of probing a particular address; rtt and err
// must only be read after done has been closed.
type probeResult struct {
	done chan struct{}
	rtt  time.Duration
	err  error
}

func newAddressCache() *addressCache {
	return &addressCache{
		m: map[string]*probeResult{},
	}
}

// claim returns the probe result for the specified address. If this is the
// first time this address is seen, then claim returns true and the caller
// has to carry out the probe and then to close the result's done channel.
// The result initially is errProbeAborted until the caller updates it.
func (c *addressCache) claim(addr string) (*probeResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res, ok := c.m[addr]; ok {
		return res, false
	}
	res := &probeResult{
		done: make(chan struct{}),
		err:  errProbeAborted,
	}
	c.m[addr] = res
	return res, true
}
