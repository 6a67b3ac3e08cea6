// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/siemens/hostsweep/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// Entries is a source of entries to probe, with a cursor that can be read and
// repositioned; [hosts.Store] satisfies it.
type Entries interface {
	Next() (types.Entry, bool)
	Position() int
	SeekPosition(pos int) (int, bool)
}

// Tally lists the line numbers of the entries that failed or errored while
// probing. Entries failed when they didn't reply in time, and errored when
// they couldn't be probed at all.
type Tally struct {
	Failed   map[int]struct{}
	Errored  map[int]struct{}
	Verified int
}

// verdicts collects the verdicts of concurrent probes.
type verdicts struct {
	mu     sync.Mutex
	tally Tally
}

func (v *verdicts) record(verdict types.Verdict) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case verdict.Quality == types.Verified:
		v.tally.Verified++
	case errors.Is(verdict.Err, ErrUnreachable):
		v.tally.Failed[verdict.Line] = struct{}{}
	default:
		v.tally.Errored[verdict.Line] = struct{}{}
	}
}

// ProbeEntries probes the addresses of all entries from the specified source,
// using at most as many concurrent probes as the size of this Pinger. It
// returns a tally of the entries that failed to reply in time, and of the
// entries that couldn't be probed.
//
// ProbeEntries reads all entries from the beginning and afterwards restores
// the cursor of the source to where it was before. ProbeEntries doesn't
// return before all probes have finished. If the context gets cancelled, the
// probes not yet started are skipped, the running probes stopped, and the
// context's error is returned.
func (p *Pinger) ProbeEntries(ctx context.Context, entries Entries) (*Tally, error) {
	pos := entries.Position()
	entries.SeekPosition(0)
	defer entries.SeekPosition(pos)

	collected := &verdicts{
		tally: Tally{
			Failed:  map[int]struct{}{},
			Errored: map[int]struct{}{},
		},
	}
	cache := newAddressCache()
	// The worker pool is ours alone, so waiting for it to stop is waiting for
	// all our submitted probes to finish.
	workers := workerpool.New(p.size)
	submitted := 0
	for {
		entry, ok := entries.Next()
		if !ok {
			break
		}
		submitted++
		verdict := types.Verdict{Entry: entry, Quality: types.Verifying}
		if p.notify != nil {
			p.notify(verdict)
		}
		workers.Submit(func() {
			verdict := verdict
			// Always record a verdict on our way out, even if the probe
			// panicked.
			defer func() {
				if r := recover(); r != nil {
					verdict = verdict.WithNewQuality(types.Invalid,
						fmt.Errorf("probing %s panicked: %v", verdict.Address, r))
				}
				p.report(verdict)
				collected.record(verdict)
			}()
			verdict = p.probeEntry(ctx, cache, verdict)
		})
	}
	workers.StopWait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debugf("probed %d entries: %d verified, %d failed, %d errored",
		submitted, collected.tally.Verified,
		len(collected.tally.Failed), len(collected.tally.Errored))
	return &collected.tally, nil
}

// probeEntry probes the address of the entry in the passed verdict, unless
// the same address is already being probed. In the latter case it waits for
// the outcome of that other probe.
func (p *Pinger) probeEntry(ctx context.Context, cache *addressCache, verdict types.Verdict) types.Verdict {
	res, owner := cache.claim(verdict.Address)
	if owner {
		defer close(res.done)
		res.rtt, res.err = p.Check(ctx, verdict.Address)
	} else {
		select {
		case <-res.done:
		case <-ctx.Done():
			return verdict.WithNewQuality(types.Invalid, ctx.Err())
		}
	}
	if res.err != nil {
		return verdict.WithNewQuality(types.Invalid, res.err)
	}
	verdict = verdict.WithNewQuality(types.Verified, nil)
	verdict.RTT = res.rtt
	return verdict
}

// report logs the final verdict and passes it on to the notification
// function, if any.
func (p *Pinger) report(verdict types.Verdict) {
	switch {
	case verdict.Quality == types.Verified:
		log.Infof("ping %s (%s): %dms", verdict.Domain, verdict.Address, verdict.RTT.Milliseconds())
	case errors.Is(verdict.Err, ErrUnreachable):
		log.Infof("ping %s (%s): timed out", verdict.Domain, verdict.Address)
	default:
		log.Errorf("ping %s (%s): %s", verdict.Domain, verdict.Address, verdict.Err)
	}
	if p.notify != nil {
		p.notify(verdict)
	}
}
