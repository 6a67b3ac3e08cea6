// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"context"
	"fmt"

	"github.com/siemens/hostsweep/hosts"
	"github.com/siemens/hostsweep/ping"

	"github.com/thediveo/lxkns/log"
)

// Verifier verifies the entries of a hosts store by probing them, removes
// the entries that failed, and finally saves the store.
type Verifier struct {
	pinger      *ping.Pinger
	pruneErrors bool
}

// Option can be passed to New when creating new Verifier objects.
type Option func(*Verifier)

// Outcome of verifying a hosts store.
type Outcome struct {
	Tally   *ping.Tally       // failed and errored entries
	Removal hosts.Removal     // what has been removed
	Saved   *hosts.SaveReport // where the store was saved to, or nil if unchanged
}

// New returns a new Verifier using the specified pinger for probing the
// entries of hosts stores.
func New(pinger *ping.Pinger, options ...Option) *Verifier {
	v := &Verifier{
		pinger: pinger,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// PruneErrors tells a Verifier to not only remove the entries that failed to
// reply in time, but also those that couldn't be probed at all.
func PruneErrors() Option {
	return func(v *Verifier) {
		v.pruneErrors = true
	}
}

// Verify probes all entries of the specified store, removes the entries that
// failed (and optionally those that errored), and then saves the store if
// anything was removed.
func (v *Verifier) Verify(ctx context.Context, store *hosts.Store) (*Outcome, error) {
	tally, err := v.pinger.ProbeEntries(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("cannot probe entries: %w", err)
	}
	remove := make(map[int]struct{}, len(tally.Failed)+len(tally.Errored))
	for lineno := range tally.Failed {
		remove[lineno] = struct{}{}
	}
	if v.pruneErrors {
		for lineno := range tally.Errored {
			remove[lineno] = struct{}{}
		}
	}
	outcome := &Outcome{
		Tally:   tally,
		Removal: store.RemoveAll(remove),
	}
	log.Infof("%d in total, %d left, %d removed",
		outcome.Removal.Total, outcome.Removal.Left, outcome.Removal.Removed)
	outcome.Saved, err = store.Save()
	if err != nil {
		return outcome, fmt.Errorf("cannot save entries: %w", err)
	}
	return outcome, nil
}
