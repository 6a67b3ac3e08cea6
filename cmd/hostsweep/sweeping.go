// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/siemens/hostsweep/hosts"
	"github.com/siemens/hostsweep/ping"
	"github.com/siemens/hostsweep/resolver"
	"github.com/siemens/hostsweep/verifier"

	"github.com/miekg/dns"
)

// SweepAndReport loads the hosts entries either from the file name in
// directory dir, or from the text passed via --string if fromText is set. It
// then pings all entries not filtered, removes those that didn't reply in
// time, and finally saves the result back to the file, keeping a backup of
// the original file.
// Progress and results are reported to out.
func SweepAndReport(ctx context.Context, out io.Writer, dir string, name string, fromText bool) error {
	filter, err := newFilter(*addressFilters, *regexpFilters)
	if err != nil {
		return err
	}
	marker := []rune(*annotation)[0]
	var store *hosts.Store
	if fromText {
		store, err = hosts.FromString(*hostsText, dir, name, filter, hosts.WithMarker(marker))
	} else {
		store, err = hosts.Load(dir, name, filter, hosts.WithMarker(marker))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "loaded %d valid entries\n", store.Len())

	progress := newProgress(out)
	options := []ping.PingerOption{
		ping.InNetworkNamespace(*netnsPath),
		ping.WithVerdicts(progress.Update),
	}
	if *unprivileged {
		options = append(options, ping.AsUnprivileged())
	}
	if *resolverAddr != "" {
		dnsclnt := dns.Client{}
		pool, err := resolver.New(ctx, int(*threadNum), &dnsclnt, *resolverAddr,
			resolver.InNetworkNamespace(*netnsPath))
		if err != nil {
			return err
		}
		defer pool.StopWait()
		options = append(options, ping.WithResolver(pool))
	}
	pinger := ping.New(int(*threadNum), time.Duration(*timeoutMs)*time.Millisecond, options...)
	var verifierOptions []verifier.Option
	if *pruneErrors {
		verifierOptions = append(verifierOptions, verifier.PruneErrors())
	}

	progress.Start(*spinnerInterval)
	outcome, err := verifier.New(pinger, verifierOptions...).Verify(ctx, store)
	progress.Stop()
	if outcome != nil {
		reportOutcome(out, dir, outcome)
	}
	return err
}

// newFilter returns the address filter for the specified literal addresses
// and regular expressions, falling back to the loopback filter if there are
// none.
func newFilter(addrs []string, patterns []string) (*hosts.Filter, error) {
	if len(addrs) == 0 && len(patterns) == 0 {
		return hosts.LoopbackFilter(), nil
	}
	return hosts.NewFilter(addrs, patterns)
}

// reportOutcome renders the removed lines as well as where the results were
// saved to.
func reportOutcome(out io.Writer, dir string, outcome *verifier.Outcome) {
	for _, line := range outcome.Removal.RemovedLines {
		fmt.Fprintf(out, "removed: %s\n", line)
	}
	fmt.Fprintf(out, "%d in total, %d left, %d removed\n",
		outcome.Removal.Total, outcome.Removal.Left, outcome.Removal.Removed)
	if n := len(outcome.Tally.Errored); n > 0 {
		fmt.Fprintf(out, "%d entries could not be pinged at all\n", n)
	}
	switch saved := outcome.Saved; {
	case saved == nil:
		fmt.Fprintln(out, "without modifications, nothing is saved")
	case saved.Backup != "":
		fmt.Fprintf(out, "in %s, old file renamed to %s, new file is %s\n",
			pathStyle.Styled(dir),
			pathStyle.Styled(filepath.Base(saved.Backup)),
			pathStyle.Styled(filepath.Base(saved.Path)))
	default:
		fmt.Fprintf(out, "in %s, new file is %s\n",
			pathStyle.Styled(dir),
			pathStyle.Styled(filepath.Base(saved.Path)))
	}
}
