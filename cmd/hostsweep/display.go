// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/siemens/hostsweep/ping"
	"github.com/siemens/hostsweep/types"

	"github.com/gosuri/uilive"
)

// spinnerPhases are the (braille) phases of the progress spinner.
var spinnerPhases = []string{"⠉", "⠘", "⠰", "⠤", "⠆", "⠃"}

// progress renders a live tally of the pings in flight and done, as well as
// the final verdict of each entry.
type progress struct {
	mu        sync.Mutex
	term      *uilive.Writer
	verdicts  io.Writer // bypasses the live area.
	phase     int
	submitted int
	verified  int
	failed    int
	errored   int
	done      chan struct{}
	stopped   chan struct{}
}

// newProgress returns a new progress renderer writing to the specified
// io.Writer. Call Start to start rendering and Stop to finish rendering.
func newProgress(w io.Writer) *progress {
	term := uilive.New()
	term.Out = w
	return &progress{
		term:     term,
		verdicts: term.Bypass(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Update the tally with the specified verdict and render final verdicts.
func (p *progress) Update(v types.Verdict) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case v.Quality == types.Verifying:
		p.submitted++
		return
	case v.Quality == types.Verified:
		p.verified++
		fmt.Fprintln(p.verdicts, verifiedStyle.Styled(
			fmt.Sprintf("✔ %s (%s): %dms", v.Domain, v.Address, v.RTT.Milliseconds())))
	case errors.Is(v.Err, ping.ErrUnreachable):
		p.failed++
		fmt.Fprintln(p.verdicts, failedStyle.Styled(
			fmt.Sprintf("× %s (%s): timed out", v.Domain, v.Address)))
	default:
		p.errored++
		fmt.Fprintln(p.verdicts, erroredStyle.Styled(
			fmt.Sprintf("! %s (%s): %s", v.Domain, v.Address, v.Err)))
	}
}

// Start rendering the live tally every interval in the background.
func (p *progress) Start(interval time.Duration) {
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.render(true)
			case <-p.done:
				p.render(false)
				return
			}
		}
	}()
}

// Stop rendering and render the final tally.
func (p *progress) Stop() {
	close(p.done)
	<-p.stopped
}

// render the tally into the live area and flush it to the terminal.
func (p *progress) render(spinning bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	finished := p.verified + p.failed + p.errored
	spinner := " "
	if spinning {
		p.phase = (p.phase + 1) % len(spinnerPhases)
		spinner = spinnerPhases[p.phase]
	}
	fmt.Fprintf(p.term, "%s pinged %d/%d: %d verified, %s, %s\n",
		verifyingStyle.Styled(spinner),
		finished, p.submitted, p.verified,
		failedStyle.Styled(fmt.Sprintf("%d timed out", p.failed)),
		erroredStyle.Styled(fmt.Sprintf("%d errors", p.errored)))
	_ = p.term.Flush()
}
