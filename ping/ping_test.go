// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/namspill"
	. "github.com/thediveo/success"
)

var _ = Describe("pinger", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
			Expect(Tasks()).To(BeUniformlyNamespaced())
		})
	})

	It("measures the elapsed time of successful probes", func(ctx context.Context) {
		pinger := New(1, time.Second, WithProbe(func(context.Context, string, time.Duration) error {
			time.Sleep(20 * time.Millisecond)
			return nil
		}))
		Expect(Successful(pinger.Check(ctx, "10.0.0.1"))).To(BeNumerically(">=", 20*time.Millisecond))
	})

	It("passes on the timeout and probe errors", func(ctx context.Context) {
		var timeout time.Duration
		boom := errors.New("boom")
		pinger := New(1, 42*time.Millisecond, WithProbe(func(_ context.Context, _ string, to time.Duration) error {
			timeout = to
			return boom
		}))
		rtt, err := pinger.Check(ctx, "10.0.0.1")
		Expect(err).To(MatchError(boom))
		Expect(rtt).To(BeZero())
		Expect(timeout).To(Equal(42 * time.Millisecond))
	})

	It("runs probes in a network namespace", func(ctx context.Context) {
		if os.Getuid() != 0 {
			Skip("needs root")
		}
		called := false
		pinger := New(1, time.Second,
			InNetworkNamespace("/proc/self/ns/net"),
			WithProbe(func(context.Context, string, time.Duration) error {
				called = true
				return nil
			}))
		Expect(pinger.Check(ctx, "10.0.0.1")).Error().NotTo(HaveOccurred())
		Expect(called).To(BeTrue())
	})

	It("pings the loopback", NodeTimeout(10*time.Second), func(ctx context.Context) {
		if os.Getuid() != 0 {
			Skip("needs root")
		}
		pinger := New(1, 2*time.Second)
		Expect(pinger.Check(ctx, "127.0.0.1")).Error().NotTo(HaveOccurred())
	})

	It("reports unresolvable addresses as errors", NodeTimeout(10*time.Second), func(ctx context.Context) {
		pinger := New(1, time.Second, AsUnprivileged())
		// not even a syntactically valid DNS name, so resolution fails early.
		_, err := pinger.Check(ctx, "no such host!")
		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(ErrUnreachable))
	})

	It("stops probing when the context is cancelled", NodeTimeout(10*time.Second), func(ctx context.Context) {
		pinger := New(1, 5*time.Second, WithProbe(func(ctx context.Context, _ string, _ time.Duration) error {
			<-ctx.Done()
			return ctx.Err()
		}))
		ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		start := time.Now()
		_, err := pinger.Check(ctx, "10.0.0.1")
		Expect(err).To(MatchError(context.DeadlineExceeded))
		Expect(err).NotTo(MatchError(ErrUnreachable))
		Expect(time.Since(start)).To(BeNumerically("<", 4*time.Second))
	})

	It("doesn't ping at all with an already cancelled context", func(ctx context.Context) {
		pinger := New(1, 5*time.Second)
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := pinger.Check(ctx, "127.0.0.1")
		Expect(err).To(MatchError(context.Canceled))
	})

})
