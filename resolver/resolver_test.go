// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// startDNSServer starts a local DNS server answering only for
// “foo.example.”, returning the server's address.
func startDNSServer() string {
	pc := Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(r)
			if q := r.Question[0]; q.Name == "foo.example." {
				switch q.Qtype {
				case dns.TypeA:
					rr, _ := dns.NewRR("foo.example. 60 IN A 10.0.0.42")
					m.Answer = append(m.Answer, rr)
				case dns.TypeAAAA:
					rr, _ := dns.NewRR("foo.example. 60 IN AAAA fd00::42")
					m.Answer = append(m.Answer, rr)
				}
			} else {
				m.Rcode = dns.RcodeNameError
			}
			_ = w.WriteMsg(m)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	Eventually(started).Should(BeClosed())
	DeferCleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

var _ = Describe("DNS lookup pool", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("passes IP address literals through", NodeTimeout(10*time.Second), func(ctx context.Context) {
		dnsclnt := dns.Client{}
		// We're never going to contact this DNS "server".
		pool := Successful(New(ctx, 1, &dnsclnt, "127.0.0.1:53"))
		defer pool.StopWait()
		Expect(pool.Lookup(ctx, "10.0.0.1")).To(ConsistOf("10.0.0.1"))
		Expect(pool.Lookup(ctx, "fd00::1")).To(ConsistOf("fd00::1"))
	})

	It("resolves names", NodeTimeout(10*time.Second), func(ctx context.Context) {
		server := startDNSServer()
		dnsclnt := dns.Client{}
		pool := Successful(New(ctx, 2, &dnsclnt, server))
		defer pool.StopWait()
		Expect(pool.Lookup(ctx, "foo.example")).To(Equal([]string{"10.0.0.42", "fd00::42"}))
		Expect(pool.Lookup(ctx, "bar.example")).Error().To(MatchError(ContainSubstring("no answers")))
	})

	It("reports lookup failures", NodeTimeout(10*time.Second), func(ctx context.Context) {
		dnsclnt := dns.Client{Net: "udp", Timeout: time.Second}
		pool := Successful(New(ctx, 1, &dnsclnt, "127.0.0.1:1"))
		defer pool.StopWait()
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		Expect(pool.Lookup(ctx, "tld.rottennet.")).Error().To(HaveOccurred())
	})

})
