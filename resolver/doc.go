/*
Package resolver implements a simple limiting DNS lookup pool. hostsweep uses
a resolver [Pool] to look up the addresses of hosts file entries that don't
use IP address literals, asking a specific DNS server instead of the system's
resolver configuration.

Usage

	dnsclnt := dns.Client{}
	pool, err := resolver.New(
	    context.Background(),
	    4,                    // number of parallel DNS connections and thus workers
	    &dnsclnt,             // DNS client
	    "127.0.0.1:53",       // address of server/resolver
	)
	addrs, err := pool.Lookup(ctx, "foobar.example.org")
	pool.StopWait()

# Acknowledgements

Under its hood, [Pool] leverages [gammazero/workerpool] as the limiting
goroutine pool and [miekg/dns] for talking DNS.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[miekg/dns]: https://github.com/miekg/dns
*/
package resolver
