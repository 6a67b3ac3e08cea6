/*
Package ping implements an ICMP(v4/v6)-based reachability prober for the
entries of hosts files.

[Pinger.Check] pings a single address once, waiting at most for the
configured timeout. [Pinger.ProbeEntries] then probes all entries from an
[Entries] source, such as a [github.com/siemens/hostsweep/hosts.Store],
concurrently with a maximum number of parallel probes. It reports the line
numbers of the entries whose addresses didn't reply in time (“failed”), as
well as the line numbers of entries which couldn't be probed at all
(“errored”), such as when their addresses don't resolve.

	            +---+
	Entries---->| P +--> Tally{Failed, Errored}
	            +---+
	              |
	              +--> func(types.Verdict)

The same address is probed only once per ProbeEntries call, even if it
appears in several entries.

Optionally, a Pinger informs about each entry when submitting it for probing
(with quality “verifying”), as well as about the entry's final verdict. This
allows interactive clients to show the progress.

# Acknowledgements

Under its hood, [Pinger] leverages [gammazero/workerpool] as the limiting
goroutine pool and [go-ping/ping] for pinging.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[go-ping/ping]: https://github.com/go-ping/ping
*/
package ping
