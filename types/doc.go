/*
Package types defines hostsweep's information model. Which is rather simple
and revolves around an [Entry] found in a hosts file, and the [Verdict] on
the reachability of the entry's address, together with its verification
[Quality].

An [Entry] is never stored as such: the hosts store only keeps the raw text
lines and parses them again whenever an entry is asked for. Entries and
verdicts thus are plain values that can be freely passed around between
concurrent probing workers without any locking.
*/
package types
