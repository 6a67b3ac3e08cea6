/*
Package verifier sweeps a hosts store: it probes all entries, removes those
entries whose addresses didn't reply in time, and saves the store, keeping a
backup of the original file.

The probing itself is carried out by a Pinger.
*/
package verifier
