// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package hosts

import (
	"fmt"
	"regexp"
)

// Excluder decides whether entries with a particular address are to be left
// alone, that is, neither probed nor removed.
type Excluder interface {
	Excludes(addr string) bool
}

// Filter excludes addresses that either are in a set of literal addresses or
// fully match any of a set of regular expressions.
type Filter struct {
	addrs    map[string]struct{}
	patterns []*regexp.Regexp
}

var _ Excluder = (*Filter)(nil)

// Loopback address filter configuration.
var (
	LoopbackAddresses = []string{"::1"}
	LoopbackPatterns  = []string{`127.\d+.\d+.\d+`, `^[0:][0:]+1$`}
)

// NewFilter returns a new Filter for the specified literal addresses and
// regular expression patterns. Patterns always need to match the whole
// address, not just a part of it.
func NewFilter(addrs []string, patterns []string) (*Filter, error) {
	f := &Filter{
		addrs:    make(map[string]struct{}, len(addrs)),
		patterns: make([]*regexp.Regexp, 0, len(patterns)),
	}
	for _, addr := range addrs {
		f.addrs[addr] = struct{}{}
	}
	for _, pattern := range patterns {
		re, err := regexp.Compile(`^(?:` + pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("invalid address filter pattern %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// LoopbackFilter returns a Filter excluding IPv4 and IPv6 loopback addresses.
func LoopbackFilter() *Filter {
	f, err := NewFilter(LoopbackAddresses, LoopbackPatterns)
	if err != nil {
		panic(err)
	}
	return f
}

// Excludes returns true if the specified address is to be excluded.
func (f *Filter) Excludes(addr string) bool {
	for _, re := range f.patterns {
		if re.MatchString(addr) {
			return true
		}
	}
	_, ok := f.addrs[addr]
	return ok
}
