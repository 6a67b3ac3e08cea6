// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package hosts

import (
	"github.com/siemens/hostsweep/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("parsing lines", func() {

	DescribeTable("finds entries",
		func(line string, marker rune, addr, domain string) {
			entry, ok := Parse(line, 42, marker)
			Expect(ok).To(BeTrue())
			Expect(entry).To(Equal(types.Entry{Address: addr, Domain: domain, Line: 42}))
		},
		Entry("with comment", "  10.0.0.1   example.com # note", '#', "10.0.0.1", "example.com"),
		Entry("until end of line", "10.0.0.1 example.com", '#', "10.0.0.1", "example.com"),
		Entry("with trailing CR", "10.0.0.1 example.com\r", '#', "10.0.0.1", "example.com"),
		Entry("with comment glued to domain", "10.0.0.1 example.com#note", '#', "10.0.0.1", "example.com"),
		Entry("with single character domain", "10.0.0.1 a", '#', "10.0.0.1", "a"),
		Entry("ignoring further content", "10.0.0.1 example.com example.org", '#', "10.0.0.1", "example.com"),
		Entry("with custom marker", "::2 example.com ; foo # bar", ';', "::2", "example.com"),
		Entry("with non-ASCII domain", "10.0.0.1 bücher.example", '#', "10.0.0.1", "bücher.example"),
	)

	DescribeTable("rejects non-entries",
		func(line string) {
			_, ok := Parse(line, 1, DefaultMarker)
			Expect(ok).To(BeFalse())
		},
		Entry("empty line", ""),
		Entry("too short", "a b"),
		Entry("only a single content run", "10.0.0.1"),
		Entry("only a single content run with trailing space", "10.0.0.1   "),
		Entry("comment", "# 10.0.0.1 example.com"),
		Entry("domain commented out", "10.0.0.1 # example.com"),
		Entry("blanks", "      "),
	)

})
