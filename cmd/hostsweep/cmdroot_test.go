// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

func runRoot(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

var _ = Describe("hostsweep command", func() {

	var dir string

	BeforeEach(func() {
		dir = Successful(os.MkdirTemp("", "hostsweep-test-*"))
		DeferCleanup(func() { _ = os.RemoveAll(dir) })
	})

	DescribeTable("rejects invalid flags",
		func(args ...string) {
			_, err := runRoot(append([]string{dir, "hosts"}, args...)...)
			Expect(err).To(HaveOccurred())
		},
		Entry("multi-character annotation", "--annotation", "##"),
		Entry("empty annotation", "--annotation", ""),
		Entry("no threads", "--threadNum", "0"),
		Entry("zero timeout", "--timeout", "0"),
		Entry("too fast spinner", "--spinner", "1ms"),
		Entry("invalid regexp", "--regexp", "(", "--string", "10.0.0.1 a.example"),
	)

	It("requires directory and file name", func() {
		_, err := runRoot(dir)
		Expect(err).To(HaveOccurred())
	})

	It("reports missing files", func() {
		_, err := runRoot(dir, "nada")
		Expect(err).To(MatchError(fs.ErrNotExist))
	})

	It("leaves filtered entries alone", func() {
		path := filepath.Join(dir, "hosts")
		Expect(os.WriteFile(path, []byte("127.0.0.1 localhost\n10.0.0.1 a.example ; foo\n"), 0644)).To(Succeed())
		out := Successful(runRoot(dir, "hosts",
			"--filter", "10.0.0.1", "--regexp", `127\..*`, "--annotation", ";"))
		Expect(out).To(ContainSubstring("loaded 0 valid entries"))
		Expect(out).To(ContainSubstring("0 in total, 0 left, 0 removed"))
		Expect(out).To(ContainSubstring("nothing is saved"))
		Expect(Successful(os.ReadDir(dir))).To(HaveLen(1))
	})

	It("loads from an empty string instead of the file", func() {
		out := Successful(runRoot(dir, "nada", "--string", ""))
		Expect(out).To(ContainSubstring("loaded 0 valid entries"))
		Expect(out).To(ContainSubstring("nothing is saved"))
	})

	It("loads from a string", func() {
		out := Successful(runRoot(dir, "hosts", "--string", "127.0.0.1 localhost\r\n::1 localhost"))
		Expect(out).To(ContainSubstring("loaded 0 valid entries"))
		Expect(Successful(os.ReadDir(dir))).To(BeEmpty())
	})

})
