// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

var (
	hostsText       *string
	annotation      *string
	threadNum       *uint
	timeoutMs       *uint
	addressFilters  *[]string
	regexpFilters   *[]string
	unprivileged    *bool
	netnsPath       *string
	resolverAddr    *string
	pruneErrors     *bool
	spinnerInterval *time.Duration
	debug           *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "hostsweep [flags] directory filename",
		Short: "hostsweep pings the addresses in a hosts file and removes the unreachable entries",
		Long: `hostsweep pings the addresses of all entries in a hosts file and removes the
entries whose addresses don't reply in time. The original file is kept as a
backup named "filename.backup", or "filename (N).backup" if that name is
already taken.

Unless --filter or --regexp are given, loopback addresses are left alone.`,
		Version: "0.9",
		Args:    cobra.ExactArgs(2),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if utf8.RuneCountInString(*annotation) != 1 {
				return fmt.Errorf("--annotation must be a single character")
			}
			if *threadNum < 1 {
				return fmt.Errorf("--threadNum must be at least 1")
			}
			if *timeoutMs < 1 {
				return fmt.Errorf("--timeout must be at least 1ms")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			return SweepAndReport(ctx, cmd.OutOrStdout(), args[0], args[1],
				cmd.Flags().Changed("string"))
		},
	}
	// Sets up the flags.
	hostsText = rootCmd.PersistentFlags().String(
		"string", "", "load the hosts entries from this text instead of the file")
	annotation = rootCmd.PersistentFlags().String(
		"annotation", "#", "comment marker character")
	threadNum = rootCmd.PersistentFlags().Uint(
		"threadNum", 8, "number of concurrent pings")
	timeoutMs = rootCmd.PersistentFlags().Uint(
		"timeout", 10000, "ping timeout in milliseconds")
	addressFilters = rootCmd.PersistentFlags().StringSlice(
		"filter", nil, "addresses to leave alone")
	regexpFilters = rootCmd.PersistentFlags().StringArray(
		"regexp", nil, "regular expression of addresses to leave alone")
	unprivileged = rootCmd.PersistentFlags().Bool(
		"unprivileged", false, "use unprivileged UDP pings instead of ICMP")
	netnsPath = rootCmd.PersistentFlags().String(
		"netns", "", "ping from the network namespace at this path, such as /proc/666/ns/net")
	resolverAddr = rootCmd.PersistentFlags().String(
		"resolver", "", "look up non-literal addresses using this DNS server, such as 127.0.0.1:53")
	pruneErrors = rootCmd.PersistentFlags().Bool(
		"prune-errors", false, "also remove entries that cannot be pinged at all")
	spinnerInterval = rootCmd.PersistentFlags().Duration(
		"spinner", 100*time.Millisecond, "spinner interval")
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	return
}
