// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	verifyingStyle = termenv.Style{}.Foreground(termenv.ANSIYellow)
	verifiedStyle  = termenv.Style{}.Foreground(termenv.ANSIGreen)
	failedStyle    = termenv.Style{}.Foreground(termenv.ANSIRed)
	erroredStyle   = termenv.Style{}.Foreground(termenv.ANSIMagenta)
)

var pathStyle = termenv.Style{}.Bold()
