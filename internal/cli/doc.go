// Package cli prints gcstats reports to a terminal or a pipe.
//
// Display* functions write to an [io.Writer]; Format* functions return a
// string and do no I/O.
package cli
