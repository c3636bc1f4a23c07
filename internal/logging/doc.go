// Package logging provides the structured logging interface used by gcstats.
// Components depend on Logger rather than on zerolog directly, so tests can
// capture output and the standard library logger can stand in when needed.
package logging
