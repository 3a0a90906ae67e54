// Package pacing keeps callers under a remote service's rate limit.
//
// Gate spaces dispatches of mutating calls at a configured operations per
// second, using a golang.org/x/time/rate limiter with a burst of one. Floor
// enforces a minimum wall-clock duration for a unit of work, so a fast page
// does not let the next page's fetch start early.
//
// Pacing is cooperative: it bounds when work may start, not how many calls
// are in flight.
package pacing
