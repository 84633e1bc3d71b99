// Package scheduler drives a practice session: while generating it asks the
// word supply for a new word every word interval, counts down the seconds
// to the next word, and stops itself after repeated failures.
//
// All state lives behind one mutex. Each word request runs in its own
// goroutine and carries the session token and settings epoch it was issued
// under; a result arriving after Stop or after a theme or difficulty change
// is dropped.
package scheduler
