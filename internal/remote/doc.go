// Package remote is a small JSON-over-HTTP client for the word generation
// and rhyme services exposed by a freestyle server.
package remote
