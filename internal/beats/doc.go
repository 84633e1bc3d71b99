// Package beats holds the backing beat catalog, the deck state a session
// plays them with (volume, tempo, cross-fades) and an external-process
// player for terminal practice.
package beats
