// Package supply produces the next prompt word for a theme and difficulty.
//
// A Supplier first asks its generator for a fresh word. When that fails for
// any reason (no generator configured, network error, open circuit, or a
// word that violates the difficulty rule) it samples the static word pool
// instead. Rhymes for the chosen word are fetched best effort.
package supply
