// Package wordgen generates single prompt words for a theme and difficulty,
// either through a language model or through a remote generation service,
// and validates every candidate against the difficulty's length rule.
package wordgen
