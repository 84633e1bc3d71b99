// Package wordpool holds the bundled fallback word bank used when remote
// word generation is unavailable. It defines the theme and difficulty
// catalog, the set of already shown words and uniform sampling that
// avoids repeats until a list is exhausted.
package wordpool
