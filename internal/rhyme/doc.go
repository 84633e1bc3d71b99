// Package rhyme fetches up to five rhyming suggestions for a word.
package rhyme
