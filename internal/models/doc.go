// Package models lists the chat models an OpenAI key can use for word and
// rhyme generation.
package models
