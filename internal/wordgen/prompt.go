package wordgen

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/freestyle/internal/llm"
)

const wordSystemPrompt = "You are a specialized rap word generator. You only respond with single, " +
	"appropriate words that strictly match the given criteria. Never include punctuation or explanation."

// BuildPrompt renders the completion prompt for a request
func BuildPrompt(req Request) llm.Prompt {
	d := difficulties[req.Difficulty]
	th := themes[req.Theme]

	var b strings.Builder
	b.WriteString("Generate a single word for freestyle rap that strictly follows these criteria:\n\n")

	fmt.Fprintf(&b, "Difficulty Level (%s):\n", req.Difficulty)
	fmt.Fprintf(&b, "- %s\n", d.description)
	if d.rule.Max > 0 {
		fmt.Fprintf(&b, "- Maximum length: %d characters\n", d.rule.Max)
	}
	if d.rule.Min > 0 {
		fmt.Fprintf(&b, "- Minimum length: %d characters\n", d.rule.Min)
	}
	fmt.Fprintf(&b, "- Similar to: %s\n\n", strings.Join(d.examples, ", "))

	fmt.Fprintf(&b, "Theme (%s):\n", req.Theme)
	fmt.Fprintf(&b, "- Context: %s\n", th.context)
	fmt.Fprintf(&b, "- Should fit theme examples like: %s\n\n", strings.Join(th.examples[req.Difficulty], ", "))

	b.WriteString("Additional Requirements:\n")
	b.WriteString("- Word must be appropriate for rap lyrics\n")
	fmt.Fprintf(&b, "- Must not be in the excluded list: %s\n", strings.Join(req.Exclude, ", "))
	b.WriteString("- Return ONLY the word, no punctuation or explanation\n")
	b.WriteString("- Must be a real, commonly used English word\n")
	b.WriteString("- Must fit both the difficulty AND theme criteria strictly\n\n")
	b.WriteString("Example format: word")

	return llm.Prompt{
		System:           wordSystemPrompt,
		User:             b.String(),
		MaxTokens:        5,
		Temperature:      0.7,
		PresencePenalty:  0.6,
		FrequencyPenalty: 0.8,
	}
}
