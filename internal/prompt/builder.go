package prompt

import (
	"fmt"
	"strings"
)

// Verbosity selects how much detail the model is asked to produce. It only
// changes the instruction text, never this service's control flow.
type Verbosity string

const (
	VerbosityConcise       Verbosity = "Concise"
	VerbosityDetailed      Verbosity = "Detailed"
	VerbosityComprehensive Verbosity = "Comprehensive"
)

// ParseVerbosity validates a verbosity label.
func ParseVerbosity(s string) (Verbosity, bool) {
	switch Verbosity(s) {
	case VerbosityConcise, VerbosityDetailed, VerbosityComprehensive:
		return Verbosity(s), true
	}
	return "", false
}

// EvaluationCriteria is the fixed rule set every evaluation is graded
// against.
const EvaluationCriteria = `Evaluate the given text based on these 14 rules:
1. Avoid statements referring to the past instead of the present.
2. Avoid factual statements or those that could be interpreted as such.
3. Avoid ambiguity and ensure clarity in meaning.
4. Ensure relevance to the intended topic or psychological object.
5. Avoid statements that would be universally accepted or rejected.
6. Cover the full range of the effective scale of interest.
7. Use simple, clear, and direct language.
8. Keep statements short (preferably under 20 words).
9. Each statement should express only one complete thought.
10. Avoid universal terms such as all, always, none, and never.
11. Use words like only, just, merely with caution.
12. Prefer simple sentences over complex or compound ones.
13. Avoid jargon or words that may confuse the target audience.
14. Eliminate double negatives.`

// Build assembles the grading instruction for one piece of text. Pure string
// formatting; the caller is responsible for rejecting blank input.
func Build(text string, verbosity Verbosity) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant skilled in grammar correction and structural refinement.\n")
	b.WriteString("Analyze the following text based on the 14 rules and provide:\n")
	b.WriteString("- A brief summary of errors found.\n")
	b.WriteString("- A revised version of the sentence with corrections.\n")
	b.WriteString("- A rating from 1-10 based on how well it follows the criteria.\n\n")

	fmt.Fprintf(&b, "**Text to Evaluate:**\n%q\n\n", text)
	fmt.Fprintf(&b, "**Evaluation Criteria:**\n%s\n\n", EvaluationCriteria)
	fmt.Fprintf(&b, "**Response Format (%s feedback):**\n", verbosity)
	b.WriteString("- Overall Rating: X/10\n")
	b.WriteString("- Identified Issues: (list of issues)\n")
	b.WriteString("- Suggested Improvements: (specific suggestions)\n")
	b.WriteString("- Corrected Version: (revised sentence)\n")

	return b.String()
}
