package tutor

import (
	"fmt"
	"strings"
	"time"

	"github.com/studyloop/tutorbridge/pkg/queryclass"
)

// DefaultPersonaPrompt is used when the configuration does not provide a
// persona of its own.
const DefaultPersonaPrompt = "You are a patient, knowledgeable tutor. Help students understand concepts rather than just handing over answers."

const responseStyleDirective = "Answer clearly and concisely. When the question is educational, walk through the reasoning step by step and encourage the student."

const citationDirective = "Web search results are provided between the result markers. Ground time-sensitive claims in them and cite sources inline as [1], [2] matching the numbered entries."

func dateDirective(now time.Time) string {
	return fmt.Sprintf("Today's date is %s. Information dated earlier is historical; never present older information as today's.",
		now.Format("Monday, January 2, 2006"))
}

// buildSystemPrompt assembles the system instructions for one turn: the
// persona, the fixed style directive, a date anchor for time-sensitive
// questions, and the citation directive when grounded context is present.
func buildSystemPrompt(persona string, c queryclass.Classification, haveContext bool, now time.Time) string {
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersonaPrompt
	}
	parts := []string{persona, responseStyleDirective}
	if c.TimeAware() {
		parts = append(parts, dateDirective(now))
	}
	if haveContext {
		parts = append(parts, citationDirective)
	}
	return strings.Join(parts, "\n\n")
}
