package staging

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a document redaction assistant. Given a document and a list of
redaction directives, propose rectangular regions to redact.

Respond with JSON only, in this exact shape:
{"selections":[{"x":0.1,"y":0.2,"width":0.3,"height":0.05,"page_number":0,"confidence":0.9}]}

Coordinates are fractions of the page in [0,1] with the origin at the
top-left. Omit page_number to target every page. confidence is your own
estimate in [0,1]. Return {"selections":[]} when nothing matches.`

// composePrompt folds the approved directive rules, in order, between the
// system instructions and the document content.
func composePrompt(docContext string, rules []string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nRedaction directives:\n")
	for i, rule := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(rule))
	}
	b.WriteString("\nDocument:\n")
	b.WriteString(docContext)
	return b.String()
}
