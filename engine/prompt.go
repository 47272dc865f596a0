package engine

import (
	"strings"

	"github.com/viant/sovereign/schema"
)

const (
	// NoContextAnswer is returned when retrieval finds nothing.
	NoContextAnswer = "I do not have any relevant information in my private database to answer this."

	// SystemPrompt constrains generation to the retrieved context.
	SystemPrompt = "You are a Secure Enterprise AI. Answer ONLY based on the provided context. " +
		"If the answer is not in the context, say 'Information not found in private records.'"

	// ContextSeparator delimits retrieved chunks inside the context block.
	ContextSeparator = "\n---\n"
)

// BuildContext joins chunk texts in ranked order.
func BuildContext(docs []schema.Document) string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	return strings.Join(texts, ContextSeparator)
}

// BuildPrompt renders the Mistral instruct template.
func BuildPrompt(system, context, query string) string {
	var builder strings.Builder
	builder.Grow(len(system) + len(context) + len(query) + 48)
	builder.WriteString("<s>[INST] ")
	builder.WriteString(system)
	builder.WriteString("\n\nCONTEXT:\n")
	builder.WriteString(context)
	builder.WriteString("\n\nQUESTION:\n")
	builder.WriteString(query)
	builder.WriteString(" [/INST]")
	return builder.String()
}
