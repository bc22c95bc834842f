package compare

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("augmented").Parse(
	`You are an expert in answering general questions. Here's information retrieved from Wikipedia about "{{.Query}}":
{{.Content}}

Please check if the retrieved info is relevant to the query or not. If it is not relevant, please feel free to say that and add your inputs to make it relevant. If the info is relevant, please answer the query and summarize the answer in simple terms.`))

type promptData struct {
	Query   string
	Content string
}

// ComposePrompt fills the augmented-answer template. Query and content are
// inserted verbatim; empty content leaves an empty line in its place.
func ComposePrompt(query, content string) string {
	var sb strings.Builder
	// strings.Builder never fails a write
	_ = promptTemplate.Execute(&sb, promptData{Query: query, Content: content})
	return sb.String()
}
