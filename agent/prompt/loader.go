package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/extract.txt
	extractRaw string

	//go:embed template/respond.txt
	respondRaw string
)

// Delimiter wraps the user query in the extraction prompt so the model can
// tell instruction from input.
const Delimiter = "####"

// PromptSet holds loaded prompt content.
type PromptSet struct {
	extraction string
	response   string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// The embed is compile-time, so this is safe to call concurrently.
func LoadPromptSet() PromptSet {
	return PromptSet{
		extraction: strings.TrimSpace(extractRaw),
		response:   strings.TrimSpace(respondRaw),
	}
}

// ExtractionSystem renders the extraction system prompt with the allowed
// products summary injected.
func (p PromptSet) ExtractionSystem(catalogJSON string) string {
	out := strings.ReplaceAll(p.extraction, "{delimiter}", Delimiter)
	return strings.ReplaceAll(out, "{catalog}", catalogJSON)
}

// ResponseSystem is the fixed grounded-assistant persona.
func (p PromptSet) ResponseSystem() string {
	return p.response
}

// WrapQuery delimits raw user text for the extraction step.
func WrapQuery(text string) string {
	return Delimiter + text + Delimiter
}
