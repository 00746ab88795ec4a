// Package prompt is the centralized prompt library for the interpretation
// pipeline. Prompts ship as built-in defaults and can be overridden by JSON
// files at runtime without code changes.
package prompt

// Template is a reusable prompt with metadata.
type Template struct {
	ID           string `json:"id"`            // Unique identifier (e.g. "normalize.signs")
	Name         string `json:"name"`          // Human-readable name
	Category     string `json:"category"`      // normalize, enrich, questions
	Description  string `json:"description"`   // Purpose of the prompt
	SystemPrompt string `json:"system_prompt"` // System prompt content
	Version      string `json:"version"`       // Version for tracking changes
}

// Well-known prompt IDs consumed by the pipeline stages.
const (
	IDSignNormalization = "normalize.signs"
	IDEnrichment        = "enrich.model"
	IDQuestionPhrasing  = "questions.phrasing"
)
