package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"lifepath_planner/pkg/core/prompt"
	"lifepath_planner/pkg/core/utils"
)

// Phraser optionally rewrites question text with Gemini so the clarification
// screen reads conversationally. Field IDs are never touched: any response
// that drops, adds, or renames a field ID is discarded wholesale.
type Phraser struct {
	ModelName   string
	Temperature float32
	Timeout     time.Duration
}

// NewPhraser returns a phraser with the question-generation stage defaults.
func NewPhraser() *Phraser {
	return &Phraser{
		ModelName:   "gemini-2.0-flash",
		Temperature: 0.7,
		Timeout:     15 * time.Second,
	}
}

type phrasedQuestion struct {
	FieldID string `json:"field_id"`
	Text    string `json:"text"`
}

type phrasingResponse struct {
	Questions []phrasedQuestion `json:"questions"`
}

// Rephrase returns the questions with friendlier text where the service
// succeeded, and the template text everywhere else.
func (p *Phraser) Rephrase(ctx context.Context, qs []ClarificationQuestion) []ClarificationQuestion {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" || len(qs) == 0 {
		return qs
	}

	callCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	client, err := genai.NewClient(callCtx, option.WithAPIKey(apiKey))
	if err != nil {
		fmt.Printf("[QUESTIONS] Phrasing client unavailable, keeping templates: %v\n", err)
		return qs
	}
	defer client.Close()

	pairs := make([]phrasedQuestion, len(qs))
	for i, q := range qs {
		pairs[i] = phrasedQuestion{FieldID: q.FieldID, Text: q.Text}
	}
	payload, err := json.Marshal(map[string]interface{}{"questions": pairs})
	if err != nil {
		return qs
	}

	model := client.GenerativeModel(p.ModelName)
	model.SetTemperature(p.Temperature)
	systemPrompt := prompt.Get().SystemPrompt(prompt.IDQuestionPhrasing)

	resp, err := model.GenerateContent(callCtx, genai.Text(systemPrompt+"\n\n"+string(payload)))
	if err != nil {
		fmt.Printf("[QUESTIONS] Phrasing failed, keeping templates: %v\n", err)
		return qs
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return qs
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	var parsed phrasingResponse
	if _, err := utils.SmartParse(sb.String(), &parsed); err != nil {
		fmt.Printf("[QUESTIONS] Phrasing response unusable, keeping templates: %v\n", err)
		return qs
	}

	byID := make(map[string]string, len(parsed.Questions))
	for _, pq := range parsed.Questions {
		if strings.TrimSpace(pq.Text) != "" {
			byID[pq.FieldID] = strings.TrimSpace(pq.Text)
		}
	}

	out := make([]ClarificationQuestion, len(qs))
	for i, q := range qs {
		out[i] = q
		if text, ok := byID[q.FieldID]; ok {
			out[i].Text = text
		}
	}
	return out
}
