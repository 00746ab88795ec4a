package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"lifepath_planner/pkg/core/llm"
	"lifepath_planner/pkg/core/prompt"
	"lifepath_planner/pkg/core/utils"
	"lifepath_planner/pkg/models"
)

// ServiceNormalizer is the service-assisted sign strategy. It serializes every
// line plus aggregate sign counts, requests a schema-constrained completion,
// and matches returned rows back by row index. Any failure is returned as an
// error so the caller can fall through to the heuristic; the input draft is
// never touched.
type ServiceNormalizer struct {
	provider llm.Provider
	options  map[string]interface{}
	timeout  time.Duration
}

var _ Strategy = (*ServiceNormalizer)(nil)

// NewServiceNormalizer wires a provider with its stage knobs.
func NewServiceNormalizer(provider llm.Provider, options map[string]interface{}, timeout time.Duration) *ServiceNormalizer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ServiceNormalizer{provider: provider, options: options, timeout: timeout}
}

// Wire contract for the normalization completion.
type normalizedLine struct {
	RowIndex        int     `json:"row_index"`
	CorrectedAmount float64 `json:"corrected_amount"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	LineType        string  `json:"line_type"`
}

type normalizeResponse struct {
	Lines []normalizedLine `json:"lines"`
	Notes string           `json:"notes"`
}

type normalizeRequestLine struct {
	RowIndex    int     `json:"row_index"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// Normalize runs the service pass. On any failure (unreachable service,
// timeout, malformed output, empty result) it returns an error and the caller
// falls back to the deterministic strategy.
func (n *ServiceNormalizer) Normalize(ctx context.Context, draft *models.DraftModel) (*models.DraftModel, error) {
	if n.provider == nil {
		return nil, fmt.Errorf("no provider configured")
	}
	if len(draft.Lines) == 0 {
		return nil, fmt.Errorf("draft has no lines to normalize")
	}

	userPrompt, err := n.buildPrompt(draft)
	if err != nil {
		return nil, err
	}
	systemPrompt := prompt.Get().SystemPrompt(prompt.IDSignNormalization)

	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	raw, err := n.provider.GenerateResponse(callCtx, userPrompt, systemPrompt, n.options)
	if err != nil {
		return nil, fmt.Errorf("normalization completion failed: %w", err)
	}

	var resp normalizeResponse
	if _, err := utils.SmartParse(raw, &resp); err != nil {
		return nil, fmt.Errorf("normalization response did not match schema: %w", err)
	}
	if len(resp.Lines) == 0 {
		return nil, fmt.Errorf("normalization response contained no lines")
	}

	return n.applyResponse(draft, &resp), nil
}

// buildPrompt serializes the lines and aggregate sign counts.
func (n *ServiceNormalizer) buildPrompt(draft *models.DraftModel) (string, error) {
	lines := make([]normalizeRequestLine, len(draft.Lines))
	for i, l := range draft.Lines {
		lines[i] = normalizeRequestLine{
			RowIndex:    l.RowIndex,
			Category:    l.Category,
			Description: l.Description,
			Amount:      l.Amount,
		}
	}
	pos, neg, zero := signCounts(draft.Lines)

	payload := map[string]interface{}{
		"lines": lines,
		"sign_counts": map[string]int{
			"positive": pos,
			"negative": neg,
			"zero":     zero,
		},
		"detected_format": draft.DetectedFormat,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize lines: %w", err)
	}
	return string(data), nil
}

// applyResponse builds the replacement draft from returned rows, preserving
// original metadata and dropping unmatched input rows with a warning.
func (n *ServiceNormalizer) applyResponse(draft *models.DraftModel, resp *normalizeResponse) *models.DraftModel {
	byIndex := make(map[int]normalizedLine, len(resp.Lines))
	for _, rl := range resp.Lines {
		if _, dup := byIndex[rl.RowIndex]; !dup {
			byIndex[rl.RowIndex] = rl
		}
	}

	out := cloneDraft(draft)
	kept := out.Lines[:0]
	dropped := 0
	for _, line := range out.Lines {
		rl, ok := byIndex[line.RowIndex]
		if !ok {
			dropped++
			continue
		}

		line.SetMeta(models.MetaOriginalAmount, formatAmount(line.Amount))

		// Enforce the sign contract regardless of what came back: income
		// positive, everything else negative.
		amount := rl.CorrectedAmount
		if knownLineTypes[rl.LineType] {
			if rl.LineType == models.LineTypeIncome {
				amount = math.Abs(amount)
			} else {
				amount = -math.Abs(amount)
			}
			line.SetMeta(models.MetaLineType, rl.LineType)
		}
		line.Amount = amount

		if rl.Category != "" {
			line.Category = rl.Category
		}
		if rl.Description != "" {
			line.Description = rl.Description
		}
		kept = append(kept, line)
	}
	out.Lines = kept

	if dropped > 0 {
		fmt.Printf("[NORMALIZE] Service response missing %d row indices, rows dropped\n", dropped)
		out.AddNote(fmt.Sprintf("%d rows not returned by normalization service and dropped", dropped))
	}
	if resp.Notes != "" {
		out.AddNote("normalizer: " + resp.Notes)
	}
	fmt.Printf("[NORMALIZE] Service strategy normalized %d lines\n", len(out.Lines))
	return out
}
