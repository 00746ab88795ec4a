package normalize

import (
	"context"
	"fmt"

	"lifepath_planner/pkg/core/classify"
	"lifepath_planner/pkg/models"
)

// HeuristicNormalizer is the deterministic, always-available sign strategy.
//
// If the input already mixes signs it is trusted as-is (passthrough). If every
// amount is non-negative, lines matching expense or debt keywords are flipped
// negative, income-keyword matches stay positive, and everything else stays
// positive marked "unknown" so the classifier default decides.
type HeuristicNormalizer struct{}

var _ Strategy = (*HeuristicNormalizer)(nil)

// Normalize applies the heuristic and returns a replacement draft.
func (n *HeuristicNormalizer) Normalize(_ context.Context, draft *models.DraftModel) (*models.DraftModel, error) {
	out := cloneDraft(draft)

	pos, neg, _ := signCounts(out.Lines)
	if neg > 0 {
		// Mixed or already-negative input: the signs carry information, trust them.
		fmt.Printf("[NORMALIZE] Heuristic: signs present (%d+/%d-), passthrough\n", pos, neg)
		return out, nil
	}

	flipped := 0
	unknown := 0
	for i := range out.Lines {
		line := &out.Lines[i]
		if line.Amount == 0 {
			continue
		}
		text := line.Category + " " + line.Description
		switch {
		case classify.MatchesIncome(text):
			// Income stays positive.
		case classify.MatchesExpense(text) || classify.MatchesDebt(text):
			line.SetMeta(models.MetaOriginalAmount, formatAmount(line.Amount))
			line.Amount = -line.Amount
			flipped++
		default:
			line.SetMeta(models.MetaSignConfidence, "unknown")
			unknown++
		}
	}

	fmt.Printf("[NORMALIZE] Heuristic: all-positive input, flipped %d lines, %d unknown\n", flipped, unknown)
	if unknown > 0 {
		out.AddNote(fmt.Sprintf("%d lines had no keyword match; classifier default applies", unknown))
	}
	return out, nil
}
