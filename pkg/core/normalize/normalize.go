// Package normalize corrects amount signs on a DraftModel. Two interchangeable
// strategies exist: a service-assisted pass that also tags line types, and a
// deterministic keyword heuristic that is always available. Normalization
// always produces a new DraftModel; the input is never mutated.
package normalize

import (
	"context"
	"strconv"

	"lifepath_planner/pkg/models"
)

// Strategy corrects signs on a draft and returns a replacement draft.
type Strategy interface {
	Normalize(ctx context.Context, draft *models.DraftModel) (*models.DraftModel, error)
}

// knownLineTypes guards tags coming back from the service.
var knownLineTypes = map[string]bool{
	models.LineTypeIncome:      true,
	models.LineTypeExpense:     true,
	models.LineTypeDebtPayment: true,
	models.LineTypeSavings:     true,
	models.LineTypeTransfer:    true,
}

// cloneDraft copies a draft so normalization can replace it wholesale.
func cloneDraft(draft *models.DraftModel) *models.DraftModel {
	out := &models.DraftModel{
		DetectedFormat: draft.DetectedFormat,
		Notes:          draft.Notes,
		Lines:          make([]models.RawLine, len(draft.Lines)),
	}
	if draft.FormatHints != nil {
		out.FormatHints = make(map[string]interface{}, len(draft.FormatHints))
		for k, v := range draft.FormatHints {
			out.FormatHints[k] = v
		}
	}
	for i, line := range draft.Lines {
		copied := line
		if line.Metadata != nil {
			copied.Metadata = make(map[string]string, len(line.Metadata))
			for k, v := range line.Metadata {
				copied.Metadata[k] = v
			}
		}
		out.Lines[i] = copied
	}
	return out
}

// formatAmount renders an amount for the audit metadata.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// signCounts summarizes the sign distribution of a draft's amounts.
func signCounts(lines []models.RawLine) (pos, neg, zero int) {
	for _, l := range lines {
		switch {
		case l.Amount > 0:
			pos++
		case l.Amount < 0:
			neg++
		default:
			zero++
		}
	}
	return
}
