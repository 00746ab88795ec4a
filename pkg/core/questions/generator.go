// Package questions produces the clarification questions whose answers feed
// the field-ID patch protocol. Question field IDs always come from the
// deterministic templates; an optional service pass may rephrase the text
// only, and keeps the template wording on any failure.
package questions

import (
	"fmt"

	"lifepath_planner/pkg/models"
)

// Kind of answer a question expects, so the client can render the right input.
const (
	KindBoolean = "boolean"
	KindNumber  = "number"
	KindChoice  = "choice"
)

// ClarificationQuestion addresses one model field through the patch grammar.
type ClarificationQuestion struct {
	FieldID string   `json:"field_id"`
	Text    string   `json:"text"`
	Kind    string   `json:"kind"`
	Choices []string `json:"choices,omitempty"`
}

// Generate builds the deterministic question list for a model: one per
// expense whose essential flag is still unknown, plus the missing details of
// every approximate debt.
func Generate(model *models.UnifiedModel) []ClarificationQuestion {
	var qs []ClarificationQuestion

	for _, exp := range model.Expenses {
		if exp.Essential == models.EssentialUnknown {
			qs = append(qs, ClarificationQuestion{
				FieldID: "essential_" + exp.ID,
				Text:    fmt.Sprintf("Is %q an essential expense you could not reasonably cut?", exp.Category),
				Kind:    KindBoolean,
			})
		}
	}

	for _, debt := range model.Debts {
		if !debt.Approximate && debt.Balance > 0 {
			continue
		}
		qs = append(qs,
			ClarificationQuestion{
				FieldID: debt.ID + "_balance",
				Text:    fmt.Sprintf("What is the current balance on %q?", debt.Name),
				Kind:    KindNumber,
			},
			ClarificationQuestion{
				FieldID: debt.ID + "_interest_rate",
				Text:    fmt.Sprintf("What interest rate (%%) does %q carry?", debt.Name),
				Kind:    KindNumber,
			},
		)
		if debt.MinPayment == 0 {
			qs = append(qs, ClarificationQuestion{
				FieldID: debt.ID + "_min_payment",
				Text:    fmt.Sprintf("What is the minimum monthly payment on %q?", debt.Name),
				Kind:    KindNumber,
			})
		}
	}

	if len(model.Income) > 0 && model.Income[0].Type == models.IncomeEarned && model.Income[0].Stability == models.StabilityStable {
		qs = append(qs, ClarificationQuestion{
			FieldID: "primary_income_stability",
			Text:    fmt.Sprintf("How steady is %q month to month?", model.Income[0].Name),
			Kind:    KindChoice,
			Choices: []string{models.StabilityStable, models.StabilityVariable, models.StabilitySeasonal},
		})
	}

	return qs
}
