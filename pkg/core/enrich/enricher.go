// Package enrich runs the optional second service pass over an
// already-classified model: income sub-typing, essential flags, and promotion
// of debt-like expenses into the Debt collection. The pass is strictly
// additive-or-noop; any failure returns the input model unchanged.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lifepath_planner/pkg/core/llm"
	"lifepath_planner/pkg/core/prompt"
	"lifepath_planner/pkg/core/utils"
	"lifepath_planner/pkg/models"
)

// Enricher carries the provider and stage knobs for the enrichment pass.
type Enricher struct {
	provider llm.Provider
	options  map[string]interface{}
	timeout  time.Duration
}

// NewEnricher wires a provider with its stage knobs.
func NewEnricher(provider llm.Provider, options map[string]interface{}, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Enricher{provider: provider, options: options, timeout: timeout}
}

// Wire contract for the enrichment completion.
type enrichTriple struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type incomeEnrichment struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Stability string `json:"stability"`
}

type expenseEnrichment struct {
	ID        string `json:"id"`
	Essential *bool  `json:"essential"`
}

type debtDetection struct {
	ExpenseID string `json:"expense_id"`
	IsDebt    bool   `json:"is_debt"`
	DebtName  string `json:"debt_name"`
}

type enrichResponse struct {
	Incomes  []incomeEnrichment  `json:"incomes"`
	Expenses []expenseEnrichment `json:"expenses"`
	Debts    []debtDetection     `json:"debts"`
	Notes    string              `json:"notes"`
}

// Enrich runs the pass and returns the enriched model, or the input unchanged
// on any failure.
func (e *Enricher) Enrich(ctx context.Context, model *models.UnifiedModel) *models.UnifiedModel {
	if e.provider == nil {
		return model
	}
	if len(model.Income) == 0 && len(model.Expenses) == 0 {
		return model
	}

	userPrompt, err := e.buildPrompt(model)
	if err != nil {
		fmt.Printf("[ENRICH] Skipped: %v\n", err)
		return model
	}
	systemPrompt := prompt.Get().SystemPrompt(prompt.IDEnrichment)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.provider.GenerateResponse(callCtx, userPrompt, systemPrompt, e.options)
	if err != nil {
		fmt.Printf("[ENRICH] Completion failed, model kept as-is: %v\n", err)
		return model
	}

	var resp enrichResponse
	if _, err := utils.SmartParse(raw, &resp); err != nil {
		fmt.Printf("[ENRICH] Response did not match schema, model kept as-is: %v\n", err)
		return model
	}

	return e.apply(model, &resp)
}

// buildPrompt serializes the {id, label, amount} triples.
func (e *Enricher) buildPrompt(model *models.UnifiedModel) (string, error) {
	incomes := make([]enrichTriple, len(model.Income))
	for i, inc := range model.Income {
		incomes[i] = enrichTriple{ID: inc.ID, Label: inc.Name, Amount: inc.MonthlyAmount}
	}
	expenses := make([]enrichTriple, len(model.Expenses))
	for i, exp := range model.Expenses {
		expenses[i] = enrichTriple{ID: exp.ID, Label: exp.Category, Amount: exp.MonthlyAmount}
	}

	data, err := json.Marshal(map[string]interface{}{
		"incomes":  incomes,
		"expenses": expenses,
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize triples: %w", err)
	}
	return string(data), nil
}

var validIncomeTypes = map[string]bool{
	models.IncomeEarned:   true,
	models.IncomePassive:  true,
	models.IncomeTransfer: true,
}

var validStabilities = map[string]bool{
	models.StabilityStable:   true,
	models.StabilityVariable: true,
	models.StabilitySeasonal: true,
}

// apply writes the enrichments onto a clone of the model. Ids never change and
// no entity moves except detected debts, which leave the Expense collection.
func (e *Enricher) apply(model *models.UnifiedModel, resp *enrichResponse) *models.UnifiedModel {
	out := model.Clone()

	for _, ie := range resp.Incomes {
		inc := findIncome(out, ie.ID)
		if inc == nil {
			continue
		}
		if validIncomeTypes[ie.Type] {
			inc.Type = ie.Type
		}
		if validStabilities[ie.Stability] {
			inc.Stability = ie.Stability
		}
	}

	for _, ee := range resp.Expenses {
		exp := out.FindExpense(ee.ID)
		if exp == nil || ee.Essential == nil {
			continue
		}
		if *ee.Essential {
			exp.Essential = models.EssentialYes
		} else {
			exp.Essential = models.EssentialNo
		}
	}

	promoted := 0
	for _, det := range resp.Debts {
		if !det.IsDebt {
			continue
		}
		exp := out.FindExpense(det.ExpenseID)
		if exp == nil {
			continue
		}
		name := strings.TrimSpace(det.DebtName)
		if name == "" {
			name = exp.Category
		}
		if debtNameTaken(out, name) {
			fmt.Printf("[ENRICH] Debt name %q already present, skipping detection for %s\n", name, det.ExpenseID)
			continue
		}

		out.Debts = append(out.Debts, models.Debt{
			ID:          fmt.Sprintf("debt-%d", len(out.Debts)+1),
			Name:        name,
			MinPayment:  exp.MonthlyAmount,
			Priority:    models.PriorityMedium,
			Approximate: true,
		})
		removeExpense(out, det.ExpenseID)
		promoted++
	}

	if resp.Notes != "" {
		if out.Notes != "" {
			out.Notes += "; "
		}
		out.Notes += "enricher: " + resp.Notes
	}

	fmt.Printf("[ENRICH] Applied: %d income updates, %d essential flags, %d debt promotions\n",
		len(resp.Incomes), len(resp.Expenses), promoted)

	out.RecomputeSummary()
	return out
}

func findIncome(m *models.UnifiedModel, id string) *models.Income {
	for i := range m.Income {
		if m.Income[i].ID == id {
			return &m.Income[i]
		}
	}
	return nil
}

func debtNameTaken(m *models.UnifiedModel, name string) bool {
	for _, d := range m.Debts {
		if strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

func removeExpense(m *models.UnifiedModel, id string) {
	for i := range m.Expenses {
		if m.Expenses[i].ID == id {
			m.Expenses = append(m.Expenses[:i], m.Expenses[i+1:]...)
			return
		}
	}
}
