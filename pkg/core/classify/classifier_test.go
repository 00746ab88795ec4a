package classify

import (
	"math"
	"reflect"
	"testing"

	"lifepath_planner/pkg/models"
)

func TestClassifyCanonicalBudget(t *testing.T) {
	// Setup: normalized sheet with both signs
	// Income: Salary 5000 + Freelance Income 1000 = 6000
	// Expenses: Rent 1800 + Groceries 500 + Subscription 15 = 2315
	draft := &models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Salary", Amount: 5000},
		{RowIndex: 1, Category: "Rent", Amount: -1800},
		{RowIndex: 2, Category: "Groceries", Amount: -500},
		{RowIndex: 3, Category: "Subscription", Amount: -15},
		{RowIndex: 4, Category: "Freelance Income", Amount: 1000},
	}}

	model := Classify(draft)

	if len(model.Income) != 2 {
		t.Fatalf("Expected 2 income entries, got %d", len(model.Income))
	}
	if len(model.Expenses) != 3 {
		t.Fatalf("Expected 3 expenses, got %d", len(model.Expenses))
	}
	if model.Summary.TotalIncome != 6000 {
		t.Errorf("Expected total income 6000, got %f", model.Summary.TotalIncome)
	}
	if model.Summary.TotalExpenses != 2315 {
		t.Errorf("Expected total expenses 2315, got %f", model.Summary.TotalExpenses)
	}
	if model.Summary.Surplus != 3685 {
		t.Errorf("Expected surplus 3685, got %f", model.Summary.Surplus)
	}

	// Amounts are stored as magnitudes; membership carries the sign
	for _, exp := range model.Expenses {
		if exp.MonthlyAmount <= 0 {
			t.Errorf("Expense %s has non-positive amount %f", exp.Category, exp.MonthlyAmount)
		}
		if exp.Essential != models.EssentialUnknown {
			t.Errorf("Expense %s should start with unknown essential", exp.Category)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	// Same draft in, identical model out: ids, labels, and bins are stable
	draft := &models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Salary", Amount: 5000},
		{RowIndex: 1, Category: "Personal", Description: "Gym Membership", Amount: -40},
		{RowIndex: 2, Category: "Student Loan", Amount: -280},
	}}

	once := Classify(draft)
	twice := Classify(draft)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Classification not deterministic:\n%+v\n%+v", once, twice)
	}
}

func TestClassifyConservesLineCount(t *testing.T) {
	// Every non-zero input line lands in exactly one collection
	draft := &models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Salary", Amount: 5000},
		{RowIndex: 1, Category: "Rent", Amount: -1800},
		{RowIndex: 2, Category: "Student Loan", Amount: -280},
		{RowIndex: 3, Category: "Gym", Amount: 0},
		{RowIndex: 4, Category: "Oddment", Amount: 12},
	}}

	model := Classify(draft)

	nonZero := 4
	total := len(model.Income) + len(model.Expenses) + len(model.Debts)
	if total != nonZero {
		t.Errorf("Expected %d entries across collections, got %d", nonZero, total)
	}
}

func TestClassifyLineTypeTagsTakePrecedence(t *testing.T) {
	// A service tag beats keywords: "Rent" tagged income lands in Income
	line := models.RawLine{RowIndex: 0, Category: "Rent", Amount: 1500}
	line.SetMeta(models.MetaLineType, models.LineTypeIncome)

	model := Classify(&models.DraftModel{Lines: []models.RawLine{line}})

	if len(model.Income) != 1 || len(model.Expenses) != 0 {
		t.Fatalf("Tag precedence broken: %d income, %d expenses", len(model.Income), len(model.Expenses))
	}
}

func TestClassifyDebtPaymentTag(t *testing.T) {
	line := models.RawLine{RowIndex: 0, Category: "Monthly payment", Amount: -320}
	line.SetMeta(models.MetaLineType, models.LineTypeDebtPayment)

	model := Classify(&models.DraftModel{Lines: []models.RawLine{line}})

	if len(model.Debts) != 1 {
		t.Fatalf("Expected 1 debt, got %d", len(model.Debts))
	}
	d := model.Debts[0]
	if d.MinPayment != 320 {
		t.Errorf("Expected min payment 320, got %f", d.MinPayment)
	}
	if !d.Approximate {
		t.Error("Classification-derived debt must be approximate")
	}
	if d.Balance != 0 {
		t.Errorf("Unknown balance must stay 0, got %f", d.Balance)
	}
}

func TestClassifyDebtKeywords(t *testing.T) {
	draft := &models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Student Loan", Amount: -280},
		{RowIndex: 1, Category: "Car payment", Description: "Auto loan", Amount: -410},
	}}

	model := Classify(draft)

	if len(model.Debts) != 2 {
		t.Fatalf("Expected 2 debts, got %d", len(model.Debts))
	}
	if model.Debts[0].ID != "debt-1" || model.Debts[1].ID != "debt-2" {
		t.Errorf("Debt ids wrong: %s, %s", model.Debts[0].ID, model.Debts[1].ID)
	}
}

func TestClassifyNegativeUnknownDefaultsToExpense(t *testing.T) {
	// No keyword match, amount negative => expense
	model := Classify(&models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Quarterly sundries", Amount: -77},
	}})

	if len(model.Expenses) != 1 {
		t.Fatalf("Expected 1 expense, got %d", len(model.Expenses))
	}
	if model.Expenses[0].MonthlyAmount != 77 {
		t.Errorf("Expected magnitude 77, got %f", model.Expenses[0].MonthlyAmount)
	}
}

func TestClassifyPositiveUnknownDefaultsToExpense(t *testing.T) {
	// Ambiguous positive line with no keyword still lands in expenses:
	// unlabeled lines are more often costs than income
	model := Classify(&models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Miscellaneous 4512", Amount: 77},
	}})

	if len(model.Expenses) != 1 || len(model.Income) != 0 {
		t.Fatalf("Default bin broken: %d expenses, %d income", len(model.Expenses), len(model.Income))
	}
}

func TestClassifyDropsZeroAmounts(t *testing.T) {
	model := Classify(&models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Gym", Amount: 0},
		{RowIndex: 1, Category: "Rent", Amount: -1800},
	}})

	if len(model.Expenses) != 1 {
		t.Fatalf("Expected zero-amount line dropped, got %d expenses", len(model.Expenses))
	}
}

func TestClassifyTransferTagMapsToTransferIncome(t *testing.T) {
	line := models.RawLine{RowIndex: 0, Category: "From savings", Amount: 500}
	line.SetMeta(models.MetaLineType, models.LineTypeTransfer)

	model := Classify(&models.DraftModel{Lines: []models.RawLine{line}})

	if len(model.Income) != 1 {
		t.Fatalf("Expected 1 income, got %d", len(model.Income))
	}
	if model.Income[0].Type != models.IncomeTransfer {
		t.Errorf("Expected transfer type, got %s", model.Income[0].Type)
	}
}

func TestClassifySummaryIncludesDebtPayments(t *testing.T) {
	// TotalExpenses = expenses + debt minimum payments
	model := Classify(&models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Category: "Salary", Amount: 4000},
		{RowIndex: 1, Category: "Rent", Amount: -1500},
		{RowIndex: 2, Category: "Student Loan", Amount: -300},
	}})

	if model.Summary.TotalExpenses != 1800 {
		t.Errorf("Expected 1800 (1500 + 300), got %f", model.Summary.TotalExpenses)
	}
	if math.Abs(model.Summary.Surplus-2200) > 1e-9 {
		t.Errorf("Expected surplus 2200, got %f", model.Summary.Surplus)
	}
}
