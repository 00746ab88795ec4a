package classify

import "strings"

// Keyword sets backing the deterministic classification cascade. Matching is
// case-insensitive substring containment over "category description".

var incomeKeywords = []string{
	"salary", "paycheck", "payroll", "wages", "income", "freelance",
	"bonus", "commission", "dividend", "interest earned", "pension",
	"refund", "reimbursement", "side hustle", "stipend",
}

var debtKeywords = []string{
	"loan", "mortgage", "credit card", "card payment", "student loan",
	"auto loan", "car payment", "debt", "financing", "installment",
	"repayment", "line of credit",
}

var expenseKeywords = []string{
	"rent", "groceries", "grocery", "utilities", "utility", "insurance",
	"subscription", "phone", "internet", "food", "dining", "restaurant",
	"transport", "gas", "fuel", "electricity", "water", "entertainment",
	"shopping", "gym", "streaming", "childcare", "medical", "clothing",
}

func matchesAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// MatchesIncome reports whether the text names an income source.
func MatchesIncome(text string) bool { return matchesAny(text, incomeKeywords) }

// MatchesDebt reports whether the text names a debt obligation.
func MatchesDebt(text string) bool { return matchesAny(text, debtKeywords) }

// MatchesExpense reports whether the text names a spending category.
func MatchesExpense(text string) bool { return matchesAny(text, expenseKeywords) }
