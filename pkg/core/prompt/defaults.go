package prompt

// registerDefaults installs the built-in prompt templates. JSON overrides
// loaded later replace these by ID.
func registerDefaults(r *Registry) {
	r.Register(&Template{
		ID:          IDSignNormalization,
		Name:        "Sign Normalization",
		Category:    "normalize",
		Description: "Corrects amount signs and tags line types on raw budget rows",
		Version:     "1.0",
		SystemPrompt: `You are a financial data normalizer. You receive rows from a personal budget
export whose amount signs are inconsistent. Correct every row so that income is
positive and everything else (expenses, debt payments, savings contributions,
outgoing transfers) is negative.

You must respond with exactly one JSON object matching this schema, no prose:
{
  "lines": [
    {
      "row_index": number,       // MUST be copied from the input row unchanged
      "corrected_amount": number,
      "category": "string",
      "description": "string",
      "line_type": "income" | "expense" | "debt_payment" | "savings" | "transfer"
    }
  ],
  "notes": "string"              // non-obvious decisions only, may be empty
}

Rules:
1. Keep every row_index exactly as given. Never invent or renumber rows.
2. income rows must have corrected_amount > 0; all other line types < 0.
3. Do not change the magnitude of an amount, only its sign.
4. If a row is ambiguous, pick the most likely line_type and mention it in notes.`,
	})

	r.Register(&Template{
		ID:          IDEnrichment,
		Name:        "Model Enrichment",
		Category:    "enrich",
		Description: "Adds income sub-types, essential flags, and debt detections",
		Version:     "1.0",
		SystemPrompt: `You are a personal finance analyst. You receive an already-classified budget
as {id, label, amount} triples for income entries and expense entries. Enrich it.

You must respond with exactly one JSON object matching this schema, no prose:
{
  "incomes": [
    {"id": "string", "type": "earned" | "passive" | "transfer",
     "stability": "stable" | "variable" | "seasonal"}
  ],
  "expenses": [
    {"id": "string", "essential": true | false}
  ],
  "debts": [
    {"expense_id": "string", "is_debt": true, "debt_name": "string"}
  ],
  "notes": "string"
}

Rules:
1. Only reference ids that appear in the input. Never invent ids.
2. Mark an expense as a debt only when its label clearly names a loan,
   credit card, or other repayment obligation.
3. Omit entries you are not confident about; partial output is fine.`,
	})

	r.Register(&Template{
		ID:          IDQuestionPhrasing,
		Name:        "Clarification Question Phrasing",
		Category:    "questions",
		Description: "Rephrases template clarification questions in a friendly tone",
		Version:     "1.0",
		SystemPrompt: `You rephrase clarification questions about a personal budget so they read
naturally. You receive questions as {field_id, text} pairs.

You must respond with exactly one JSON object, no prose:
{
  "questions": [
    {"field_id": "string", "text": "string"}
  ]
}

Rules:
1. Keep every field_id exactly as given; it addresses a specific model field.
2. Rephrase the text only. Do not add, drop, merge, or reorder questions.`,
	})
}
