package ingest

import (
	"sort"
	"time"

	"lifepath_planner/pkg/models"
)

// ClassifyFormat scores whether an upload looks like a transaction ledger or a
// categorical budget sheet. The score is purely advisory: it annotates the
// draft and its hints but never gates anything downstream.
//
// Scoring: +2 debit/credit column pair, +1 running-balance column, +1 dense
// date series (>=6 distinct dates, median consecutive gap <=7 days), +1 both
// signs present among >=20 lines, +1 line count >=40. Score >=2 means ledger.
func ClassifyFormat(draft *models.DraftModel) {
	if draft.FormatHints == nil {
		draft.FormatHints = make(map[string]interface{})
	}

	score := 0
	if b, _ := draft.FormatHints["debit_credit_pair"].(bool); b {
		score += 2
	}
	if b, _ := draft.FormatHints["balance_column"].(bool); b {
		score++
	}
	if dense := hasDenseDates(draft.Lines); dense {
		score++
		draft.FormatHints["dense_dates"] = true
	}
	if mixed := hasMixedSigns(draft.Lines); mixed && len(draft.Lines) >= 20 {
		score++
		draft.FormatHints["mixed_signs"] = true
	}
	if len(draft.Lines) >= 40 {
		score++
	}

	draft.FormatHints["format_score"] = score
	if score >= 2 {
		draft.DetectedFormat = models.FormatLedger
	} else {
		draft.DetectedFormat = models.FormatCategorical
	}
}

// hasDenseDates reports whether the lines carry at least six distinct dates
// whose median consecutive gap is a week or less.
func hasDenseDates(lines []models.RawLine) bool {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, l := range lines {
		if l.Date == nil {
			continue
		}
		d := l.Date.Truncate(24 * time.Hour)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	if len(dates) < 6 {
		return false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
	}
	sort.Float64s(gaps)
	median := gaps[len(gaps)/2]
	if len(gaps)%2 == 0 {
		median = (gaps[len(gaps)/2-1] + gaps[len(gaps)/2]) / 2
	}
	return median <= 7
}

// hasMixedSigns reports whether both positive and negative amounts appear.
func hasMixedSigns(lines []models.RawLine) bool {
	var pos, neg bool
	for _, l := range lines {
		if l.Amount > 0 {
			pos = true
		}
		if l.Amount < 0 {
			neg = true
		}
	}
	return pos && neg
}
