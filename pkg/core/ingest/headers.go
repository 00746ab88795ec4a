package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column roles a header can map to. Unmatched headers stay verbatim and their
// cells travel through the pipeline in the metadata bag.
const (
	colCategory    = "category"
	colAmount      = "amount"
	colDescription = "description"
	colDate        = "date"
	colDebit       = "debit"
	colCredit      = "credit"
	colBalance     = "balance"
)

// Header synonym lists, matched case/space-insensitively.
var headerSynonyms = map[string][]string{
	colCategory:    {"category", "cat", "name", "label", "item", "budgetcategory", "payee", "merchant", "expensename"},
	colAmount:      {"amount", "amt", "value", "cost", "price", "total", "sum", "monthly", "monthlyamount", "monthlycost"},
	colDescription: {"description", "desc", "memo", "notes", "note", "details", "detail", "comment"},
	colDate:        {"date", "transactiondate", "posteddate", "posted", "day", "when"},
	colDebit:       {"debit", "withdrawal", "withdrawals", "moneyout", "paidout"},
	colCredit:      {"credit", "deposit", "deposits", "moneyin", "paidin"},
	colBalance:     {"balance", "runningbalance", "closingbalance"},
}

// normalizeHeader lowercases a header and strips spaces, underscores, and dashes.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	return h
}

// matchHeader maps a raw header cell to a column role, or "" if unclaimed.
func matchHeader(raw string) string {
	norm := normalizeHeader(raw)
	if norm == "" {
		return ""
	}
	for role, syns := range headerSynonyms {
		for _, s := range syns {
			if norm == s {
				return role
			}
		}
	}
	return ""
}

// columnMap records which grid column serves which role, plus the verbatim
// headers of unclaimed columns.
type columnMap struct {
	roles     map[string]int // role -> column index
	metadata  map[int]string // column index -> verbatim header
	headerRow int
}

func (c *columnMap) has(role string) bool {
	_, ok := c.roles[role]
	return ok
}

// detectHeader scans the first rows of a grid for the header row: the first
// row mapping at least one amount-bearing column (amount or a debit/credit
// pair), or failing that at least two recognized columns.
func detectHeader(grid [][]string) *columnMap {
	maxScan := 5
	if len(grid) < maxScan {
		maxScan = len(grid)
	}

	best := -1
	for i := 0; i < maxScan; i++ {
		roles := rowRoles(grid[i])
		if _, ok := roles[colAmount]; ok {
			best = i
			break
		}
		_, hasDebit := roles[colDebit]
		_, hasCredit := roles[colCredit]
		if hasDebit && hasCredit {
			best = i
			break
		}
		if len(roles) >= 2 && best == -1 {
			best = i
		}
	}
	if best == -1 {
		return nil
	}

	roles := rowRoles(grid[best])
	meta := make(map[int]string)
	claimed := make(map[int]bool)
	for _, idx := range roles {
		claimed[idx] = true
	}
	for idx, cell := range grid[best] {
		if !claimed[idx] && strings.TrimSpace(cell) != "" {
			meta[idx] = strings.TrimSpace(cell)
		}
	}
	return &columnMap{roles: roles, metadata: meta, headerRow: best}
}

// rowRoles maps each recognized header cell in a row to its column index.
// The first occurrence of a role wins.
func rowRoles(row []string) map[string]int {
	roles := make(map[string]int)
	for idx, cell := range row {
		role := matchHeader(cell)
		if role == "" {
			continue
		}
		if _, taken := roles[role]; !taken {
			roles[role] = idx
		}
	}
	return roles
}

// currencyStripper removes currency symbols, codes, and grouping characters
// before numeric conversion.
var currencyStripper = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "",
	"usd", "", "eur", "", "gbp", "", "chf", "",
	",", "", " ", "", " ", "",
)

// parseAmount converts a cell to a signed amount. Accounting parentheses and
// a leading or trailing minus mean negative. Returns false when the cell has
// no parseable number.
func parseAmount(cell string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(cell))
	if s == "" || s == "-" || s == "—" || s == "n/a" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}
	s = currencyStripper.Replace(s)
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	val, _ := d.Float64()
	if negative {
		val = -val
	}
	return val, true
}

// dateLayouts is the fixed set of accepted date formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// excelEpoch is the spreadsheet serial-date origin (day 0 = 1899-12-30).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// parseDate parses a cell against the fixed layout set plus spreadsheet
// serial-date numbers. Unrecognized dates return nil, never an error.
func parseDate(cell string) *time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Spreadsheet serial numbers: plausible range covers 1954-2081.
	if d, err := decimal.NewFromString(s); err == nil {
		serial, _ := d.Float64()
		if serial >= 20000 && serial <= 66000 {
			t := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
			t = t.Truncate(24 * time.Hour)
			return &t
		}
	}
	return nil
}
